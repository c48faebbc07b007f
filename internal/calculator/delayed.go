package calculator

import (
	"context"
	"errors"
	"time"

	"github.com/muurk/smartcalc/internal/logging"
	"go.uber.org/zap"
)

// DefaultDelay is how long the delayed computation path waits before
// delivering a result.
const DefaultDelay = 500 * time.Millisecond

// Outcome is the result of a delayed computation: either a formatted Entry
// value or an error.
type Outcome struct {
	Operand1 string
	Operand2 string
	Operator Operator
	Value    string
	Err      error
}

// Task is a one-shot delayed computation. Its timer fires exactly once; the
// only way to stop it early is the context passed to Schedule.
type Task struct {
	done chan Outcome
}

// Schedule evaluates operand1 op operand2 after delay on its own goroutine.
// The outcome is delivered once on Done. If ctx ends first the outcome
// carries ctx.Err().
func Schedule(ctx context.Context, delay time.Duration, operand1, operand2 string, op Operator) *Task {
	t := &Task{done: make(chan Outcome, 1)}

	go func() {
		defer close(t.done)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		out := Outcome{Operand1: operand1, Operand2: operand2, Operator: op}
		select {
		case <-timer.C:
			out.Value, out.Err = EvaluateFormatted(operand1, operand2, op)
		case <-ctx.Done():
			out.Err = ctx.Err()
		}
		t.done <- out
	}()

	return t
}

// Done returns the channel the outcome is delivered on. It yields one value
// and is then closed.
func (t *Task) Done() <-chan Outcome {
	return t.done
}

// Wait blocks until the outcome is available
func (t *Task) Wait() Outcome {
	return <-t.done
}

// EvaluateFormatted evaluates and formats a result the way the delayed path
// delivers it. Unlike the direct path, an unknown operator is an error here.
func EvaluateFormatted(operand1, operand2 string, op Operator) (string, error) {
	value, err := Evaluate(operand1, operand2, op)
	if err != nil {
		return "", err
	}
	return FormatResult(value), nil
}

// Suspended reports whether a delayed computation is pending
func (m *Machine) Suspended() bool {
	return m.suspended
}

// PendingDelayed returns the pending operation as delayed path arguments:
// the pending operand, the current entry and the pending operator.
func (m *Machine) PendingDelayed() (operand1, operand2 string, op Operator, ok bool) {
	if !m.pending {
		return "", "", "", false
	}
	return m.operand, m.entry, m.operator, true
}

// StartDelayed schedules a delayed computation, asserts the busy indicator
// and suspends the machine until Finish is called with the task's outcome.
func (m *Machine) StartDelayed(ctx context.Context, operand1, operand2 string, op Operator) (*Task, error) {
	if m.suspended {
		return nil, ErrSuspended
	}

	m.suspended = true
	m.busy.SetBusy(true)

	logging.Debug("Delayed computation scheduled",
		zap.String("operand1", operand1),
		zap.String("operator", op.String()),
		zap.String("operand2", operand2),
		zap.Duration("delay", m.delay),
	)

	return Schedule(ctx, m.delay, operand1, operand2, op), nil
}

// Finish applies a delayed outcome and resumes the machine. A successful
// outcome replaces the entry and clears the pending operation. A calculator
// error is shown on the sink and left as the returned error; the pending
// operation is kept. A cancelled task only resumes the machine.
func (m *Machine) Finish(out Outcome) error {
	m.suspended = false

	c := Computation{
		Operand1: out.Operand1,
		Operand2: out.Operand2,
		Operator: out.Operator,
		Result:   out.Value,
		Path:     PathDelayed,
		Err:      out.Err,
	}

	switch {
	case out.Err == nil:
		logging.LogComputation(out.Operand1, out.Operator.String(), out.Operand2, out.Value, PathDelayed)
		m.errText = ""
		m.entry = out.Value
		m.render()
		m.busy.SetBusy(false)
		m.pending = false
		m.operand = ""
		m.operator = ""
		m.reset = true
		m.computed(c)
		return nil

	case errors.Is(out.Err, context.Canceled) || errors.Is(out.Err, context.DeadlineExceeded):
		logging.Info("Delayed computation cancelled", zap.Error(out.Err))
		m.busy.SetBusy(false)
		return out.Err
	}

	if msg, ok := DisplayMessage(out.Err); ok {
		logging.Warn("Delayed computation failed",
			zap.String("operand1", out.Operand1),
			zap.String("operator", out.Operator.String()),
			zap.String("operand2", out.Operand2),
			zap.Error(out.Err),
		)
		m.errText = msg
		m.render()
		m.computed(c)
	} else {
		logging.Error("Delayed computation failed", zap.Error(out.Err))
	}
	m.busy.SetBusy(false)
	return out.Err
}

// ComputeDelayed runs the delayed path to completion on the calling
// goroutine and returns the new entry.
func (m *Machine) ComputeDelayed(ctx context.Context, operand1, operand2 string, op Operator) (string, error) {
	task, err := m.StartDelayed(ctx, operand1, operand2, op)
	if err != nil {
		return "", err
	}
	if err := m.Finish(task.Wait()); err != nil {
		return "", err
	}
	return m.entry, nil
}
