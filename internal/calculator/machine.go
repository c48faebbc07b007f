package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/muurk/smartcalc/internal/logging"
	"go.uber.org/zap"
)

const (
	// MaxDigits caps the digits of an Entry, sign and point excluded
	MaxDigits = 12

	idleEntry = "0"
)

// State is a copy of the machine's fields at a point in time.
type State struct {
	Entry           string
	PendingOperand  string
	PendingOperator Operator
	HasPending      bool // PendingOperand and PendingOperator are set
	ResetFlag       bool
	History         string
	Suspended       bool
}

// Machine is the calculator state machine. It is not safe for concurrent
// use: one goroutine owns it and feeds it inputs one at a time.
type Machine struct {
	entry    string
	operand  string
	operator Operator
	pending  bool
	reset    bool
	history  string

	// errText is shown instead of the entry until the next transition
	errText string

	// suspended is set while a delayed computation is outstanding
	suspended bool

	sink      Sink
	busy      BusyIndicator
	delay     time.Duration
	onCompute func(Computation)
}

// Computation paths reported to a compute hook.
const (
	PathDirect  = "direct"
	PathDelayed = "delayed"
)

// Computation describes one finished evaluation, successful or not.
type Computation struct {
	Operand1 string
	Operand2 string
	Operator Operator
	Result   string
	Path     string
	Err      error
}

// Option configures a Machine
type Option func(*Machine)

// WithSink sets the display sink
func WithSink(s Sink) Option {
	return func(m *Machine) {
		if s != nil {
			m.sink = s
		}
	}
}

// WithBusyIndicator sets the busy indicator used by the delayed path
func WithBusyIndicator(b BusyIndicator) Option {
	return func(m *Machine) {
		if b != nil {
			m.busy = b
		}
	}
}

// WithDelay sets the delay of the delayed computation path
func WithDelay(d time.Duration) Option {
	return func(m *Machine) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// WithComputeHook registers fn to be called after every evaluation on
// either path, on the goroutine that owns the machine.
func WithComputeHook(fn func(Computation)) Option {
	return func(m *Machine) {
		m.onCompute = fn
	}
}

// New creates an idle machine and renders its initial display.
func New(opts ...Option) *Machine {
	m := &Machine{
		entry: idleEntry,
		sink:  discardSink{},
		busy:  discardSink{},
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.render()
	return m
}

// Snapshot returns the current state
func (m *Machine) Snapshot() State {
	return State{
		Entry:           m.entry,
		PendingOperand:  m.operand,
		PendingOperator: m.operator,
		HasPending:      m.pending,
		ResetFlag:       m.reset,
		History:         m.history,
		Suspended:       m.suspended,
	}
}

// View returns what the display sink was last told to show.
func (m *Machine) View() Update {
	if m.errText != "" {
		return Update{Display: m.errText, History: m.history, Error: true}
	}
	return Update{Display: FormatDisplay(m.entry), History: m.history}
}

// Delay returns the delay used by the delayed computation path
func (m *Machine) Delay() time.Duration {
	return m.delay
}

// SetDelay changes the delay for delayed computations started afterwards.
func (m *Machine) SetDelay(d time.Duration) {
	if d >= 0 {
		m.delay = d
	}
}

// Apply runs one transition. It returns ErrSuspended while a delayed
// computation is pending, a *CalcError when the transition produced a
// user-facing error (already shown on the sink), or an ErrInvariant wrap if
// the state could not be evaluated.
func (m *Machine) Apply(in Input) error {
	if m.suspended {
		logging.Debug("Input rejected while busy", zap.String("input", in.String()))
		return ErrSuspended
	}
	if m.isNoop(in) {
		return nil
	}

	m.errText = ""

	var err error
	switch in.Kind {
	case InputDigit:
		err = m.digit(in.Digit)
	case InputDecimal:
		m.decimalPoint()
	case InputOperator:
		err = m.operatorPressed(in.Op)
	case InputEquals:
		err = m.equals()
	case InputClear:
		m.clear()
	case InputClearEntry:
		m.entry = idleEntry
	case InputSignToggle:
		m.signToggle()
	default:
		return fmt.Errorf("unknown input kind %v", in.Kind)
	}

	if err != nil && errors.Is(err, ErrInvariant) {
		logging.Error("Calculator invariant violated",
			zap.String("input", in.String()),
			zap.String("entry", m.entry),
			zap.String("operand", m.operand),
			zap.Error(err),
		)
		return err
	}

	m.render()
	logging.LogTransition(in.String(), m.entry, m.history)
	return err
}

// Digit appends a digit to the entry
func (m *Machine) Digit(d int) error { return m.Apply(DigitKey(d)) }

// DecimalPoint adds a decimal point to the entry
func (m *Machine) DecimalPoint() error { return m.Apply(DecimalKey) }

// SignToggle flips the sign of the entry
func (m *Machine) SignToggle() error { return m.Apply(SignKey) }

// Operator stores the entry as the pending operand, evaluating any
// operation already pending first.
func (m *Machine) Operator(op Operator) error { return m.Apply(OperatorKey(op)) }

// Equals evaluates the pending operation
func (m *Machine) Equals() error { return m.Apply(EqualsKey) }

// Clear resets the machine to idle
func (m *Machine) Clear() error { return m.Apply(ClearKey) }

// ClearEntry resets only the entry
func (m *Machine) ClearEntry() error { return m.Apply(ClearEntryKey) }

func (m *Machine) digit(d int) error {
	if d < 0 || d > 9 {
		return fmt.Errorf("%w: %d", ErrInvalidDigit, d)
	}
	ch := strconv.Itoa(d)
	if m.reset || m.entry == idleEntry {
		m.entry = ch
		m.reset = false
		return nil
	}
	if countDigits(m.entry) < MaxDigits {
		m.entry += ch
	}
	return nil
}

func (m *Machine) decimalPoint() {
	switch {
	case m.reset:
		m.entry = "0."
		m.reset = false
	case !containsPoint(m.entry):
		m.entry += "."
	}
}

// isNoop reports inputs that change nothing. They leave the display alone,
// so an error message stays up.
func (m *Machine) isNoop(in Input) bool {
	switch in.Kind {
	case InputEquals:
		return !m.pending
	case InputSignToggle:
		return !signable(m.entry)
	}
	return false
}

func signable(entry string) bool {
	return entry != idleEntry && entry != "NaN"
}

func (m *Machine) signToggle() {
	if !signable(m.entry) {
		return
	}
	if m.entry[0] == '-' {
		m.entry = m.entry[1:]
	} else {
		m.entry = "-" + m.entry
	}
}

func (m *Machine) operatorPressed(op Operator) error {
	var err error
	if m.pending && !m.reset {
		err = m.compute()
		if errors.Is(err, ErrInvariant) {
			return err
		}
	}

	m.operand = m.entry
	m.operator = op
	m.pending = true
	m.reset = true
	m.history = m.operand + " " + op.String()

	// a chained divide-by-zero is overwritten by the new operation
	m.errText = ""
	return err
}

func (m *Machine) equals() error {
	if !m.pending {
		return nil
	}
	return m.compute()
}

// compute evaluates operand, operator and entry into a new entry.
func (m *Machine) compute() error {
	if !m.pending {
		return nil
	}

	m.history = m.operand + " " + m.operator.String() + " " + m.entry + " ="
	c := Computation{Operand1: m.operand, Operand2: m.entry, Operator: m.operator, Path: PathDirect}

	value, err := Evaluate(m.operand, m.entry, m.operator)
	switch {
	case errors.Is(err, ErrDivideByZero):
		logging.Warn("Division by zero",
			zap.String("operand", m.operand),
			zap.String("entry", m.entry),
		)
		m.pending = false
		m.operand = ""
		m.operator = ""
		m.reset = true
		m.errText = MsgDivideByZero
		c.Err = err
		m.computed(c)
		return err
	case errors.Is(err, ErrInvalidOperation):
		// closed operator set; nothing to do
		return nil
	case err != nil:
		return err
	}

	result := FormatResult(value)
	logging.LogComputation(m.operand, m.operator.String(), m.entry, result, PathDirect)

	m.entry = result
	m.pending = false
	m.operand = ""
	m.operator = ""
	m.reset = true

	c.Result = result
	m.computed(c)
	return nil
}

func (m *Machine) computed(c Computation) {
	if m.onCompute != nil {
		m.onCompute(c)
	}
}

func (m *Machine) clear() {
	m.entry = idleEntry
	m.operand = ""
	m.operator = ""
	m.pending = false
	m.reset = false
	m.history = ""
}

func (m *Machine) render() {
	m.sink.Render(m.View())
}

// Evaluate applies op to the two operand texts. It returns ErrDivideByZero
// for a zero divisor, ErrInvalidOperation for an unknown operator, and an
// ErrInvariant wrap if either operand does not parse.
func Evaluate(operand1, operand2 string, op Operator) (float64, error) {
	if !op.Valid() {
		return 0, newInvalidOperation(op)
	}
	a, err := parseOperand(operand1)
	if err != nil {
		return 0, err
	}
	b, err := parseOperand(operand2)
	if err != nil {
		return 0, err
	}

	switch op {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	default:
		if b == 0 {
			return 0, newDivideByZero(operand1)
		}
		return a / b, nil
	}
}

func parseOperand(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: operand %q: %v", ErrInvariant, s, err)
	}
	return v, nil
}

func containsPoint(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}
