package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a non-interactive command run
type RunnerConfig struct {
	Title           string   // e.g., "Legacy Computation"
	Command         string   // e.g., "smartcalc legacy 6 * 7"
	Params          []Param  // shown in the header
	StepNames       []string // one per step
	Troubleshooting []string // shown when the operation fails
	Output          io.Writer
	Width           int // zero means terminal width
}

// Operation is the work a Runner executes. It reports progress through
// onStep and returns the details for the success box.
type Operation func(ctx context.Context, onStep StepCallback) ([]Param, error)

// Runner orchestrates the header → steps → result flow of a command.
type Runner struct {
	config RunnerConfig
	steps  *Steps
	out    io.Writer
	width  int
}

// NewRunner creates a new runner
func NewRunner(config RunnerConfig) *Runner {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}
	return &Runner{
		config: config,
		steps:  NewSteps(config.StepNames...),
		out:    out,
		width:  width,
	}
}

// Steps returns the runner's step list
func (r *Runner) Steps() *Steps {
	return r.steps
}

// Run prints the header, executes the operation and prints the result box.
// The operation's error is returned unchanged.
func (r *Runner) Run(ctx context.Context, op Operation) error {
	start := time.Now()

	header := NewHeader(r.config.Title, r.config.Command, r.config.Params...).SetWidth(r.width)
	_, _ = fmt.Fprintln(r.out, header.Render())
	_, _ = fmt.Fprintln(r.out)

	details, err := op(ctx, r.onStep)
	duration := time.Since(start).Round(time.Millisecond).String()

	_, _ = fmt.Fprintln(r.out)
	if err != nil {
		result := NewFailureResult(r.config.Title+" failed", err, r.config.Troubleshooting...).SetWidth(r.width)
		result.AddDetail("Duration", duration)
		_, _ = fmt.Fprintln(r.out, result.Render())
		return err
	}

	result := NewSuccessResult(r.config.Title+" complete", details...).SetWidth(r.width)
	result.AddDetail("Duration", duration)
	_, _ = fmt.Fprintln(r.out, result.Render())
	return nil
}

func (r *Runner) onStep(stepNumber int, status StepStatus, message string) {
	if !r.steps.Update(stepNumber, status, message) {
		return
	}
	switch status {
	case StepRunning:
		// overwritten when the step finishes
		_, _ = fmt.Fprint(r.out, r.steps.RenderLine(stepNumber)+"\r")
	case StepComplete, StepFailed, StepSkipped:
		_, _ = fmt.Fprintln(r.out, r.steps.RenderLine(stepNumber))
	}
}
