package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending  StepStatus = iota // Not yet started
	StepRunning                    // Currently executing
	StepComplete                   // Successfully completed
	StepFailed                     // Failed
	StepSkipped                    // Skipped
)

// Step represents a single step in a multi-step operation
type Step struct {
	Number  int
	Name    string
	Status  StepStatus
	Message string // e.g., "500ms delay"
}

// StepCallback reports progress of a step. Steps are numbered from 1.
type StepCallback func(stepNumber int, status StepStatus, message string)

// Steps is the step list printed while a command runs.
type Steps struct {
	Steps []Step
}

// NewSteps creates a step list with every step pending
func NewSteps(names ...string) *Steps {
	s := &Steps{Steps: make([]Step, len(names))}
	for i, name := range names {
		s.Steps[i] = Step{Number: i + 1, Name: name}
	}
	return s
}

// Update sets a step's status and message. Out of range steps are ignored.
func (s *Steps) Update(stepNumber int, status StepStatus, message string) bool {
	if stepNumber < 1 || stepNumber > len(s.Steps) {
		return false
	}
	s.Steps[stepNumber-1].Status = status
	s.Steps[stepNumber-1].Message = message
	return true
}

// Completed returns the number of complete or skipped steps
func (s *Steps) Completed() int {
	n := 0
	for _, step := range s.Steps {
		if step.Status == StepComplete || step.Status == StepSkipped {
			n++
		}
	}
	return n
}

// RenderLine renders one step as "[n/total] name   marker  (message)".
func (s *Steps) RenderLine(stepNumber int) string {
	step := s.Steps[stepNumber-1]

	var marker string
	var style lipgloss.Style
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, styles.success.UnsetBold()
	case StepRunning:
		marker, style = StepMarkerRunning, styles.running
	case StepFailed:
		marker, style = FailureMarker, styles.failure
	case StepSkipped:
		marker, style = StepMarkerSkipped, styles.muted
	default:
		marker, style = StepMarkerPending, styles.muted
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", step.Number, len(s.Steps))
	b.WriteString(style.Render(step.Name))
	// align markers in one column
	b.WriteString(strings.Repeat(" ", max(45-lipgloss.Width(step.Name), 1)))
	b.WriteString(style.Render(marker))
	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(styles.note.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// Render returns every step line
func (s *Steps) Render() string {
	lines := make([]string, len(s.Steps))
	for i := range s.Steps {
		lines[i] = s.RenderLine(i + 1)
	}
	return strings.Join(lines, "\n")
}
