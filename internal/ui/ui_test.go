package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestHeaderRender(t *testing.T) {
	h := NewHeader("Legacy computation", "smartcalc legacy 6 * 7",
		Param{Key: "Operand 1", Value: "6"},
		Param{Key: "Operator", Value: "*"},
	).SetWidth(80)

	out := h.Render()
	for _, want := range []string{"LEGACY COMPUTATION", "smartcalc legacy 6 * 7", "Operand 1:", "Operator:"} {
		if !strings.Contains(out, want) {
			t.Errorf("header should contain %q", want)
		}
	}
	if strings.Index(out, "Operand 1") > strings.Index(out, "Operator") {
		t.Error("params should keep their order")
	}
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Evaluation complete", Param{Key: "Display", Value: "42"}),
			want:   []string{SuccessMarker, "SUCCESS", "Evaluation complete", "Display:", "42"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Evaluation failed", errors.New("boom"), "Check the input"),
			want:   []string{FailureMarker, "FAILED", "Error: boom", "Troubleshooting:", "Check the input"},
		},
		{
			name:   "warning",
			result: NewWarningResult("Nothing found").AddDetail("Timeout", "3s"),
			want:   []string{WarningMarker, "WARNING", "Timeout:", "3s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("result should contain %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestSteps(t *testing.T) {
	s := NewSteps("Parse", "Compute", "Format")

	if !s.Update(1, StepComplete, "") || !s.Update(2, StepSkipped, "") {
		t.Fatal("Update() should accept steps in range")
	}
	if s.Update(0, StepComplete, "") || s.Update(4, StepComplete, "") {
		t.Error("Update() should reject steps out of range")
	}
	if got := s.Completed(); got != 2 {
		t.Errorf("Completed() = %d, want 2", got)
	}

	s.Update(3, StepRunning, "500ms delay")
	line := s.RenderLine(3)
	for _, want := range []string{"[3/3]", "Format", StepMarkerRunning, "(500ms delay)"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q should contain %q", line, want)
		}
	}

	if got := strings.Count(s.Render(), "\n"); got != 2 {
		t.Errorf("Render() has %d newlines, want 2", got)
	}
}

func TestRunner_Success(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerConfig{
		Title:     "Legacy Computation",
		Command:   "smartcalc legacy 1 + 2",
		StepNames: []string{"Schedule", "Wait"},
		Output:    &buf,
		Width:     80,
	})

	err := r.Run(context.Background(), func(ctx context.Context, onStep StepCallback) ([]Param, error) {
		onStep(1, StepRunning, "")
		onStep(1, StepComplete, "")
		onStep(2, StepComplete, "")
		return []Param{{Key: "Result", Value: "3"}}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"LEGACY COMPUTATION", "[1/2]", "[2/2]", "SUCCESS", "Result:", "Duration:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q", want)
		}
	}
	if r.Steps().Completed() != 2 {
		t.Errorf("Completed() = %d, want 2", r.Steps().Completed())
	}
}

func TestRunner_Failure(t *testing.T) {
	var buf bytes.Buffer
	wantErr := errors.New("Cannot divide by zero")
	r := NewRunner(RunnerConfig{
		Title:           "Legacy Computation",
		StepNames:       []string{"Wait"},
		Troubleshooting: []string{"Use a non-zero divisor"},
		Output:          &buf,
		Width:           80,
	})

	err := r.Run(context.Background(), func(ctx context.Context, onStep StepCallback) ([]Param, error) {
		onStep(1, StepFailed, "")
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
	for _, want := range []string{"FAILED", "Cannot divide by zero", "Use a non-zero divisor"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(10)

	if p.Width() != MinTerminalWidth {
		t.Errorf("Width() = %d, want clamped to %d", p.Width(), MinTerminalWidth)
	}

	p.PrintHeader("Eval", "smartcalc eval")
	p.PrintSuccess("Done", Param{Key: "Display", Value: "7"})
	p.PrintError("Oops", errors.New("bad"))
	p.PrintWarning("Hmm")

	out := buf.String()
	for _, want := range []string{"EVAL", "SUCCESS", "FAILED", "WARNING"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out, "Overwrite", []string{"The file exists"}, "Continue?")
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Continue? [y/N]") {
			t.Errorf("prompt missing from output: %q", out.String())
		}
	}
}
