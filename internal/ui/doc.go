// Package ui provides terminal output components for the non-interactive
// smartcalc commands (eval, legacy, discover, config).
//
// These components follow a "print and exit" pattern: they render styled
// output with Lipgloss but never wait for input, except Confirm.
//
// # Components
//
//   - Header: command banner showing the operation and its parameters
//   - Steps: numbered step list with status markers
//   - Result: success, failure or warning box with details
//   - Runner: drives header → steps → result for one operation
//   - Printer: writes any of the above to an io.Writer
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Legacy Computation",
//	    Command:   "smartcalc legacy 6 * 7",
//	    StepNames: []string{"Schedule", "Wait for result"},
//	})
//
//	err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, ui.StepComplete, "")
//	    return []ui.Param{{Key: "Result", Value: "42"}}, nil
//	})
//
// # Logging Integration
//
// Logging is controlled by the SMARTCALC_LOG_LEVEL environment variable.
// When unset, zap logging is silent so the styled output stays clean.
package ui
