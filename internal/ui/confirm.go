package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm shows a warning box and asks a yes/no question on out, reading
// the answer from in. Only "y" or "yes" (any case) confirms.
func Confirm(in io.Reader, out io.Writer, title string, warnings []string, question string) bool {
	result := NewWarningResult(title)
	for _, w := range warnings {
		result.Details = append(result.Details, Param{Key: "•", Value: w})
	}
	_, _ = fmt.Fprintln(out, result.Render())
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprint(out, styles.warning.Render(question+" [y/N]: "))

	answer, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	_, _ = fmt.Fprintln(out, styles.muted.Render("  Operation cancelled."))
	return false
}
