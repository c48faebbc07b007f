package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette shared with the calculator screen
var (
	AccentColor  = lipgloss.Color("#7D56F4")
	SuccessColor = lipgloss.Color("#43BF6D")
	ErrorColor   = lipgloss.Color("#FF5555")
	WarningColor = lipgloss.Color("#FFA500")
	MutedColor   = lipgloss.Color("#626262")
	TextColor    = lipgloss.Color("#FFFFFF")
)

const (
	MinTerminalWidth = 60
	maxContentWidth  = 100
)

// Markers used by steps and result boxes
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	StepMarkerSkipped  = "⊘"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
	WarningMarker      = "⚠"
)

type styleSet struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	value   lipgloss.Style
	note    lipgloss.Style
	key     lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	running lipgloss.Style
	errText lipgloss.Style
	tipHead lipgloss.Style
}

var styles = newStyleSet()

func newStyleSet() styleSet {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return styleSet{
		title:   fg(TextColor).Bold(true).PaddingLeft(2),
		muted:   fg(MutedColor),
		value:   fg(TextColor),
		note:    fg(MutedColor).Italic(true),
		key:     fg(MutedColor).Width(15),
		success: fg(SuccessColor).Bold(true),
		failure: fg(ErrorColor).Bold(true),
		warning: fg(WarningColor).Bold(true),
		running: fg(WarningColor),
		errText: fg(ErrorColor),
		tipHead: fg(MutedColor).Bold(true),
	}
}

// GetTerminalWidth returns the width of stdout, clamped to a readable range.
// Anything that is not a terminal gets MinTerminalWidth.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return clampWidth(width)
}

func clampWidth(width int) int {
	return min(max(width, MinTerminalWidth), maxContentWidth)
}

// IsTerminal reports whether stdin is an interactive terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func boxStyle(color lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2)
}

func divider(width int) string {
	return lipgloss.NewStyle().Foreground(AccentColor).Render(strings.Repeat("─", width))
}
