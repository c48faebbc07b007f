package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/smartcalc/internal/ui"
	"github.com/muurk/smartcalc/internal/urls"
	"github.com/muurk/smartcalc/internal/version"
)

// AppName is the title shown in the application header
const AppName = "SMARTCALC"

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants
const (
	// MinFramedWidth is the narrowest terminal that gets the bordered
	// application container; narrower terminals get the bare calculator.
	MinFramedWidth  = 72
	MinFramedHeight = 28

	keyWidth  = 5 // inner width of a single key
	keyHeight = 3 // rendered height of a key row, borders included
)

// clearColor marks the keys that discard input
var clearColor = lipgloss.Color("#FF8B94")

var (
	// DisplayStyle frames the main value, right aligned like a pocket calculator
	DisplayStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.AccentColor).
			Align(lipgloss.Right).
			Padding(0, 1)

	// ErrorDisplayStyle replaces DisplayStyle while an error message is shown
	ErrorDisplayStyle = DisplayStyle.
				Foreground(ui.ErrorColor).
				BorderForeground(ui.ErrorColor)

	HistoryStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Italic(true).
			Align(lipgloss.Right)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.MutedColor).
			Align(lipgloss.Center)

	OperatorKeyStyle = KeyStyle.
				Foreground(ui.SuccessColor).
				Bold(true)

	EqualsKeyStyle = KeyStyle.
			Foreground(ui.AccentColor).
			BorderForeground(ui.AccentColor).
			Bold(true)

	ClearKeyStyle = KeyStyle.
			Foreground(clearColor)

	DisabledKeyStyle = KeyStyle.
				Foreground(ui.MutedColor).
				BorderForeground(lipgloss.Color("236"))

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ui.AccentColor)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ui.WarningColor)
)

// BuildHeaderContent renders the app name, version and repository link
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(ui.TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(ui.MutedColor).
		Render(urls.Repository)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// containerOffset is where content starts inside RenderApplicationContainer:
// one column of outer border, and the outer border, header line and header
// rule above.
const (
	containerOffsetX = 1
	containerOffsetY = 3
)

// RenderApplicationContainer wraps a screen in the full-terminal panel with
// the application header on top and the help footer pinned below the content.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(ui.AccentColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(ui.AccentColor).
		Foreground(ui.MutedColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(footerText),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ui.AccentColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(innerContent)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}
