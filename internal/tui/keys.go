package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/muurk/smartcalc/internal/keypad"
)

// keyMap holds the bindings shown in the help footer. Calculator keys are
// resolved through keypad.Keymap; the bindings here only describe them.
type keyMap struct {
	Digits     key.Binding
	Operators  key.Binding
	Equals     key.Binding
	Clear      key.Binding
	ClearEntry key.Binding
	Sign       key.Binding
	Remote     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap(signKeys []string) keyMap {
	return keyMap{
		Digits: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "."),
			key.WithHelp("0-9 .", "enter number"),
		),
		Operators: key.NewBinding(
			key.WithKeys("+", "-", "*", "/"),
			key.WithHelp("+ - * /", "operator"),
		),
		Equals: key.NewBinding(
			key.WithKeys("=", "enter"),
			key.WithHelp("=/enter", "equals"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		ClearEntry: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "clear entry"),
		),
		Sign: key.NewBinding(
			key.WithKeys(signKeys...),
			key.WithHelp(strings.Join(signKeys, "/"), "±"),
		),
		Remote: key.NewBinding(
			key.WithKeys(keypad.RemoteKey),
			key.WithHelp(keypad.RemoteKey, "remote equals"),
		),
		Help: key.NewBinding(
			key.WithKeys(keypad.HelpKey),
			key.WithHelp(keypad.HelpKey, "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys(keypad.QuitKey, keypad.InterruptKey),
			key.WithHelp(keypad.QuitKey, "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Equals, k.Clear, k.Remote, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Digits, k.Operators, k.Equals},
		{k.Clear, k.ClearEntry, k.Sign},
		{k.Remote, k.Help, k.Quit},
	}
}
