package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/smartcalc/internal/calculator"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeKeys feeds each character of keys as a key press
func typeKeys(t *testing.T, m Model, keys string) Model {
	t.Helper()
	for _, r := range keys {
		updated, _ := m.Update(runeKey(string(r)))
		m = updated.(Model)
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_KeyboardComputation(t *testing.T) {
	m := NewModel(Options{})
	m = typeKeys(t, m, "12+30")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	got := m.Display()
	if got.Display != "42" {
		t.Errorf("display = %q, want 42", got.Display)
	}
	if got.History != "12 + 30 =" {
		t.Errorf("history = %q, want %q", got.History, "12 + 30 =")
	}
}

func TestModel_SpecialKeys(t *testing.T) {
	m := NewModel(Options{})
	m = typeKeys(t, m, "5s")
	if got := m.Display().Display; got != "-5" {
		t.Fatalf("after sign toggle display = %q, want -5", got)
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.Display().Display; got != "0" {
		t.Errorf("after backspace display = %q, want 0", got)
	}

	m = typeKeys(t, m, "9*")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if s := m.Machine().Snapshot(); s.HasPending || s.Entry != "0" {
		t.Errorf("after esc state = %+v, want idle", s)
	}
}

func TestModel_CustomSignKeys(t *testing.T) {
	m := NewModel(Options{SignKeys: []string{"n"}})
	m = typeKeys(t, m, "4n")
	if got := m.Display().Display; got != "-4" {
		t.Errorf("display = %q, want -4", got)
	}
	m = typeKeys(t, m, "s")
	if got := m.Display().Display; got != "-4" {
		t.Errorf("unbound key changed display to %q", got)
	}
}

func TestModel_DivideByZeroShowsError(t *testing.T) {
	m := NewModel(Options{})
	m = typeKeys(t, m, "5/0=")

	got := m.Display()
	if !got.Error || got.Display != calculator.MsgDivideByZero {
		t.Errorf("display = %+v, want divide by zero error", got)
	}
	if m.Status() != "" {
		t.Errorf("status = %q, want empty", m.Status())
	}
	if !strings.Contains(m.View(), calculator.MsgDivideByZero) {
		t.Error("view should contain the error message")
	}
}

func TestModel_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyCtrlC}} {
		m := NewModel(Options{})
		_, cmd := send(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s should return a command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should quit", msg)
		}
		if m.ctx.Err() == nil {
			t.Errorf("%s should cancel pending computations", msg)
		}
	}
}

func TestModel_RemoteEquals(t *testing.T) {
	m := NewModel(Options{Delay: 10 * time.Millisecond})
	m = typeKeys(t, m, "6*7")

	m, cmd := send(t, m, runeKey("r"))
	if cmd == nil {
		t.Fatal("remote equals should return a command")
	}
	if !m.Busy() {
		t.Fatal("model should be busy")
	}

	// keys are ignored while busy
	m = typeKeys(t, m, "9")
	if !strings.Contains(m.Status(), "Busy") {
		t.Errorf("status = %q, want busy notice", m.Status())
	}
	if got := m.Machine().Snapshot().Entry; got != "7" {
		t.Errorf("entry changed while busy: %q", got)
	}

	m, _ = send(t, m, outcomeFrom(t, cmd))

	if m.Busy() {
		t.Error("model should not be busy after the outcome")
	}
	if got := m.Display().Display; got != "42" {
		t.Errorf("display = %q, want 42", got)
	}
	if s := m.Machine().Snapshot(); s.HasPending || !s.ResetFlag {
		t.Errorf("state = %+v, want pending cleared and reset armed", s)
	}
}

// outcomeFrom runs the batched commands of a remote equals and returns the
// delayed computation's outcome message.
func outcomeFrom(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("remote equals should batch the spinner and the computation")
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(outcomeMsg); ok {
			return msg
		}
	}
	t.Fatal("no outcome in batch")
	return nil
}

func TestModel_RemoteEqualsWithoutPending(t *testing.T) {
	m := NewModel(Options{})
	m = typeKeys(t, m, "5")

	m, cmd := send(t, m, runeKey("r"))
	if cmd != nil {
		t.Error("nothing pending should not start a computation")
	}
	if m.Busy() {
		t.Error("model should not be busy")
	}
	if m.Status() == "" {
		t.Error("status should explain why nothing happened")
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := NewModel(Options{ShowHelp: true})
	if m.help.ShowAll {
		t.Fatal("full help should start hidden")
	}
	m, _ = send(t, m, runeKey("?"))
	if !m.help.ShowAll {
		t.Error("? should show full help")
	}
	if !strings.Contains(m.View(), "clear entry") {
		t.Error("full help should list clear entry")
	}
}

// cellCenter returns a screen position inside the keypad cell
func cellCenter(m Model, row, col int) (int, int) {
	ox, oy := m.keypadOrigin()
	return ox + col*(keyWidth+2) + 2, oy + row*keyHeight + 1
}

func click(t *testing.T, m Model, row, col int) Model {
	t.Helper()
	x, y := cellCenter(m, row, col)
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return m
}

func TestModel_MouseClicks(t *testing.T) {
	for _, size := range []tea.WindowSizeMsg{{Width: 20, Height: 10}, {Width: 100, Height: 40}} {
		m := NewModel(Options{})
		m, _ = send(t, m, size)

		m = click(t, m, 1, 0) // 7
		m = click(t, m, 3, 3) // +
		m = click(t, m, 4, 1) // 0, second column of its span
		m = click(t, m, 3, 0) // 1
		m = click(t, m, 4, 3) // =

		if got := m.Display().Display; got != "8" {
			t.Errorf("size %dx%d: display = %q, want 8", size.Width, size.Height, got)
		}
	}
}

func TestModel_MouseIgnoresOtherEvents(t *testing.T) {
	m := NewModel(Options{})
	x, y := cellCenter(m, 1, 0)

	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m, _ = send(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	if got := m.Display().Display; got != "0" {
		t.Errorf("display = %q, want 0", got)
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(Options{ShowHelp: true})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()

	for _, want := range []string{AppName, "CE", "±", "=", "remote equals"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}
