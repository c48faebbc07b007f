package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/smartcalc/internal/calculator"
	"github.com/muurk/smartcalc/internal/keypad"
	"github.com/muurk/smartcalc/internal/logging"
)

// Options configures the terminal calculator
type Options struct {
	Delay     time.Duration // legacy path delay; zero means calculator.DefaultDelay
	SignKeys  []string
	ShowHelp  bool
	AltScreen bool
	Mouse     bool
}

// outcomeMsg carries a finished delayed computation back into Update
type outcomeMsg calculator.Outcome

// screen is the machine's display sink and busy indicator. Model copies
// share it; only Update touches it.
type screen struct {
	update calculator.Update
	busy   bool
}

func (s *screen) Render(u calculator.Update) { s.update = u }
func (s *screen) SetBusy(busy bool)         { s.busy = busy }

// Model is the Bubble Tea model of the terminal calculator.
type Model struct {
	machine *calculator.Machine
	screen  *screen
	keymap  *keypad.Keymap
	layout  *keypad.Layout

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	showHelp bool

	// ctx bounds delayed computations; cancelled on quit
	ctx    context.Context
	cancel context.CancelFunc

	status string

	Width  int
	Height int
}

// NewModel creates an idle calculator model
func NewModel(opts Options) Model {
	scr := &screen{}

	delay := opts.Delay
	if delay <= 0 {
		delay = calculator.DefaultDelay
	}

	km := keypad.NewKeymap(opts.SignKeys...)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		machine: calculator.New(
			calculator.WithSink(scr),
			calculator.WithBusyIndicator(scr),
			calculator.WithDelay(delay),
		),
		screen:   scr,
		keymap:   km,
		layout:   keypad.Standard(),
		keys:     newKeyMap(km.SignToggleKeys()),
		help:     help.New(),
		spinner:  s,
		showHelp: opts.ShowHelp,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Run starts the terminal calculator and blocks until the user quits.
func Run(opts Options) error {
	var programOpts []tea.ProgramOption
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if opts.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	m := NewModel(opts)
	defer m.cancel()

	_, err := tea.NewProgram(m, programOpts...).Run()
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case outcomeMsg:
		err := m.machine.Finish(calculator.Outcome(msg))
		m.status = statusFor(err)
		return m, nil

	case spinner.TickMsg:
		if !m.screen.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Remote):
		return m.startRemote()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	in, ok := m.keymap.Lookup(msg.String())
	if !ok {
		return m, nil
	}
	return m.apply(in)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	b, ok := m.hitTest(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	return m.apply(b.Input)
}

func (m Model) apply(in calculator.Input) (tea.Model, tea.Cmd) {
	m.status = statusFor(m.machine.Apply(in))
	return m, nil
}

// startRemote sends the pending operation through the delayed path.
func (m Model) startRemote() (tea.Model, tea.Cmd) {
	operand1, operand2, op, ok := m.machine.PendingDelayed()
	if !ok {
		m.status = "Nothing to compute: enter an operation first"
		return m, nil
	}

	task, err := m.machine.StartDelayed(m.ctx, operand1, operand2, op)
	if err != nil {
		m.status = statusFor(err)
		return m, nil
	}
	logging.Debug("Remote equals started", zap.String("operator", op.Name()))

	m.status = ""
	return m, tea.Batch(m.spinner.Tick, waitForOutcome(task))
}

func waitForOutcome(task *calculator.Task) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg(<-task.Done())
	}
}

// statusFor returns the status line for an error the display does not show.
func statusFor(err error) string {
	if err == nil {
		return ""
	}
	if _, ok := calculator.DisplayMessage(err); ok {
		return ""
	}
	switch {
	case errors.Is(err, calculator.ErrSuspended):
		return "Busy: input ignored until the result arrives"
	case errors.Is(err, context.Canceled):
		return "Computation cancelled"
	}
	return err.Error()
}

// Display returns the last frame the machine rendered
func (m Model) Display() calculator.Update {
	return m.screen.update
}

// Busy reports whether a delayed computation is outstanding
func (m Model) Busy() bool {
	return m.screen.busy
}

// Status returns the status line text
func (m Model) Status() string {
	return m.status
}

// Machine returns the calculator driven by the model
func (m Model) Machine() *calculator.Machine {
	return m.machine
}

func (m Model) framed() bool {
	return m.Width >= MinFramedWidth && m.Height >= MinFramedHeight
}

func padWidth() int {
	return keypad.Cols * (keyWidth + 2)
}

// View implements tea.Model
func (m Model) View() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTop(),
		m.renderKeypad(),
		m.renderStatus(),
	)

	var helpText string
	if m.showHelp {
		helpText = m.help.View(m.keys)
	}

	if m.framed() {
		return RenderApplicationContainer(content, helpText, m.Width, m.Height)
	}
	if helpText == "" {
		return content
	}
	return content + "\n" + helpText
}

// renderTop renders everything above the keypad: display, history and a spacer.
func (m Model) renderTop() string {
	u := m.screen.update

	style := DisplayStyle
	if u.Error {
		style = ErrorDisplayStyle
	}
	display := style.Width(padWidth() - 2).Render(u.Display)
	history := HistoryStyle.Width(padWidth()).Render(u.History)

	return lipgloss.JoinVertical(lipgloss.Left, display, history, "")
}

func (m Model) renderKeypad() string {
	rows := make([]string, 0, keypad.Rows)
	for r := 0; r < keypad.Rows; r++ {
		var cells []string
		for _, b := range m.layout.Row(r) {
			width := keyWidth*b.Span + 2*(b.Span-1)
			cells = append(cells, m.keyStyle(b).Width(width).Render(b.Label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) keyStyle(b keypad.Button) lipgloss.Style {
	if m.screen.busy {
		return DisabledKeyStyle
	}
	switch b.Input.Kind {
	case calculator.InputOperator:
		return OperatorKeyStyle
	case calculator.InputEquals:
		return EqualsKeyStyle
	case calculator.InputClear, calculator.InputClearEntry:
		return ClearKeyStyle
	}
	return KeyStyle
}

func (m Model) renderStatus() string {
	if m.screen.busy {
		return m.spinner.View() + " computing..."
	}
	return StatusStyle.Render(m.status)
}

// keypadOrigin is the screen cell of the keypad's top left corner.
func (m Model) keypadOrigin() (x, y int) {
	y = lipgloss.Height(m.renderTop())
	if m.framed() {
		x += containerOffsetX
		y += containerOffsetY
	}
	return x, y
}

// hitTest maps a mouse position to the keypad button under it.
func (m Model) hitTest(x, y int) (keypad.Button, bool) {
	ox, oy := m.keypadOrigin()
	dx, dy := x-ox, y-oy
	if dx < 0 || dy < 0 {
		return keypad.Button{}, false
	}
	return m.layout.ButtonAt(dy/keyHeight, dx/(keyWidth+2))
}
