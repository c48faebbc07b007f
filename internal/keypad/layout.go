package keypad

import (
	"github.com/muurk/smartcalc/internal/calculator"
)

// Grid dimensions of the standard layout.
const (
	Rows = 5
	Cols = 4
)

// Button is one key of the on-screen keypad.
type Button struct {
	ID    string           `json:"id"`
	Label string           `json:"label"`
	Input calculator.Input `json:"-"`
	Row   int              `json:"row"`
	Col   int              `json:"col"`
	Span  int              `json:"span"` // columns covered, at least 1
}

// Layout is the keypad grid.
type Layout struct {
	Buttons []Button `json:"buttons"`
	byID    map[string]int
}

// Standard returns the four column calculator layout:
//
//	C   CE  ±   ÷
//	7   8   9   ×
//	4   5   6   −
//	1   2   3   +
//	0       .   =
func Standard() *Layout {
	digit := func(d, row, col int) Button {
		return Button{ID: DigitID(d), Label: string(rune('0' + d)), Input: calculator.DigitKey(d), Row: row, Col: col}
	}
	op := func(o calculator.Operator, label string, row int) Button {
		return Button{ID: OperatorID(o), Label: label, Input: calculator.OperatorKey(o), Row: row, Col: 3}
	}

	return newLayout([]Button{
		{ID: "clear", Label: "C", Input: calculator.ClearKey, Row: 0, Col: 0},
		{ID: "clear-entry", Label: "CE", Input: calculator.ClearEntryKey, Row: 0, Col: 1},
		{ID: "sign", Label: "±", Input: calculator.SignKey, Row: 0, Col: 2},
		op(calculator.OpDivide, "÷", 0),

		digit(7, 1, 0), digit(8, 1, 1), digit(9, 1, 2),
		op(calculator.OpMultiply, "×", 1),

		digit(4, 2, 0), digit(5, 2, 1), digit(6, 2, 2),
		op(calculator.OpSubtract, "−", 2),

		digit(1, 3, 0), digit(2, 3, 1), digit(3, 3, 2),
		op(calculator.OpAdd, "+", 3),

		{ID: DigitID(0), Label: "0", Input: calculator.DigitKey(0), Row: 4, Col: 0, Span: 2},
		{ID: "decimal", Label: ".", Input: calculator.DecimalKey, Row: 4, Col: 2},
		{ID: "equals", Label: "=", Input: calculator.EqualsKey, Row: 4, Col: 3},
	})
}

func newLayout(buttons []Button) *Layout {
	l := &Layout{Buttons: buttons, byID: make(map[string]int, len(buttons))}
	for i := range l.Buttons {
		if l.Buttons[i].Span < 1 {
			l.Buttons[i].Span = 1
		}
		l.byID[l.Buttons[i].ID] = i
	}
	return l
}

// DigitID returns the button id of digit d, e.g. "digit-7".
func DigitID(d int) string {
	return "digit-" + string(rune('0'+d))
}

// OperatorID returns the button id of op, e.g. "op-add".
func OperatorID(op calculator.Operator) string {
	return "op-" + op.Name()
}

// ButtonByID finds a button by id. Unknown ids report false.
func (l *Layout) ButtonByID(id string) (Button, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Button{}, false
	}
	return l.Buttons[i], true
}

// ButtonAt returns the button covering the grid cell. Cells outside the
// grid report false.
func (l *Layout) ButtonAt(row, col int) (Button, bool) {
	for _, b := range l.Buttons {
		if b.Row == row && col >= b.Col && col < b.Col+b.Span {
			return b, true
		}
	}
	return Button{}, false
}

// Row returns the buttons of one grid row in column order.
func (l *Layout) Row(row int) []Button {
	var out []Button
	for _, b := range l.Buttons {
		if b.Row == row {
			out = append(out, b)
		}
	}
	return out
}
