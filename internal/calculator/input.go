package calculator

import (
	"fmt"
	"strconv"
)

// InputKind identifies a calculator transition
type InputKind int

const (
	InputDigit InputKind = iota
	InputDecimal
	InputOperator
	InputEquals
	InputClear
	InputClearEntry
	InputSignToggle
)

// String returns the kind name used in logs and metric labels
func (k InputKind) String() string {
	switch k {
	case InputDigit:
		return "digit"
	case InputDecimal:
		return "decimal"
	case InputOperator:
		return "operator"
	case InputEquals:
		return "equals"
	case InputClear:
		return "clear"
	case InputClearEntry:
		return "clear_entry"
	case InputSignToggle:
		return "sign_toggle"
	default:
		return fmt.Sprintf("InputKind(%d)", k)
	}
}

// Input is a single symbolic event fed to the Machine by an input adapter.
type Input struct {
	Kind  InputKind
	Digit int      // InputDigit only
	Op    Operator // InputOperator only
}

// Inputs without parameters.
var (
	DecimalKey    = Input{Kind: InputDecimal}
	EqualsKey     = Input{Kind: InputEquals}
	ClearKey      = Input{Kind: InputClear}
	ClearEntryKey = Input{Kind: InputClearEntry}
	SignKey       = Input{Kind: InputSignToggle}
)

// DigitKey returns the input for digit d
func DigitKey(d int) Input {
	return Input{Kind: InputDigit, Digit: d}
}

// OperatorKey returns the input for operator op
func OperatorKey(op Operator) Input {
	return Input{Kind: InputOperator, Op: op}
}

// String returns the keypad label of the input
func (in Input) String() string {
	switch in.Kind {
	case InputDigit:
		return strconv.Itoa(in.Digit)
	case InputDecimal:
		return "."
	case InputOperator:
		return in.Op.String()
	case InputEquals:
		return "="
	case InputClear:
		return "C"
	case InputClearEntry:
		return "CE"
	case InputSignToggle:
		return "±"
	default:
		return in.Kind.String()
	}
}
