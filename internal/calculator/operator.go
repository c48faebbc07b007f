package calculator

import "fmt"

// Operator is one of the four binary operations the calculator supports.
// The underlying string is the symbol shown in the history line.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
)

// Operators lists the supported operators in keypad order.
var Operators = []Operator{OpDivide, OpMultiply, OpSubtract, OpAdd}

// ParseOperator accepts either the symbol ("+") or the name ("add").
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "+", "add":
		return OpAdd, true
	case "-", "subtract":
		return OpSubtract, true
	case "*", "multiply":
		return OpMultiply, true
	case "/", "divide":
		return OpDivide, true
	}
	return "", false
}

// Valid reports whether op is one of the known operators
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// Name returns the long name used in metrics, logs and button ids.
func (op Operator) Name() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	default:
		return fmt.Sprintf("unknown(%q)", string(op))
	}
}

// String returns the operator symbol
func (op Operator) String() string {
	return string(op)
}
