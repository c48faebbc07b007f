package calculator

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a calculator error
type ErrorKind int

const (
	// KindDivideByZero is raised when the divisor of a division is zero
	KindDivideByZero ErrorKind = iota
	// KindInvalidOperation is raised by the delayed path for an unknown operator
	KindInvalidOperation
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindDivideByZero:
		return "DivideByZero"
	case KindInvalidOperation:
		return "InvalidOperation"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Messages shown on the display for each user-facing error.
const (
	MsgDivideByZero     = "Cannot divide by zero"
	MsgInvalidOperation = "Invalid operation"
)

var (
	// ErrDivideByZero matches any *CalcError of kind KindDivideByZero
	ErrDivideByZero = &CalcError{Kind: KindDivideByZero, Message: MsgDivideByZero}
	// ErrInvalidOperation matches any *CalcError of kind KindInvalidOperation
	ErrInvalidOperation = &CalcError{Kind: KindInvalidOperation, Message: MsgInvalidOperation}

	// ErrSuspended is returned for input received while a delayed computation is pending.
	ErrSuspended = errors.New("calculator is busy")
	// ErrInvalidDigit is returned when a digit outside 0-9 is pressed.
	ErrInvalidDigit = errors.New("digit out of range")
	// ErrInvariant marks an internal state that the transitions should never produce,
	// such as an Entry that does not parse as a number.
	ErrInvariant = errors.New("calculator invariant violated")
)

// CalcError is a user-facing calculator error. Its Message is what the
// display sink shows.
type CalcError struct {
	Kind    ErrorKind
	Message string
	Err     error // Underlying error (if any)
}

// Error implements the error interface
func (e *CalcError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *CalcError) Unwrap() error {
	return e.Err
}

// Is matches two CalcErrors by kind so errors.Is works against the sentinels.
func (e *CalcError) Is(target error) bool {
	var t *CalcError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// DisplayMessage returns the text a display sink should show for err, and
// false if err is not a user-facing calculator error.
func DisplayMessage(err error) (string, bool) {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Message, true
	}
	return "", false
}

func newDivideByZero(dividend string) *CalcError {
	return &CalcError{
		Kind:    KindDivideByZero,
		Message: MsgDivideByZero,
		Err:     fmt.Errorf("%s / 0", dividend),
	}
}

func newInvalidOperation(op Operator) *CalcError {
	return &CalcError{
		Kind:    KindInvalidOperation,
		Message: MsgInvalidOperation,
		Err:     fmt.Errorf("unknown operator %q", string(op)),
	}
}
