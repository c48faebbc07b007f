// Package calculator implements the calculator state machine.
//
// A Machine folds key presses into a (pending operand, pending operator,
// entry) triple and collapses it into a result on equals, or when a second
// operator is pressed while an operation is pending:
//
//	m := calculator.New(calculator.WithSink(sink))
//	m.Digit(3)
//	m.Operator(calculator.OpAdd)
//	m.Digit(4)
//	m.Operator(calculator.OpMultiply) // evaluates 3 + 4 first
//	m.Digit(5)
//	m.Equals()                        // entry is now "35"
//
// # Entry
//
// The entry is kept as text so that "12." and "-0." can be edited one key at
// a time. It holds at most one decimal point and at most 12 digits.
//
// # Display
//
// After every transition the machine sends an Update to its Sink. The value
// is passed through FormatDisplay, which switches to scientific notation
// outside 0.000001..99,999,999 but otherwise shows the entry as typed.
// Errors such as "Cannot divide by zero" replace the value until the next
// transition and set Update.Error.
//
// # Delayed Computations
//
// StartDelayed runs an operation through a fixed delay, the way an older
// version of the calculator called a remote service. While the Task is
// pending the machine is suspended: every transition returns ErrSuspended
// and the BusyIndicator is asserted. The owner of the machine receives the
// Outcome from Task.Done and passes it to Finish on its own goroutine:
//
//	task, _ := m.StartDelayed(ctx, "6", "3", calculator.OpDivide)
//	out := <-task.Done()
//	m.Finish(out)
//
// # Thread Safety
//
// A Machine must be owned by a single goroutine. Tasks never touch machine
// state; they only deliver an Outcome.
package calculator
