// Package tui is the terminal front end of smartcalc, built on Bubble Tea.
//
// The model owns one calculator.Machine and acts as its display sink and
// busy indicator. Keyboard input goes through keypad.Keymap, so the keys
// match the browser front end; mouse clicks are hit-tested against the
// rendered keypad grid.
//
// # Remote Equals
//
// Pressing "r" sends the pending operation through the delayed computation
// path. The keypad is greyed out and a spinner runs until the outcome
// arrives as a message, which the model hands back to Machine.Finish.
// Input typed in the meantime is ignored and reported on the status line.
//
// # Layout
//
// Terminals at least MinFramedWidth by MinFramedHeight get the application
// container with header and help footer; smaller ones get the bare
// calculator.
package tui
