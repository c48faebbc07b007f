package main

import (
	"errors"
	"fmt"

	"github.com/muurk/smartcalc/internal/calculator"
	"github.com/muurk/smartcalc/internal/keypad"
)

// parseKeys turns command line arguments into calculator inputs. An
// argument that is itself a bound key name ("Enter", "Escape") is one key;
// anything else is read one character at a time, so "3+4=" is four keys.
// Spaces are skipped.
func parseKeys(km *keypad.Keymap, args []string) ([]calculator.Input, error) {
	var inputs []calculator.Input
	for _, arg := range args {
		if in, ok := km.Lookup(arg); ok {
			inputs = append(inputs, in)
			continue
		}
		for _, r := range arg {
			if r == ' ' {
				continue
			}
			in, ok := km.Lookup(string(r))
			if !ok {
				return nil, fmt.Errorf("unknown key %q in %q", r, arg)
			}
			inputs = append(inputs, in)
		}
	}
	if len(inputs) == 0 {
		return nil, errors.New("no keys given")
	}
	return inputs, nil
}

// replay feeds inputs to m and returns the last calculator error, if any.
// Invariant violations stop the replay.
func replay(m *calculator.Machine, inputs []calculator.Input) error {
	var last error
	for _, in := range inputs {
		err := m.Apply(in)
		if errors.Is(err, calculator.ErrInvariant) {
			return err
		}
		if err != nil {
			last = err
		}
	}
	return last
}
