// Package keypad translates key names and on-screen button presses into
// calculator inputs. The terminal UI and the browser session share it, so a
// key behaves the same everywhere.
package keypad

import (
	"fmt"
	"sort"

	"github.com/muurk/smartcalc/internal/calculator"
)

// DefaultSignToggleKeys are the keys that flip the sign of the entry.
var DefaultSignToggleKeys = []string{"s", "S"}

// Keys the terminal UI handles itself; they never reach the calculator.
const (
	RemoteKey    = "r"
	HelpKey      = "?"
	QuitKey      = "q"
	InterruptKey = "ctrl+c"
)

// ReservedKeys lists the terminal UI's own keys
var ReservedKeys = []string{RemoteKey, HelpKey, QuitKey, InterruptKey}

// Keymap maps key names to calculator inputs. Names are matched exactly as
// bubbletea reports them (tea.KeyMsg.String()) and as browsers report
// KeyboardEvent.key, so both "enter" and "Enter" are present.
type Keymap struct {
	keys map[string]calculator.Input
}

// NewKeymap builds the standard keymap. signKeys replaces the default
// sign-toggle keys when non-empty.
// A sign key that is already bound keeps its original binding.
func NewKeymap(signKeys ...string) *Keymap {
	k := baseKeymap()

	if len(signKeys) == 0 {
		signKeys = DefaultSignToggleKeys
	}
	for _, name := range signKeys {
		if _, bound := k.keys[name]; !bound {
			k.keys[name] = calculator.SignKey
		}
	}

	return k
}

// baseKeymap binds everything except the sign toggle
func baseKeymap() *Keymap {
	k := &Keymap{keys: make(map[string]calculator.Input, 32)}

	for d := 0; d <= 9; d++ {
		k.keys[string(rune('0'+d))] = calculator.DigitKey(d)
	}
	k.keys["."] = calculator.DecimalKey

	for _, op := range calculator.Operators {
		k.keys[op.String()] = calculator.OperatorKey(op)
	}

	for _, name := range []string{"=", "enter", "Enter"} {
		k.keys[name] = calculator.EqualsKey
	}
	for _, name := range []string{"esc", "Escape"} {
		k.keys[name] = calculator.ClearKey
	}
	for _, name := range []string{"backspace", "Backspace"} {
		k.keys[name] = calculator.ClearEntryKey
	}
	return k
}

// ValidateSignKeys rejects sign-toggle keys that are empty, already bound
// to another calculator input, or reserved by the terminal UI.
func ValidateSignKeys(keys []string) error {
	base := baseKeymap()
	for _, name := range keys {
		if name == "" {
			return fmt.Errorf("sign toggle key must not be empty")
		}
		if in, bound := base.keys[name]; bound {
			return fmt.Errorf("sign toggle key %q is already bound to %s", name, in)
		}
		for _, reserved := range ReservedKeys {
			if name == reserved {
				return fmt.Errorf("sign toggle key %q is reserved by the terminal UI", name)
			}
		}
	}
	return nil
}

// Lookup returns the input bound to key. Unbound keys report false.
func (k *Keymap) Lookup(key string) (calculator.Input, bool) {
	in, ok := k.keys[key]
	return in, ok
}

// Keys returns every bound key name, sorted.
func (k *Keymap) Keys() []string {
	names := make([]string, 0, len(k.keys))
	for name := range k.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SignToggleKeys returns the keys bound to the sign toggle, sorted.
func (k *Keymap) SignToggleKeys() []string {
	var names []string
	for name, in := range k.keys {
		if in.Kind == calculator.InputSignToggle {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
