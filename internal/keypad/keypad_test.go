package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/smartcalc/internal/calculator"
)

func TestKeymap_Lookup(t *testing.T) {
	km := NewKeymap()

	tests := []struct {
		key  string
		want calculator.Input
	}{
		{"0", calculator.DigitKey(0)},
		{"7", calculator.DigitKey(7)},
		{".", calculator.DecimalKey},
		{"+", calculator.OperatorKey(calculator.OpAdd)},
		{"-", calculator.OperatorKey(calculator.OpSubtract)},
		{"*", calculator.OperatorKey(calculator.OpMultiply)},
		{"/", calculator.OperatorKey(calculator.OpDivide)},
		{"=", calculator.EqualsKey},
		{"enter", calculator.EqualsKey},
		{"Enter", calculator.EqualsKey},
		{"esc", calculator.ClearKey},
		{"Escape", calculator.ClearKey},
		{"backspace", calculator.ClearEntryKey},
		{"Backspace", calculator.ClearEntryKey},
		{"s", calculator.SignKey},
		{"S", calculator.SignKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := km.Lookup(tt.key)
			require.True(t, ok, "key %q should be bound", tt.key)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeymap_UnknownKeys(t *testing.T) {
	km := NewKeymap()
	for _, key := range []string{"x", "q", "ctrl+c", "%", "", "F1"} {
		_, ok := km.Lookup(key)
		assert.False(t, ok, "key %q should not be bound", key)
	}
}

func TestKeymap_CustomSignKeys(t *testing.T) {
	km := NewKeymap("n", "_")

	in, ok := km.Lookup("n")
	require.True(t, ok)
	assert.Equal(t, calculator.SignKey, in)

	_, ok = km.Lookup("s")
	assert.False(t, ok, "default sign key should be replaced")

	assert.Equal(t, []string{"_", "n"}, km.SignToggleKeys())
}

func TestKeymap_SignKeyKeepsExistingBinding(t *testing.T) {
	km := NewKeymap("5", "+", "n")

	in, ok := km.Lookup("5")
	require.True(t, ok)
	assert.Equal(t, calculator.DigitKey(5), in)

	in, ok = km.Lookup("+")
	require.True(t, ok)
	assert.Equal(t, calculator.OperatorKey(calculator.OpAdd), in)

	assert.Equal(t, []string{"n"}, km.SignToggleKeys())
}

func TestValidateSignKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		wantErr string
	}{
		{"defaults", DefaultSignToggleKeys, ""},
		{"custom", []string{"n", "_"}, ""},
		{"none", nil, ""},
		{"empty", []string{""}, "must not be empty"},
		{"digit", []string{"3"}, "already bound"},
		{"decimal", []string{"."}, "already bound"},
		{"operator", []string{"*"}, "already bound"},
		{"equals", []string{"Enter"}, "already bound"},
		{"remote", []string{RemoteKey}, "reserved"},
		{"quit", []string{"n", QuitKey}, "reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignKeys(tt.keys)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestKeymap_Keys(t *testing.T) {
	keys := NewKeymap().Keys()
	assert.Contains(t, keys, "Enter")
	assert.Contains(t, keys, "9")
	assert.IsIncreasing(t, keys)
}

func TestStandard_ButtonByID(t *testing.T) {
	l := Standard()

	tests := []struct {
		id    string
		label string
		input calculator.Input
	}{
		{"digit-7", "7", calculator.DigitKey(7)},
		{"digit-0", "0", calculator.DigitKey(0)},
		{"op-add", "+", calculator.OperatorKey(calculator.OpAdd)},
		{"op-divide", "÷", calculator.OperatorKey(calculator.OpDivide)},
		{"equals", "=", calculator.EqualsKey},
		{"clear", "C", calculator.ClearKey},
		{"clear-entry", "CE", calculator.ClearEntryKey},
		{"sign", "±", calculator.SignKey},
		{"decimal", ".", calculator.DecimalKey},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			b, ok := l.ButtonByID(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.label, b.Label)
			assert.Equal(t, tt.input, b.Input)
		})
	}

	_, ok := l.ButtonByID("op-modulo")
	assert.False(t, ok)
}

func TestStandard_ButtonAt(t *testing.T) {
	l := Standard()

	b, ok := l.ButtonAt(1, 0)
	require.True(t, ok)
	assert.Equal(t, "digit-7", b.ID)

	// zero spans two columns
	for col := 0; col < 2; col++ {
		b, ok = l.ButtonAt(4, col)
		require.True(t, ok)
		assert.Equal(t, "digit-0", b.ID)
	}

	b, ok = l.ButtonAt(4, 3)
	require.True(t, ok)
	assert.Equal(t, "equals", b.ID)

	_, ok = l.ButtonAt(5, 0)
	assert.False(t, ok)
	_, ok = l.ButtonAt(0, 4)
	assert.False(t, ok)
	_, ok = l.ButtonAt(-1, 0)
	assert.False(t, ok)
}

func TestStandard_GridIsComplete(t *testing.T) {
	l := Standard()
	seen := make(map[string]bool)

	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			b, ok := l.ButtonAt(row, col)
			require.True(t, ok, "cell %d,%d is empty", row, col)
			seen[b.ID] = true
		}
	}
	assert.Len(t, seen, len(l.Buttons), "every button should be reachable")
}

func TestStandard_CoversEveryKeymapInput(t *testing.T) {
	l := Standard()
	km := NewKeymap()

	inputs := make(map[calculator.Input]bool)
	for _, b := range l.Buttons {
		inputs[b.Input] = true
	}
	for _, key := range km.Keys() {
		in, _ := km.Lookup(key)
		assert.True(t, inputs[in], "input for key %q has no button", key)
	}
}

func TestLayout_Row(t *testing.T) {
	row := Standard().Row(4)
	require.Len(t, row, 3)
	assert.Equal(t, "digit-0", row[0].ID)
	assert.Equal(t, 2, row[0].Span)
	assert.Equal(t, "equals", row[2].ID)
}
