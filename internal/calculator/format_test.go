package calculator

import (
	"math"
	"testing"
)

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"integer", 42, "42"},
		{"negative", -7, "-7"},
		{"zero", 0, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"fraction", 3.5, "3.5"},
		{"float noise", 0.1 + 0.2, "0.3"},
		{"twelve significant digits", 2.0 / 3.0, "0.666666666667"},
		{"tiny stays plain", 0.0000001, "0.0000001"},
		{"at overflow boundary", 1e12, "1000000000000"},
		{"above overflow", 1234567890123, "1.234568e+12"},
		{"tie rounds up", 123456789012.5, "123456789013"},
		{"negative tie rounds away from zero", -123456789012.5, "-123456789013"},
		{"large negative", -5e15, "-5.000000e+15"},
		{"positive infinity", math.Inf(1), "Infinity"},
		{"negative infinity", math.Inf(-1), "-Infinity"},
		{"nan", math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResult(tt.in); got != tt.want {
				t.Errorf("FormatResult(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDisplay(t *testing.T) {
	tests := []struct {
		entry string
		want  string
	}{
		{"0", "0"},
		{"12.", "12."},
		{"-0.", "-0."},
		{"99999999", "99999999"},
		{"-99999999", "-99999999"},
		{"100000000", "1.000000e+8"},
		{"0.000001", "0.000001"},
		{"0.0000001", "1.000000e-7"},
		{"-0.0000005", "-5.000000e-7"},
		{"1.234568e+12", "1.234568e+12"},
		{"Cannot divide by zero", "Cannot divide by zero"},
		{"NaN", "NaN"},
		{"Infinity", "Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			if got := FormatDisplay(tt.entry); got != tt.want {
				t.Errorf("FormatDisplay(%q) = %q, want %q", tt.entry, got, tt.want)
			}
		})
	}
}

func TestRoundSignificant(t *testing.T) {
	tests := []struct {
		in     float64
		digits int
		want   float64
	}{
		{0.1 + 0.2, 12, 0.3},
		{123456789012345, 12, 123456789012000},
		{1.0 / 3.0, 3, 0.333},
		{0, 12, 0},
		{2.5, 1, 3},
		{-2.5, 1, -3},
		{0.125, 2, 0.13},
		{0.5, 1, 0.5},
	}

	for _, tt := range tests {
		if got := RoundSignificant(tt.in, tt.digits); got != tt.want {
			t.Errorf("RoundSignificant(%v, %d) = %v, want %v", tt.in, tt.digits, got, tt.want)
		}
	}

	if got := RoundSignificant(math.Inf(1), 12); !math.IsInf(got, 1) {
		t.Errorf("RoundSignificant(+Inf) = %v, want +Inf", got)
	}
}

func TestHalfway(t *testing.T) {
	tests := []struct {
		in     float64
		digits int
		want   bool
	}{
		{2.5, 1, true},
		{2.5, 2, false},
		{0.125, 2, true},
		{123456789012.5, 12, true},
		{123456789012.25, 12, false},
		// 0.15 is stored a little below the tie
		{0.15, 1, false},
	}

	for _, tt := range tests {
		if got := halfway(tt.in, tt.digits); got != tt.want {
			t.Errorf("halfway(%v, %d) = %v, want %v", tt.in, tt.digits, got, tt.want)
		}
	}
}

func TestTrimFraction(t *testing.T) {
	tests := map[string]string{
		"100":    "100",
		"1.500":  "1.5",
		"2.000":  "2",
		"0.0300": "0.03",
		"-4.0":   "-4",
	}
	for in, want := range tests {
		if got := trimFraction(in); got != want {
			t.Errorf("trimFraction(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCountDigits(t *testing.T) {
	tests := map[string]int{
		"0":             1,
		"-12.5":         3,
		"0.":            1,
		"-123456789012": 12,
	}
	for in, want := range tests {
		if got := countDigits(in); got != want {
			t.Errorf("countDigits(%q) = %d, want %d", in, got, want)
		}
	}
}
