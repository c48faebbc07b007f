package calculator

import (
	"math"
	"strconv"
	"strings"
)

const (
	// SignificantDigits is the precision computed results are rounded to,
	// which hides binary floating point noise such as 0.1+0.2.
	SignificantDigits = 12

	// ResultOverflow is the magnitude above which a computed result is
	// stored in scientific notation.
	ResultOverflow = 1e12

	// DisplayMax and DisplayMin bound the magnitudes the display renders as
	// plain text.
	DisplayMax = 99999999
	DisplayMin = 0.000001

	// ExponentDigits is the number of mantissa decimals in scientific notation
	ExponentDigits = 6
)

// RoundSignificant rounds v to the given number of significant decimal
// digits. Exact ties round away from zero.
func RoundSignificant(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
		return v
	}
	if halfway(v, digits) {
		// one ulp further from zero is past the tie but nowhere near the
		// next rounding boundary
		v = math.Nextafter(v, math.Copysign(math.Inf(1), v))
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'e', digits-1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// exactDigits is enough precision to print any float64 exactly
const exactDigits = 767

// halfway reports whether the exact decimal value of v lies midway between
// two numbers of the given significant digits.
func halfway(v float64, digits int) bool {
	s := strconv.FormatFloat(math.Abs(v), 'e', exactDigits, 64)
	mantissa := strings.Replace(s[:strings.IndexByte(s, 'e')], ".", "", 1)
	if digits < 1 || digits >= len(mantissa) || mantissa[digits] != '5' {
		return false
	}
	return strings.Trim(mantissa[digits+1:], "0") == ""
}

// FormatResult turns a computed value into the Entry text stored after a
// computation: rounded to 12 significant digits, scientific above 1e12,
// otherwise a plain decimal without trailing fractional zeros.
func FormatResult(v float64) string {
	r := RoundSignificant(v, SignificantDigits)
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return formatNonFinite(r)
	case r == 0:
		// also folds -0 into "0"
		return "0"
	case math.Abs(r) > ResultOverflow:
		return formatExponential(r)
	}
	return trimFraction(strconv.FormatFloat(r, 'f', -1, 64))
}

// FormatDisplay renders an Entry for the display. Very large or very small
// non-zero values switch to scientific notation; anything else is shown as
// typed so an in-progress "12." keeps its point. Text that does not parse is
// returned unchanged.
func FormatDisplay(entry string) string {
	v, err := strconv.ParseFloat(entry, 64)
	if err != nil || math.IsNaN(v) {
		return entry
	}
	abs := math.Abs(v)
	if abs > DisplayMax || (v != 0 && abs < DisplayMin) {
		return formatExponential(v)
	}
	return entry
}

// formatExponential renders v with six mantissa decimals and an exponent
// without zero padding, e.g. 1.234568e+12 or 1.000000e-7.
func formatExponential(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return formatNonFinite(v)
	}
	s := strconv.FormatFloat(v, 'e', ExponentDigits, 64)
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mantissa, sign, exp := s[:i], s[i+1], s[i+2:]
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + string(sign) + exp
}

// formatNonFinite spells infinities the way strconv.ParseFloat reads them back.
func formatNonFinite(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return "NaN"
}

// trimFraction strips trailing zeros after a decimal point, then the point
// itself if nothing is left after it.
func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// countDigits counts the digit characters of an Entry, ignoring sign and point.
func countDigits(entry string) int {
	n := 0
	for i := 0; i < len(entry); i++ {
		if entry[i] >= '0' && entry[i] <= '9' {
			n++
		}
	}
	return n
}
