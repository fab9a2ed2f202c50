package money

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	unsignedJunk = regexp.MustCompile(`[^0-9.]`)
	signedJunk   = regexp.MustCompile(`[^0-9.\-]`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// ParseCents parses a user-entered currency string ("$1,234.50", "12")
// into cents. Anything that is not a digit or a dot is dropped, so the
// result is never negative. Unparseable input yields 0.
func ParseCents(s string) int64 {
	clean := unsignedJunk.ReplaceAllString(s, "")
	if clean == "" {
		return 0
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}

	cents := d.Mul(hundred).Round(0).IntPart()
	if cents < 0 {
		return 0
	}

	return cents
}

// ParseSignedCents is like ParseCents but keeps a leading minus sign and
// reports invalid input instead of swallowing it.
func ParseSignedCents(s string) (int64, error) {
	clean := signedJunk.ReplaceAllString(s, "")
	if clean == "" {
		return 0, fmt.Errorf("parsing amount %q: empty", s)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d.Mul(hundred).Round(0).IntPart(), nil
}

// ParseQuantity keeps only the digits of s. Returns 0 when none remain.
func ParseQuantity(s string) int {
	clean := nonDigits.ReplaceAllString(s, "")
	if clean == "" {
		return 0
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}

	return int(d.IntPart())
}

// FromFloat converts a dollar amount to cents, rounding half away from zero.
func FromFloat(dollars float64) int64 {
	return decimal.NewFromFloat(dollars).Mul(hundred).Round(0).IntPart()
}

// ToFloat converts cents to dollars.
func ToFloat(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(hundred).Float64()
	return f
}

// Format renders cents as a plain two-decimal amount, e.g. "-12.05".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FormatDollars is Format with a currency sign placed after the minus.
func FormatDollars(cents int64) string {
	s := Format(cents)
	if after, ok := strings.CutPrefix(s, "-"); ok {
		return "-$" + after
	}

	return "$" + s
}

// Div divides a by b and rounds to the nearest integer.
// It reports false instead of dividing by zero or by a non-finite b.
func Div(a int64, b float64) (int64, bool) {
	if b == 0 || !finite(b) {
		return 0, false
	}

	return decimal.NewFromInt(a).Div(decimal.NewFromFloat(b)).Round(0).IntPart(), true
}

// Mul multiplies cents by a fractional quantity and rounds to the nearest
// cent. It reports false for a non-finite qty.
func Mul(cents int64, qty float64) (int64, bool) {
	if !finite(qty) {
		return 0, false
	}

	return decimal.NewFromInt(cents).Mul(decimal.NewFromFloat(qty)).Round(0).IntPart(), true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
