// Package core provides money parsing and handling utilities.
//
// Amounts are kept as decimals. Every amount written into the tracker
// goes through the coercion policy here: input that is not a number
// becomes zero and negative numbers are clamped to zero. Nothing is
// ever rejected.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coerced reports how a raw numeric input was turned into a stored value.
type Coerced struct {
	Input   string
	Value   decimal.Decimal
	Invalid bool // input was not a number; Value is zero
	Clamped bool // input was negative; Value is zero
}

// Adjusted reports whether the stored value differs from what was typed.
func (c Coerced) Adjusted() bool {
	return c.Invalid || c.Clamped
}

// ParseAmount converts a decimal string to a decimal value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// surrounding whitespace. Returns false for anything that is not a
// finite number.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, true
//	ParseAmount("12,34") -> 12.34, true
//	ParseAmount("abc")   -> 0, false
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	// Normalize decimal comma to dot, but only when it is the sole separator
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CoerceAmount applies the non-negative coercion policy to s.
func CoerceAmount(s string) Coerced {
	c := Coerced{Input: s}
	d, ok := ParseAmount(s)
	switch {
	case !ok:
		c.Value = decimal.Zero
		c.Invalid = true
	case d.IsNegative():
		c.Value = decimal.Zero
		c.Clamped = true
	default:
		c.Value = d
	}
	return c
}

// CoerceDecimal applies the same policy to an already numeric value.
func CoerceDecimal(d decimal.Decimal) Coerced {
	c := Coerced{Input: d.String(), Value: d}
	if d.IsNegative() {
		c.Value = decimal.Zero
		c.Clamped = true
	}
	return c
}

// FormatAmount renders an amount with two decimals for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
