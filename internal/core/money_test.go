package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.5", true},
		{"-5", "-5", true},
		{"0", "0", true},
		{"abc", "0", false},
		{"1.2.3", "0", false},
		{"1,000.50", "0", false},
		{"", "0", false},
		{"NaN", "0", false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if ok != tc.ok {
			t.Fatalf("%q expected ok=%v, got %v", tc.in, tc.ok, ok)
		}
		if !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
		}
	}
}

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		in      string
		out     string
		invalid bool
		clamped bool
	}{
		{"150.50", "150.5", false, false},
		{"-5", "0", false, true},
		{"abc", "0", true, false},
		{"", "0", true, false},
		{"0", "0", false, false},
	}
	for _, tc := range cases {
		got := CoerceAmount(tc.in)
		if !got.Value.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got.Value)
		}
		if got.Invalid != tc.invalid || got.Clamped != tc.clamped {
			t.Fatalf("%q unexpected report: %+v", tc.in, got)
		}
		if got.Adjusted() != (tc.invalid || tc.clamped) {
			t.Fatalf("%q Adjusted() = %v", tc.in, got.Adjusted())
		}
		if got.Input != tc.in {
			t.Fatalf("%q input not kept: %q", tc.in, got.Input)
		}
	}
}

func TestCoerceDecimal(t *testing.T) {
	if got := CoerceDecimal(decimal.NewFromInt(-3)); !got.Value.IsZero() || !got.Clamped {
		t.Fatalf("expected clamp to zero, got %+v", got)
	}
	if got := CoerceDecimal(decimal.NewFromInt(7)); !got.Value.Equal(decimal.NewFromInt(7)) || got.Adjusted() {
		t.Fatalf("expected 7 untouched, got %+v", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("150.5")); got != "150.50" {
		t.Fatalf("expected 150.50, got %s", got)
	}
}
