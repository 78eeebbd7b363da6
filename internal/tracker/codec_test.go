package tracker

import (
	"encoding/json"
	"testing"

	"expensetracker/internal/core"
)

func TestRawAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`12.5`, "12.5"},
		{`"7,25"`, "7.25"},
		{`" 3 "`, "3"},
		{`"abc"`, "0"},
		{`null`, "0"},
		{`true`, "0"},
		{``, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := rawAmount(json.RawMessage(tt.raw))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("rawAmount(%s) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeUser(t *testing.T) {
	u, err := decodeUser("null")
	if err != nil || u != nil {
		t.Fatalf("expected nil user, got %v %v", u, err)
	}
	u, err = decodeUser(`{"email":"","name":""}`)
	if err != nil || u != nil {
		t.Fatalf("expected empty user treated as absent, got %v %v", u, err)
	}
	u, err = decodeUser(`{"email":"a@b.c","name":"A"}`)
	if err != nil || u == nil || u.Email != "a@b.c" {
		t.Fatalf("unexpected user %v %v", u, err)
	}
	if _, err := decodeUser(`{`); err == nil {
		t.Fatalf("expected error for malformed user")
	}
}

func TestDecodeBudgetsRejectsNull(t *testing.T) {
	if _, err := decodeBudgets("null"); err == nil {
		t.Fatalf("expected error for null budgets")
	}
	if _, err := decodeBudgets("[1,2]"); err == nil {
		t.Fatalf("expected error for array budgets")
	}
}

func TestEncodeBudgetsKeepsUnknownCategories(t *testing.T) {
	b := core.NewBudgetSet()
	b[core.Food] = dec("800.5")
	b["vacation"] = dec("20")
	raw, err := encodeBudgets(b)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeBudgets(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(b) {
		t.Fatalf("budgets changed: %v vs %v", got, b)
	}
}

func TestDecodeTotal(t *testing.T) {
	d, err := decodeTotal("2000")
	if err != nil || !d.Equal(dec("2000")) {
		t.Fatalf("unexpected total %s %v", d, err)
	}
	if _, err := decodeTotal("NaN"); err == nil {
		t.Fatalf("expected error for NaN total")
	}
}
