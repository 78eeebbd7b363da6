package core

import (
	"strings"
	"testing"
	"time"
)

func TestDraftValidate(t *testing.T) {
	if err := (Draft{Title: "Lunch"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Draft{
		{Title: ""},
		{Title: "   "},
		{Title: strings.Repeat("x", 201)},
	}
	for i, d := range bads {
		if err := d.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNewExpenseCoercesAmount(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	e, c := NewExpense(7, Draft{Title: " Taxi ", Amount: "abc", Category: Transport}, at)
	if e.ID != 7 || e.Title != "Taxi" || !e.Amount.IsZero() || !e.Date.Equal(at) {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if !c.Invalid {
		t.Fatalf("expected invalid report, got %+v", c)
	}
}

func TestApplyPatch(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	e, _ := NewExpense(1, Draft{Title: "A", Amount: "10", Category: Food}, t1)

	amount := "20"
	got, c := e.Apply(Patch{Amount: &amount}, t2)
	if got.ID != 1 || got.Title != "A" || got.Category != Food {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if !got.Amount.Equal(dec("20")) || !got.Date.Equal(t2) || c.Adjusted() {
		t.Fatalf("unexpected patch result: %+v %+v", got, c)
	}

	blank := "  "
	cat := Category("vacation")
	got, _ = e.Apply(Patch{Title: &blank, Category: &cat}, t2)
	if got.Title != "A" || got.Category != "vacation" || !got.Amount.Equal(dec("10")) {
		t.Fatalf("unexpected patch result: %+v", got)
	}
	if !(Patch{}).Empty() || (Patch{Amount: &amount}).Empty() {
		t.Fatalf("Empty() misreports")
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Food ")
	if err != nil || c != Food {
		t.Fatalf("expected food, got %q %v", c, err)
	}
	c, err = ParseCategory("Vacation")
	if err != ErrUnknownCategory || c != "vacation" {
		t.Fatalf("expected unknown vacation, got %q %v", c, err)
	}
	if Entertainment.Label() != "Entertainment" {
		t.Fatalf("unexpected label %q", Entertainment.Label())
	}
}

func TestUserIsZero(t *testing.T) {
	if !(User{}).IsZero() || (User{Email: "a@b.c"}).IsZero() {
		t.Fatalf("IsZero misreports")
	}
}
