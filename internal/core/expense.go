package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// User is the identity marker of whoever is logged in.
	User struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	Expense struct {
		ID       int64
		Title    string
		Amount   decimal.Decimal
		Category Category
		Date     time.Time
	}

	// Draft is the user input for a new expense. Amount is raw text and
	// goes through CoerceAmount.
	Draft struct {
		Title    string
		Amount   string
		Category Category
	}

	// Patch carries the fields to overwrite on an existing expense. Nil
	// fields keep their current value.
	Patch struct {
		Title    *string
		Amount   *string
		Category *Category
	}
)

var (
	ErrEmptyTitle = errors.New("empty title")
	ErrTitleLong  = errors.New("title too long (max 200 characters)")
)

const maxTitleLen = 200

// IsZero reports whether the marker identifies nobody.
func (u User) IsZero() bool {
	return strings.TrimSpace(u.Email) == "" && strings.TrimSpace(u.Name) == ""
}

func (d Draft) Validate() error {
	return validateTitle(d.Title)
}

func (p Patch) Validate() error {
	if p.Title != nil {
		return validateTitle(*p.Title)
	}
	return nil
}

// Empty reports whether the patch changes nothing but the date.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil
}

func validateTitle(title string) error {
	if len(strings.TrimSpace(title)) == 0 {
		return ErrEmptyTitle
	}
	if len(title) > maxTitleLen {
		return ErrTitleLong
	}
	return nil
}

// NewExpense builds an expense from a draft. The amount report is
// returned so callers can tell when input was adjusted.
func NewExpense(id int64, d Draft, at time.Time) (Expense, Coerced) {
	c := CoerceAmount(d.Amount)
	return Expense{
		ID:       id,
		Title:    strings.TrimSpace(d.Title),
		Amount:   c.Value,
		Category: d.Category,
		Date:     at,
	}, c
}

// Apply merges p over e and moves the expense to at. The id never
// changes. A blank title in the patch keeps the current title; the
// amount is re-coerced whether or not the patch carries one.
func (e Expense) Apply(p Patch, at time.Time) (Expense, Coerced) {
	out := e
	if p.Title != nil && strings.TrimSpace(*p.Title) != "" {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	var c Coerced
	if p.Amount != nil {
		c = CoerceAmount(*p.Amount)
	} else {
		c = CoerceDecimal(e.Amount)
	}
	out.Amount = c.Value
	out.Date = at
	return out, c
}
