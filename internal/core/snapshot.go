package core

import "github.com/shopspring/decimal"

// Snapshot is the complete tracker state and the unit of persistence.
type Snapshot struct {
	CurrentUser     *User
	Expenses        []Expense
	CategoryBudgets BudgetSet
	TotalBudget     decimal.Decimal
}

// NewSnapshot returns the construction defaults: nobody logged in, no
// expenses, every category budget at zero and the default total budget.
func NewSnapshot() Snapshot {
	return Snapshot{
		Expenses:        []Expense{},
		CategoryBudgets: NewBudgetSet(),
		TotalBudget:     DefaultTotalBudget,
	}
}

// Clone returns a deep copy safe to hand out to readers.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Expenses:        append([]Expense(nil), s.Expenses...),
		CategoryBudgets: s.CategoryBudgets.Clone(),
		TotalBudget:     s.TotalBudget,
	}
	if out.Expenses == nil {
		out.Expenses = []Expense{}
	}
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	return out
}

// Equal compares two snapshots by value: instants for dates and numeric
// value for amounts.
func (s Snapshot) Equal(o Snapshot) bool {
	if (s.CurrentUser == nil) != (o.CurrentUser == nil) {
		return false
	}
	if s.CurrentUser != nil && *s.CurrentUser != *o.CurrentUser {
		return false
	}
	if !s.TotalBudget.Equal(o.TotalBudget) || !s.CategoryBudgets.Equal(o.CategoryBudgets) {
		return false
	}
	if len(s.Expenses) != len(o.Expenses) {
		return false
	}
	for i, e := range s.Expenses {
		x := o.Expenses[i]
		if e.ID != x.ID || e.Title != x.Title || e.Category != x.Category ||
			!e.Amount.Equal(x.Amount) || !e.Date.Equal(x.Date) {
			return false
		}
	}
	return true
}

// IsAuthenticated reports whether a non-empty user marker is present.
func (s Snapshot) IsAuthenticated() bool {
	return s.CurrentUser != nil && !s.CurrentUser.IsZero()
}
