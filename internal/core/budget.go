package core

import "github.com/shopspring/decimal"

// DefaultTotalBudget is the total budget of a fresh tracker.
var DefaultTotalBudget = decimal.NewFromInt(2000)

// BudgetSet maps each category to its spending ceiling. Keys outside the
// recognized set may be present; they never take part in aggregation.
type BudgetSet map[Category]decimal.Decimal

// NewBudgetSet returns a set with every recognized category at zero.
func NewBudgetSet() BudgetSet {
	b := make(BudgetSet, len(Categories))
	for _, c := range Categories {
		b[c] = decimal.Zero
	}
	return b
}

// Backfill adds any missing recognized category with a zero budget and
// returns how many were added.
func (b BudgetSet) Backfill() int {
	added := 0
	for _, c := range Categories {
		if _, ok := b[c]; !ok {
			b[c] = decimal.Zero
			added++
		}
	}
	return added
}

// Get returns the budget for c, zero when absent.
func (b BudgetSet) Get(c Category) decimal.Decimal {
	if v, ok := b[c]; ok {
		return v
	}
	return decimal.Zero
}

// Sum adds the budgets of the recognized categories.
func (b BudgetSet) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, c := range Categories {
		total = total.Add(b.Get(c))
	}
	return total
}

func (b BudgetSet) Clone() BudgetSet {
	out := make(BudgetSet, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func (b BudgetSet) Equal(o BudgetSet) bool {
	if len(b) != len(o) {
		return false
	}
	for k, v := range b {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
