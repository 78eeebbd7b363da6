// Package fixtures loads the demo data set into a tracker.
package fixtures

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// Seeder is the part of the tracker the sample loader drives.
type Seeder interface {
	ReplaceCategoryBudgets(ctx context.Context, b core.BudgetSet)
	SetTotalBudget(ctx context.Context, amount string) core.Coerced
	ImportIfEmpty(ctx context.Context, expenses []core.Expense) bool
}

// Result reports what Load changed.
type Result struct {
	ExpensesLoaded int
	TotalBudget    decimal.Decimal
}

type sample struct {
	title    string
	amount   string
	category core.Category
	day      int
}

var currentMonth = []sample{
	{"Grocery Shopping", "150.50", core.Food, 5},
	{"Restaurant Dinner", "85.00", core.Food, 8},
	{"Lunch with Colleagues", "25.00", core.Food, 12},
	{"Weekly Groceries", "200.00", core.Food, 15},
	{"Monthly Bus Pass", "60.00", core.Transport, 1},
	{"Taxi Ride", "35.00", core.Transport, 7},
	{"Car Fuel", "80.00", core.Transport, 10},
	{"Electricity Bill", "120.00", core.Utilities, 3},
	{"Water Bill", "45.00", core.Utilities, 3},
	{"Internet Bill", "65.00", core.Utilities, 5},
	{"Phone Bill", "50.00", core.Utilities, 8},
	{"Movie Night", "45.00", core.Entertainment, 2},
	{"Concert Tickets", "120.00", core.Entertainment, 9},
	{"Gaming Subscription", "15.00", core.Entertainment, 15},
	{"Clothing Purchase", "150.00", core.Other, 6},
	{"Gift for Friend", "50.00", core.Other, 11},
	{"Home Supplies", "95.00", core.Other, 14},
}

var previousMonth = []sample{
	{"Last Month Groceries", "300.00", core.Food, 15},
	{"Last Month Transport", "150.00", core.Transport, 20},
	{"Last Month Utilities", "250.00", core.Utilities, 10},
	{"Last Month Entertainment", "180.00", core.Entertainment, 5},
	{"Last Month Other", "200.00", core.Other, 25},
}

// Budgets returns the sample category budgets.
func Budgets() core.BudgetSet {
	return core.BudgetSet{
		core.Food:          decimal.NewFromInt(800),
		core.Transport:     decimal.NewFromInt(300),
		core.Utilities:     decimal.NewFromInt(500),
		core.Entertainment: decimal.NewFromInt(400),
		core.Other:         decimal.NewFromInt(600),
	}
}

// Expenses returns the sample expenses dated in the month of now and the
// month before it, midnight in now's location. Ids run from 1.
func Expenses(now time.Time) []core.Expense {
	y, m, _ := now.Date()
	loc := now.Location()

	out := make([]core.Expense, 0, len(currentMonth)+len(previousMonth))
	add := func(s sample, month time.Month) {
		out = append(out, core.Expense{
			ID:       int64(len(out) + 1),
			Title:    s.title,
			Amount:   decimal.RequireFromString(s.amount),
			Category: s.category,
			Date:     time.Date(y, month, s.day, 0, 0, 0, 0, loc),
		})
	}
	for _, s := range currentMonth {
		add(s, m)
	}
	for _, s := range previousMonth {
		add(s, m-1)
	}
	return out
}

// Load replaces the budget set with the sample budgets, imports the
// sample expenses when the tracker has none, and sets the total budget to
// the sum of the category budgets. Budgets for other keys are dropped.
func Load(ctx context.Context, s Seeder, now time.Time) Result {
	budgets := Budgets()
	s.ReplaceCategoryBudgets(ctx, budgets)

	var res Result
	expenses := Expenses(now)
	if s.ImportIfEmpty(ctx, expenses) {
		res.ExpensesLoaded = len(expenses)
	}

	res.TotalBudget = budgets.Sum()
	s.SetTotalBudget(ctx, res.TotalBudget.String())
	return res
}
