package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// CategoryTotals maps every recognized category to a sum.
type CategoryTotals map[Category]decimal.Decimal

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Key        string // YYYY-MM
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}

// Summary backs the dashboard header.
type Summary struct {
	TotalBudget   decimal.Decimal
	TotalExpenses decimal.Decimal
	Remaining     decimal.Decimal
}

// BudgetStatus classifies spending against a category budget.
type BudgetStatus string

const (
	StatusGood       BudgetStatus = "good"
	StatusWarning    BudgetStatus = "warning"
	StatusOverBudget BudgetStatus = "over-budget"
)

var (
	warningPercent = decimal.NewFromInt(80)
	limitPercent   = decimal.NewFromInt(100)
	hundred        = decimal.NewFromInt(100)
)

// BudgetUsage is the spent/budget view of one category.
type BudgetUsage struct {
	Category Category
	Budget   decimal.Decimal
	Spent    decimal.Decimal
	Percent  decimal.Decimal
	Status   BudgetStatus
}

// Trend aligns per-category series to chronologically sorted months.
type Trend struct {
	Months []string
	Series map[Category][]decimal.Decimal
}

// NewCategoryTotals returns totals with every recognized category at zero.
func NewCategoryTotals() CategoryTotals {
	t := make(CategoryTotals, len(Categories))
	for _, c := range Categories {
		t[c] = decimal.Zero
	}
	return t
}

// Sum adds all category totals.
func (t CategoryTotals) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, c := range Categories {
		total = total.Add(t[c])
	}
	return total
}

// Ordered lists the totals in display order.
func (t CategoryTotals) Ordered() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, CategoryAmount{Category: c, Amount: t[c]})
	}
	return out
}

// SumByCategory sums amounts per recognized category. Expenses with an
// unknown category contribute nothing.
func SumByCategory(expenses []Expense) CategoryTotals {
	totals := NewCategoryTotals()
	for _, e := range expenses {
		if !e.Category.IsKnown() {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// MonthKey returns the YYYY-MM bucket of t in t's own location.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// SumByMonth buckets expenses by the calendar month of their date and
// sums per category within each bucket. Map order is unspecified; use
// SortedMonths for chronological keys.
func SumByMonth(expenses []Expense) map[string]CategoryTotals {
	months := make(map[string]CategoryTotals)
	for _, e := range expenses {
		key := MonthKey(e.Date)
		bucket, ok := months[key]
		if !ok {
			bucket = NewCategoryTotals()
			months[key] = bucket
		}
		if e.Category.IsKnown() {
			bucket[e.Category] = bucket[e.Category].Add(e.Amount)
		}
	}
	return months
}

// GrandTotal sums every expense regardless of category.
func GrandTotal(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// SortedMonths returns the month keys in chronological order. YYYY-MM
// sorts lexicographically in time order.
func SortedMonths(months map[string]CategoryTotals) []string {
	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Overviews flattens monthly totals into chronological overviews.
func Overviews(months map[string]CategoryTotals) []MonthOverview {
	keys := SortedMonths(months)
	out := make([]MonthOverview, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthOverview{
			Key:        k,
			Total:      months[k].Sum(),
			ByCategory: months[k].Ordered(),
		})
	}
	return out
}

// BuildTrend produces one series per recognized category aligned to the
// sorted months.
func BuildTrend(months map[string]CategoryTotals) Trend {
	keys := SortedMonths(months)
	tr := Trend{
		Months: keys,
		Series: make(map[Category][]decimal.Decimal, len(Categories)),
	}
	for _, c := range Categories {
		series := make([]decimal.Decimal, len(keys))
		for i, k := range keys {
			series[i] = months[k][c]
		}
		tr.Series[c] = series
	}
	return tr
}

// Usage compares spending with budgets for every recognized category.
// Percent is zero when the budget is zero.
func Usage(budgets BudgetSet, totals CategoryTotals) []BudgetUsage {
	out := make([]BudgetUsage, 0, len(Categories))
	for _, c := range Categories {
		u := BudgetUsage{
			Category: c,
			Budget:   budgets.Get(c),
			Spent:    totals[c],
			Percent:  decimal.Zero,
		}
		if u.Budget.IsPositive() {
			u.Percent = u.Spent.Div(u.Budget).Mul(hundred)
		}
		u.Status = statusFor(u.Percent)
		out = append(out, u)
	}
	return out
}

func statusFor(percent decimal.Decimal) BudgetStatus {
	switch {
	case percent.GreaterThan(limitPercent):
		return StatusOverBudget
	case percent.GreaterThan(warningPercent):
		return StatusWarning
	default:
		return StatusGood
	}
}

// Summarize computes the dashboard header. Remaining may be negative.
func Summarize(totalBudget decimal.Decimal, expenses []Expense) Summary {
	spent := GrandTotal(expenses)
	return Summary{
		TotalBudget:   totalBudget,
		TotalExpenses: spent,
		Remaining:     totalBudget.Sub(spent),
	}
}

// ByRecency returns a copy of expenses sorted most recent first. Equal
// dates keep insertion order.
func ByRecency(expenses []Expense) []Expense {
	out := append([]Expense(nil), expenses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
