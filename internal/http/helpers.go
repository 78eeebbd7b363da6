package http

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// sanitizeInput removes control characters except tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

type expenseView struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category core.Category   `json:"category"`
	Known    bool            `json:"knownCategory"`
	Date     time.Time       `json:"date"`
}

func newExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:       e.ID,
		Title:    e.Title,
		Amount:   e.Amount,
		Category: e.Category,
		Known:    e.Category.IsKnown(),
		Date:     e.Date,
	}
}

func newExpenseViews(es []core.Expense) []expenseView {
	out := make([]expenseView, len(es))
	for i, e := range es {
		out[i] = newExpenseView(e)
	}
	return out
}

type coercionView struct {
	Input   string          `json:"input"`
	Value   decimal.Decimal `json:"value"`
	Invalid bool            `json:"invalid"`
	Clamped bool            `json:"clamped"`
}

func newCoercionView(c core.Coerced) coercionView {
	return coercionView{Input: c.Input, Value: c.Value, Invalid: c.Invalid, Clamped: c.Clamped}
}

type categoryAmountView struct {
	Category core.Category   `json:"category"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
}

type usageView struct {
	Category core.Category     `json:"category"`
	Label    string            `json:"label"`
	Budget   decimal.Decimal   `json:"budget"`
	Spent    decimal.Decimal   `json:"spent"`
	Percent  decimal.Decimal   `json:"percent"`
	Status   core.BudgetStatus `json:"status"`
}

type dashboardView struct {
	TotalBudget   decimal.Decimal      `json:"totalBudget"`
	TotalExpenses decimal.Decimal      `json:"totalExpenses"`
	Remaining     decimal.Decimal      `json:"remaining"`
	ByCategory    []categoryAmountView `json:"byCategory"`
	Usage         []usageView          `json:"budgetUsage"`
	Revision      uint64               `json:"revision"`
}

type seriesView struct {
	Category core.Category     `json:"category"`
	Label    string            `json:"label"`
	Values   []decimal.Decimal `json:"values"`
}

type monthTotalView struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type trendView struct {
	Months   []string         `json:"months"`
	Series   []seriesView     `json:"series"`
	Totals   []monthTotalView `json:"totals"`
	Revision uint64           `json:"revision"`
}

func buildDashboard(sum core.Summary, totals core.CategoryTotals, usage []core.BudgetUsage, rev uint64) dashboardView {
	v := dashboardView{
		TotalBudget:   sum.TotalBudget,
		TotalExpenses: sum.TotalExpenses,
		Remaining:     sum.Remaining,
		ByCategory:    make([]categoryAmountView, 0, len(core.Categories)),
		Usage:         make([]usageView, 0, len(usage)),
		Revision:      rev,
	}
	for _, ca := range totals.Ordered() {
		v.ByCategory = append(v.ByCategory, categoryAmountView{
			Category: ca.Category, Label: ca.Category.Label(), Amount: ca.Amount,
		})
	}
	for _, u := range usage {
		v.Usage = append(v.Usage, usageView{
			Category: u.Category,
			Label:    u.Category.Label(),
			Budget:   u.Budget,
			Spent:    u.Spent,
			Percent:  u.Percent.Round(2),
			Status:   u.Status,
		})
	}
	return v
}

func buildTrend(t core.Trend, months []core.MonthOverview, rev uint64) trendView {
	v := trendView{
		Months:   append([]string{}, t.Months...),
		Series:   make([]seriesView, 0, len(core.Categories)),
		Totals:   make([]monthTotalView, 0, len(months)),
		Revision: rev,
	}
	for _, m := range months {
		v.Totals = append(v.Totals, monthTotalView{Month: m.Key, Total: m.Total})
	}
	for _, c := range core.Categories {
		values := t.Series[c]
		if values == nil {
			values = []decimal.Decimal{}
		}
		v.Series = append(v.Series, seriesView{Category: c, Label: c.Label(), Values: values})
	}
	return v
}
