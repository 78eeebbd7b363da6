package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// expenseRecord is the stored form of an expense. Amount stays raw so a
// stored value that is not a number reads back as zero instead of
// failing the whole collection.
type expenseRecord struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

func encodeUser(u *core.User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return string(b), nil
}

func decodeUser(s string) (*core.User, error) {
	var u *core.User
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if u != nil && u.IsZero() {
		return nil, nil
	}
	return u, nil
}

func encodeExpenses(expenses []core.Expense) (string, error) {
	records := make([]expenseRecord, len(expenses))
	for i, e := range expenses {
		records[i] = expenseRecord{
			ID:       e.ID,
			Title:    e.Title,
			Amount:   json.RawMessage(e.Amount.String()),
			Category: string(e.Category),
			Date:     e.Date,
		}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode expenses: %w", err)
	}
	return string(b), nil
}

func decodeExpenses(s string) ([]core.Expense, error) {
	var records []expenseRecord
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	out := make([]core.Expense, len(records))
	for i, r := range records {
		out[i] = core.Expense{
			ID:       r.ID,
			Title:    r.Title,
			Amount:   rawAmount(r.Amount),
			Category: core.Category(r.Category),
			Date:     r.Date,
		}
	}
	return out, nil
}

func encodeBudgets(b core.BudgetSet) (string, error) {
	raw := make(map[string]json.RawMessage, len(b))
	for c, v := range b {
		raw[string(c)] = json.RawMessage(v.String())
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("encode budgets: %w", err)
	}
	return string(out), nil
}

func decodeBudgets(s string) (core.BudgetSet, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("decode budgets: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode budgets: not an object")
	}
	b := make(core.BudgetSet, len(raw))
	for c, v := range raw {
		b[core.Category(c)] = rawAmount(v)
	}
	return b, nil
}

func encodeTotal(d decimal.Decimal) string {
	return d.String()
}

func decodeTotal(s string) (decimal.Decimal, error) {
	d, ok := core.ParseAmount(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("decode total budget: %q is not a number", s)
	}
	return d, nil
}

// rawAmount reads a JSON number or numeric string; anything else is zero.
func rawAmount(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return decimal.Zero
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero
		}
	}
	d, ok := core.ParseAmount(strings.TrimSpace(text))
	if !ok {
		return decimal.Zero
	}
	return d
}
