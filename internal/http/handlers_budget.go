package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

type budgetsView struct {
	Categories  map[core.Category]decimal.Decimal `json:"categories"`
	TotalBudget decimal.Decimal                   `json:"totalBudget"`
	// CategorySum is what the category budgets add up to. The total
	// budget is set on its own and may differ.
	CategorySum decimal.Decimal `json:"categorySum"`
}

func (s *Server) budgets() budgetsView {
	snap := s.tracker.Snapshot()
	return budgetsView{
		Categories:  snap.CategoryBudgets,
		TotalBudget: snap.TotalBudget,
		CategorySum: snap.CategoryBudgets.Sum(),
	}
}

func (s *Server) handleGetBudgets(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.budgets()).Write(w)
}

func (s *Server) handleSetCategoryBudget(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	category, err := core.ParseCategory(r.PathValue("category"))
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Budget for unknown category",
			log.FieldCategory, string(category))
	}
	coerced := s.tracker.SetCategoryBudget(r.Context(), category, p.Get("amount"))

	NewJSONResponse().Data(map[string]any{
		"category": category,
		"amount":   newCoercionView(coerced),
		"budgets":  s.budgets(),
	}).Write(w)
}

func (s *Server) handleSetTotalBudget(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	coerced := s.tracker.SetTotalBudget(r.Context(), p.Get("amount"))
	NewJSONResponse().Data(map[string]any{
		"amount":  newCoercionView(coerced),
		"budgets": s.budgets(),
	}).Write(w)
}
