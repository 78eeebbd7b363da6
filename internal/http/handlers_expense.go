package http

import (
	"errors"
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := s.tracker.ExpensesByRecency()
	if c := r.URL.Query().Get("category"); c != "" {
		want, _ := core.ParseCategory(c)
		filtered := expenses[:0]
		for _, e := range expenses {
			if e.Category == want {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}
	NewJSONResponse().Data(map[string]any{
		"expenses": newExpenseViews(expenses),
		"count":    len(expenses),
	}).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	category, err := core.ParseCategory(p.Get("category"))
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Expense with unknown category",
			log.FieldCategory, string(category))
	}
	draft := core.Draft{
		Title:    p.Get("title"),
		Amount:   p.Get("amount"),
		Category: category,
	}

	e, coerced, err := s.tracker.AddExpense(r.Context(), draft)
	if err != nil {
		if errors.Is(err, core.ErrEmptyTitle) || errors.Is(err, core.ErrTitleLong) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Expense creation failed", log.FieldError, err)
		ErrorResponse(http.StatusInternalServerError, "failed to add expense").Write(w)
		return
	}

	NewJSONResponse().
		Status(http.StatusCreated).
		Data(map[string]any{
			"expense": newExpenseView(e),
			"amount":  newCoercionView(coerced),
		}).
		Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	var patch core.Patch
	if title := p.Optional("title"); title != nil && *title != "" {
		patch.Title = title
	}
	patch.Amount = p.Optional("amount")
	if raw := p.Optional("category"); raw != nil {
		c, _ := core.ParseCategory(*raw)
		patch.Category = &c
	}
	e, found, err := s.tracker.UpdateExpense(r.Context(), id, patch)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	if !found {
		NotFoundError("expense not found").Write(w)
		return
	}
	NewJSONResponse().Data(map[string]any{"expense": newExpenseView(e)}).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if s.tracker.DeleteExpense(r.Context(), id) == 0 {
		NotFoundError("expense not found").Write(w)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
