package http

import (
	"net/http"

	"expensetracker/internal/cache"
	"expensetracker/internal/log"
)

// dashboard returns the summary view for the current revision. Views are
// computed after reading the revision, so a cached entry is never older
// than its key.
func (s *Server) dashboard(r *http.Request) dashboardView {
	rev := s.tracker.Revision()
	return s.dashboardCache.GetOrCompute(cache.Key("dashboard", rev), func() dashboardView {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard computed", log.FieldRevision, rev)
		return buildDashboard(s.tracker.Summary(), s.tracker.CategoryTotals(), s.tracker.BudgetUsage(), rev)
	})
}

func (s *Server) trend(r *http.Request) trendView {
	rev := s.tracker.Revision()
	return s.trendCache.GetOrCompute(cache.Key("trend", rev), func() trendView {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Trend computed", log.FieldRevision, rev)
		return buildTrend(s.tracker.Trend(), s.tracker.MonthlyOverviews(), rev)
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.dashboard(r)).Write(w)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(s.trend(r)).Write(w)
}
