package http

import (
	"net/http"
	"strings"

	"seiva/internal/core"
)

type dashboardResponse struct {
	Summary      core.Summary       `json:"summary"`
	Transactions []core.Transaction `json:"transactions"`
	Students     []core.Student     `json:"students"`
	StoreError   bool               `json:"storeError"`
}

// handleDashboard aggregates the requested period. Summaries are cached
// briefly per period; any mutation purges the cache.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	period := core.Period(strings.TrimSpace(r.URL.Query().Get("period")))
	if period == "" {
		period = core.PeriodMonthly
	}
	if !period.Valid() {
		writeError(w, http.StatusBadRequest, "unknown period "+string(period))
		return
	}

	snap := s.data.Load(r.Context())
	if snap.StoreError {
		writeJSON(w, http.StatusOK, dashboardResponse{
			Summary:      core.Aggregate(nil, period, core.Today()),
			Transactions: []core.Transaction{},
			Students:     []core.Student{},
			StoreError:   true,
		})
		return
	}

	key := string(period)
	summary, ok := s.summaryCache.Get(key)
	if !ok {
		summary = core.Aggregate(snap.Transactions, period, core.Today())
		s.summaryCache.Set(key, summary)
	}

	transactions := snap.Transactions
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	students := snap.Students
	if students == nil {
		students = []core.Student{}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary:      summary,
		Transactions: transactions,
		Students:     students,
	})
}
