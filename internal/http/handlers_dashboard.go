package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

func buildTypedEntryPayloads(entries []core.TypedEntry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, te := range entries {
		payload := buildEntryPayload(te.Entry)
		payload["type"] = string(te.Type)
		out = append(out, payload)
	}
	return out
}

func buildWindowPayload(w core.WindowSummary) map[string]any {
	return map[string]any{
		"total":        w.Total.Euros(),
		"transactions": buildEntryPayloads(w.Transactions),
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())

	summary, err := s.dashboard.Summary(r.Context(), uid)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard summary failed",
			applog.FieldError, err.Error(),
			applog.FieldUserID, uid)
		writeError(w, http.StatusInternalServerError, "could not build dashboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalBalance":       summary.TotalBalance.Euros(),
		"totalIncome":        summary.TotalIncome.Euros(),
		"totalExpense":       summary.TotalExpense.Euros(),
		"last60DaysIncome":   buildWindowPayload(summary.Last60DaysIncome),
		"last30DaysExpense":  buildWindowPayload(summary.Last30DaysExpense),
		"recentTransactions": buildTypedEntryPayloads(summary.RecentTransactions),
	})
}
