package web

import (
	"net/http"

	"studio-orders/internal/core"
)

// getStats handles GET /api/stats?period=today|week|month|all.
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	period := core.StatsPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = core.PeriodAll
	}

	stats, err := h.svc.GetStats(r.Context(), period)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
