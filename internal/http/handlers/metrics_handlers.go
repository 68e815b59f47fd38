package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics
// @Description Aggregates recomputed on every read; nothing cached
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.Metrics
// @Failure 500 {object} ErrorResponse
// @Router /metrics/dashboard [get]
func (s *Server) GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := s.metrics.GetDashboardMetrics()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch metrics", "")
		return
	}
	_ = writeJSON(w, http.StatusOK, m)
}
