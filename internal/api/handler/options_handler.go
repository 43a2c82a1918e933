package handler

import (
	"net/http"

	"gss-dashboard/internal/model"
)

// OptionsResponse lists the selectable values of both axes.
type OptionsResponse struct {
	Category []model.Option `json:"category"`
	Group    []model.Option `json:"group"`
}

// GetOptions returns the selector options
// @Summary List selector options
// @Description Get the (label, value) options of the category and group selectors
// @Tags options
// @Produce json
// @Success 200 {object} OptionsResponse
// @Router /options [get]
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, OptionsResponse{
		Category: h.registry.OptionsFor(model.AxisCategory),
		Group:    h.registry.OptionsFor(model.AxisGroup),
	})
}

// HealthResponse reports liveness and dataset size.
type HealthResponse struct {
	Status   string `json:"status"`
	Rows     int    `json:"rows"`
	Skipped  int    `json:"skipped"`
	Sessions int    `json:"sessions"`
}

// Health reports service status. It is served at /healthz, outside the
// documented /api/v1 base path.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Rows:     h.stats.RowsRead,
		Skipped:  h.stats.RowsSkipped,
		Sessions: h.sessions.Len(),
	})
}
