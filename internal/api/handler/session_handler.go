package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"gss-dashboard/internal/controller"
	"gss-dashboard/internal/model"
	"gss-dashboard/internal/render"
	"gss-dashboard/internal/session"
)

// CreateSessionResponse carries a new session ID.
type CreateSessionResponse struct {
	ID string `json:"id"`
}

// ChangeRequest is a selector event. A null or empty value clears the axis.
type ChangeRequest struct {
	Value *string `json:"value"`
}

// CreateSession starts a dashboard session
// @Summary Create session
// @Description Start a session with both selectors unset
// @Tags sessions
// @Produce json
// @Success 201 {object} CreateSessionResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	h.writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: s.ID})
}

// GetSession returns a session's selection and displayed chart
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Snapshot
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

// DeleteSession ends a session
// @Summary Delete session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), sessionID(r)); err != nil {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeCategory applies a category selector event
// @Summary Change category
// @Description Set or clear the category selector. Rejected values still return 200 with accepted=false.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param change body ChangeRequest true "New value, null to clear"
// @Success 200 {object} model.Outcome
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/category [put]
func (h *Handler) ChangeCategory(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, model.AxisCategory)
}

// ChangeGroup applies a group selector event
// @Summary Change group
// @Description Set or clear the group selector. Rejected values still return 200 with accepted=false.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param change body ChangeRequest true "New value, null to clear"
// @Success 200 {object} model.Outcome
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/group [put]
func (h *Handler) ChangeGroup(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, model.AxisGroup)
}

func (h *Handler) change(w http.ResponseWriter, r *http.Request, axis model.Axis) {
	var req ChangeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	out, err := h.sessions.Change(r.Context(), sessionID(r), axis, req.Value)
	if errors.Is(err, session.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to apply change", zap.Stringer("axis", axis), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to apply change")
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GetChart returns the displayed chart spec
// @Summary Get chart
// @Description The last emitted chart. 204 until both selectors have been set.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.ChartSpec
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/chart [get]
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	spec, ok := s.Chart()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, spec)
}

// GetChartSVG renders the displayed chart as SVG
// @Summary Chart as SVG
// @Description Renders an empty placeholder chart until both selectors have been set.
// @Tags sessions
// @Produce image/svg+xml
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/chart.svg [get]
func (h *Handler) GetChartSVG(w http.ResponseWriter, r *http.Request) {
	h.chartImage(w, r, render.FormatSVG)
}

// GetChartPNG renders the displayed chart as PNG
// @Summary Chart as PNG
// @Tags sessions
// @Produce image/png
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/chart.png [get]
func (h *Handler) GetChartPNG(w http.ResponseWriter, r *http.Request) {
	h.chartImage(w, r, render.FormatPNG)
}

func (h *Handler) chartImage(w http.ResponseWriter, r *http.Request, format render.Format) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	spec, ok := s.Chart()
	if !ok {
		spec = controller.BuildChart(nil, controller.DefaultMeta)
	}
	h.writeImage(w, spec, format)
}

// GetEvents lists a session's selector events
// @Summary Session events
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} model.SessionEvent
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions/{id}/events [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	events := []model.SessionEvent{}
	if h.events != nil {
		listed, err := h.events.ListEvents(r.Context(), s.ID)
		if err != nil {
			h.logger.Error("failed to list events", zap.String("session", s.ID), zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "Failed to fetch events")
			return
		}
		if listed != nil {
			events = listed
		}
	}
	h.writeJSON(w, http.StatusOK, events)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(sessionID(r))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return s, true
}
