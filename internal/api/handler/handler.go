// Package handler implements the dashboard HTTP endpoints.
package handler

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"gss-dashboard/internal/figures"
	"gss-dashboard/internal/model"
	"gss-dashboard/internal/options"
	"gss-dashboard/internal/session"
	"gss-dashboard/pkg/router"
)

// EventLister reads a session's recorded selector events. *store.Store
// implements it.
type EventLister interface {
	ListEvents(ctx context.Context, id string) ([]model.SessionEvent, error)
}

// Deps are the collaborators of a Handler. Events and Logger may be nil.
type Deps struct {
	Sessions *session.Manager
	Registry *options.Registry
	Figures  figures.Dashboard
	Stats    model.LoadStats
	Events   EventLister
	Logger   *zap.Logger
}

// Handler serves the dashboard page and its JSON API.
type Handler struct {
	sessions *session.Manager
	registry *options.Registry
	figures  figures.Dashboard
	stats    model.LoadStats
	events   EventLister
	logger   *zap.Logger
	page     *template.Template
	intro    template.HTML
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	intro, err := markdownToHTML(d.Figures.Introduction)
	if err != nil {
		logger.Warn("introduction shown as plain text", zap.Error(err))
		intro = template.HTML("<p>" + template.HTMLEscapeString(d.Figures.Introduction) + "</p>")
	}
	return &Handler{
		sessions: d.Sessions,
		registry: d.Registry,
		figures:  d.Figures,
		stats:    d.Stats,
		events:   d.Events,
		logger:   logger,
		page:     template.Must(template.New("page").Parse(pageTemplate)),
		intro:    intro,
	}
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

// sessionID extracts {id} from /api/v1/sessions/{id}[/...].
func sessionID(r *http.Request) string {
	return router.Segment(r, 3)
}
