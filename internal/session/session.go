// Package session gives every dashboard visitor an independent selection
// controller over the shared, read-only dataset.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gss-dashboard/internal/controller"
	"gss-dashboard/internal/dataset"
	"gss-dashboard/internal/model"
	"gss-dashboard/internal/options"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Recorder persists session activity. *store.Store implements it.
type Recorder interface {
	SaveSession(ctx context.Context, id string) error
	UpdateSelection(ctx context.Context, id string, sel model.Selection) error
	SaveEvent(ctx context.Context, ev model.SessionEvent) error
	DeleteSession(ctx context.Context, id string) error
}

// Session is one visitor's controller. Events are applied one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	ctrl     *controller.Controller
	lastSeen time.Time
	renders  int
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID        string           `json:"id"`
	Selection model.Selection  `json:"selection"`
	Chart     *model.ChartSpec `json:"chart"`
	Renders   int              `json:"renders"`
	CreatedAt time.Time        `json:"created_at"`
	LastSeen  time.Time        `json:"last_seen"`
}

// Snapshot returns the current selection and displayed chart.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:        s.ID,
		Selection: s.ctrl.Selection(),
		Renders:   s.renders,
		CreatedAt: s.CreatedAt,
		LastSeen:  s.lastSeen,
	}
	if spec, ok := s.ctrl.Last(); ok {
		snap.Chart = &spec
	}
	return snap
}

// Chart returns the displayed chart, if any.
func (s *Session) Chart() (model.ChartSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Last()
}

// Manager owns all live sessions.
type Manager struct {
	data     *dataset.Dataset
	registry *options.Registry
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty manager. recorder and logger may be nil.
func NewManager(data *dataset.Dataset, registry *options.Registry, recorder Recorder, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		data:     data,
		registry: registry,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with both axes unset.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	now := m.now().UTC()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		lastSeen:  now,
	}
	s.ctrl = controller.New(m.data, m.registry, controller.RendererFunc(func(spec model.ChartSpec) {
		s.renders++
		m.logger.Debug("chart rendered",
			zap.String("session", s.ID),
			zap.Int("series", len(spec.Series)),
			zap.Int("categories", len(spec.Categories)))
	}), m.logger.With(zap.String("session", s.ID)))

	if m.recorder != nil {
		if err := m.recorder.SaveSession(ctx, s.ID); err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session", s.ID))
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.forget(ctx, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Change applies one selector event to session id. value nil clears the axis.
func (m *Manager) Change(ctx context.Context, id string, axis model.Axis, value *string) (model.Outcome, error) {
	s, err := m.Get(id)
	if err != nil {
		return model.Outcome{}, err
	}

	s.mu.Lock()
	var out model.Outcome
	switch axis {
	case model.AxisCategory:
		out = s.ctrl.OnCategoryChanged(value)
	case model.AxisGroup:
		out = s.ctrl.OnGroupChanged(value)
	default:
		s.mu.Unlock()
		return model.Outcome{}, fmt.Errorf("unknown axis %s", axis)
	}
	s.lastSeen = m.now().UTC()
	s.mu.Unlock()

	m.record(ctx, id, axis, value, out)
	return out, nil
}

func (m *Manager) record(ctx context.Context, id string, axis model.Axis, value *string, out model.Outcome) {
	if m.recorder == nil {
		return
	}
	ev := model.SessionEvent{
		SessionID: id,
		Axis:      axis.String(),
		Value:     value,
		Accepted:  out.Accepted,
		Rendered:  out.Rendered,
	}
	if err := m.recorder.SaveEvent(ctx, ev); err != nil {
		m.logger.Warn("failed to save session event", zap.String("session", id), zap.Error(err))
	}
	if !out.Accepted {
		return
	}
	if err := m.recorder.UpdateSelection(ctx, id, out.Selection); err != nil {
		m.logger.Warn("failed to save selection", zap.String("session", id), zap.Error(err))
	}
}

func (m *Manager) forget(ctx context.Context, id string) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.DeleteSession(ctx, id); err != nil {
		m.logger.Warn("failed to delete session", zap.String("session", id), zap.Error(err))
	}
}

// Sweep removes sessions idle for longer than ttl and returns how many.
func (m *Manager) Sweep(ctx context.Context, ttl time.Duration) int {
	cutoff := m.now().UTC().Add(-ttl)
	var expired []string

	m.mu.Lock()
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.forget(ctx, id)
	}
	if len(expired) > 0 {
		m.logger.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx, ttl)
		}
	}
}
