// Package store records sessions and their selector events in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gss-dashboard/internal/model"
)

// DefaultDSN keeps everything in memory so nothing is written to disk.
const DefaultDSN = "file:gssdash?mode=memory&cache=shared"

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open connects to dsn and creates the tables if they do not exist.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// A shared in-memory database lives as long as one connection is open.
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(0)

	sessionTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		category TEXT,
		grp TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	eventTable := `
	CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		axis TEXT,
		value TEXT,
		accepted INTEGER,
		rendered INTEGER,
		created_at DATETIME
	);
	`
	for _, stmt := range []string{sessionTable, eventTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession stores a new session with an empty selection.
func (s *Store) SaveSession(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions (id, category, grp, created_at, updated_at) VALUES (?, NULL, NULL, ?, ?)`,
		id, now, now)
	return err
}

// UpdateSelection records the current selection of a session.
func (s *Store) UpdateSelection(ctx context.Context, id string, sel model.Selection) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET category = ?, grp = ?, updated_at = ? WHERE id = ?`,
		nullable(sel.Category), nullable(sel.Group), now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetSelection returns the stored selection of a session.
func (s *Store) GetSelection(ctx context.Context, id string) (model.Selection, error) {
	var category, group sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT category, grp FROM sessions WHERE id = ?`, id).Scan(&category, &group)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Selection{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Selection{}, err
	}
	return model.Selection{Category: fromNull(category), Group: fromNull(group)}, nil
}

// SaveEvent appends one selector event.
func (s *Store) SaveEvent(ctx context.Context, ev model.SessionEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO session_events (session_id, axis, value, accepted, rendered, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.SessionID, ev.Axis, nullable(ev.Value), ev.Accepted, ev.Rendered, ev.CreatedAt)
	return err
}

// ListEvents returns the events of a session, oldest first.
func (s *Store) ListEvents(ctx context.Context, id string) ([]model.SessionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, axis, value, accepted, rendered, created_at FROM session_events WHERE session_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.SessionEvent{}
	for rows.Next() {
		var ev model.SessionEvent
		var value sql.NullString
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Axis, &value, &ev.Accepted, &ev.Rendered, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Value = fromNull(value)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteSession removes a session and its events.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_events WHERE session_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CountSessions returns the number of stored sessions.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
