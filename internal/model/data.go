package model

import "time"

// AggregateRow is the count of records for one observed (group, category) pair.
type AggregateRow struct {
	Group    string `json:"group"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// LoadStats describes a dataset load.
type LoadStats struct {
	Source      string        `json:"source"`
	RowsRead    int           `json:"rows_read"`
	RowsSkipped int           `json:"rows_skipped"`
	Columns     []string      `json:"columns"`
	Duration    time.Duration `json:"duration"`
	LoadedAt    time.Time     `json:"loaded_at"`
}

// SessionEvent is one selector change as seen by a session.
type SessionEvent struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Axis      string    `json:"axis"`
	Value     *string   `json:"value"`
	Accepted  bool      `json:"accepted"`
	Rendered  bool      `json:"rendered"`
	CreatedAt time.Time `json:"created_at"`
}

// Outcome reports what an inbound selector event did.
type Outcome struct {
	Accepted  bool      `json:"accepted"`
	Rendered  bool      `json:"rendered"`
	Reason    string    `json:"reason,omitempty"` // set when Accepted is false or nothing rendered
	Selection Selection `json:"selection"`
}
