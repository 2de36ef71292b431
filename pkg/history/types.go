package history

import (
	"context"
	"strings"
	"time"

	"zdenci/exporter/pkg/export"
)

// Entry statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry is one recorded export invocation.
type Entry struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Format     string    `json:"format"`
	Status     string    `json:"status"`
	Rows       int       `json:"rows"`
	Bytes      int       `json:"bytes"`
	Filename   string    `json:"filename,omitempty"`
	Target     string    `json:"target,omitempty"`
	Query      string    `json:"query,omitempty"`
	States     string    `json:"states"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the export took.
func (e *Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// EntryFromResult converts an orchestrator result.
func EntryFromResult(r *export.Result) *Entry {
	states := make([]string, len(r.States))
	for i, s := range r.States {
		states[i] = string(s)
	}

	e := &Entry{
		ID:         r.ID,
		Mode:       string(r.Mode),
		Format:     string(r.Format),
		Status:     r.Status(),
		Rows:       r.Rows,
		Bytes:      r.Bytes,
		Filename:   r.Filename,
		Target:     r.Target,
		Query:      r.Query,
		States:     strings.Join(states, ">"),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	return e
}

// Query filters stored entries. Zero values match everything. Results are
// ordered newest first.
type Query struct {
	Status string
	Format string
	Mode   string
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

// Storage persists history entries.
type Storage interface {
	// Store persists an entry.
	Store(ctx context.Context, entry *Entry) error

	// Query returns entries matching q, newest first.
	Query(ctx context.Context, q *Query) ([]*Entry, error)

	// Count returns how many entries match q, ignoring Limit and Offset.
	Count(ctx context.Context, q *Query) (int64, error)

	// Prune deletes entries that started before the cutoff.
	Prune(ctx context.Context, before time.Time) (int64, error)

	// Ping checks that the store is usable.
	Ping(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
