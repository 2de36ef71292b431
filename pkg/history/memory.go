package history

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MemoryStorage implements Storage in memory.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	closed  bool
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]*Entry)}
}

// Store implements Storage.
func (s *MemoryStorage) Store(ctx context.Context, entry *Entry) error {
	if entry == nil || entry.ID == "" {
		return NewStorageError("memory", "store", errors.New("entry must have an id"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStorageError("memory", "store", errors.New("storage closed"))
	}
	cp := *entry
	s.entries[entry.ID] = &cp
	return nil
}

// Query implements Storage.
func (s *MemoryStorage) Query(ctx context.Context, q *Query) ([]*Entry, error) {
	matched := s.matching(q)
	if q == nil {
		return matched, nil
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return []*Entry{}, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count implements Storage.
func (s *MemoryStorage) Count(ctx context.Context, q *Query) (int64, error) {
	return int64(len(s.matching(q))), nil
}

// Prune implements Storage.
func (s *MemoryStorage) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, e := range s.entries {
		if e.StartedAt.Before(before) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

// Ping implements Storage.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return NewStorageError("memory", "ping", errors.New("storage closed"))
	}
	return nil
}

// Close implements Storage.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Size returns the number of stored entries.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStorage) matching(q *Query) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if matches(e, q) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

func matches(e *Entry, q *Query) bool {
	if q == nil {
		return true
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if q.Format != "" && e.Format != q.Format {
		return false
	}
	if q.Mode != "" && e.Mode != q.Mode {
		return false
	}
	if q.Since != nil && e.StartedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && e.StartedAt.After(*q.Until) {
		return false
	}
	return true
}
