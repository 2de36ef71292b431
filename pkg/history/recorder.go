package history

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"zdenci/exporter/pkg/export"
)

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// AsyncBuffer is the size of the pending-write queue.
	// Default: 100
	AsyncBuffer int

	// WriteTimeout bounds a single storage write, and how long RecordExport
	// waits for queue space before dropping the entry.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		AsyncBuffer:  100,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes export results to a Storage in the background. It
// satisfies export.HistoryRecorder.
type Recorder struct {
	storage Storage
	config  *RecorderConfig
	entries chan *Entry
	wg      sync.WaitGroup
	done    chan struct{}
	logger  *slog.Logger

	// mu is held shared while enqueueing and exclusively by Close, so no
	// entry is enqueued after the worker has drained the queue.
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

var _ export.HistoryRecorder = (*Recorder)(nil)

// NewRecorder starts a recorder writing to storage.
func NewRecorder(storage Storage, config *RecorderConfig) *Recorder {
	defaults := DefaultRecorderConfig()
	if config == nil {
		config = defaults
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = defaults.AsyncBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}

	r := &Recorder{
		storage: storage,
		config:  config,
		entries: make(chan *Entry, config.AsyncBuffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "history.recorder"),
	}

	r.wg.Add(1)
	go r.worker()
	return r
}

// RecordExport enqueues the result. It never blocks longer than the write
// timeout.
func (r *Recorder) RecordExport(ctx context.Context, result *export.Result) {
	if result == nil {
		return
	}
	entry := EntryFromResult(result)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.dropped.Add(1)
		r.logger.Warn("history recorder closed, dropping entry", "export_id", entry.ID)
		return
	}

	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case r.entries <- entry:
	case <-timer.C:
		r.dropped.Add(1)
		r.logger.Warn("history queue full, dropping entry", "export_id", entry.ID)
	}
}

// Dropped returns how many entries were discarded because the queue was
// full or the recorder was closed.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close drains pending entries and stops the worker. The storage itself is
// not closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.done)
	}
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case entry := <-r.entries:
			r.write(entry)
		case <-r.done:
			for {
				select {
				case entry := <-r.entries:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, entry); err != nil {
		r.logger.Error("failed to store export history",
			"export_id", entry.ID,
			"error", err,
		)
		return
	}
	r.logger.Debug("export history stored", "export_id", entry.ID, "status", entry.Status)
}
