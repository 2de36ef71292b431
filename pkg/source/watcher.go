package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"zdenci/exporter/pkg/zdenci"
)

// RowSink receives reloaded records.
type RowSink interface {
	SetRows(rows []zdenci.Record)
}

// Watcher reloads a records file into a RowSink whenever it changes.
// Bursts of events are collapsed into one reload after a quiet period.
type Watcher struct {
	path     string
	sink     RowSink
	interval time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	reloads int
}

// NewWatcher creates a watcher for path. A zero interval selects 200ms.
func NewWatcher(path string, sink RowSink, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	return &Watcher{
		path:     abs,
		sink:     sink,
		interval: interval,
		logger:   logger.With("component", "source.watcher"),
		watcher:  fw,
	}, nil
}

// Watch blocks until ctx is cancelled, reloading the file on change. The
// parent directory is watched so that atomic replacements (write to a
// temporary file, then rename) are seen.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer w.watcher.Close()
	defer w.stopTimer()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(w.path), err)
	}

	w.logger.Info("watching records file",
		"path", w.path,
		"debounce_ms", w.interval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("records watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("records file event", "op", event.Op.String())
			w.trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("records watcher error", "error", err)
		}
	}
}

// Reload loads the file into the sink immediately.
func (w *Watcher) Reload() error {
	records, err := LoadFile(w.path)
	if err != nil {
		return err
	}
	w.sink.SetRows(records)

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	w.logger.Info("records reloaded", "path", w.path, "count", len(records))
	return nil
}

// Reloads returns how many reloads succeeded.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.interval, func() {
		if err := w.Reload(); err != nil {
			w.logger.Error("records reload failed", "error", err)
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
