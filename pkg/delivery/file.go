package delivery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"zdenci/exporter/pkg/export"
)

// LockName is the lock file guarding name selection in a download directory.
const LockName = ".zdenci.lock"

const maxUniqueAttempts = 10000

// FileDeliverer saves payloads into a download directory. Data is written
// to a temporary file, synced and renamed into place; the temporary file is
// removed on every path. Unless Overwrite is set, an existing file is never
// replaced and a free name like "zdenci_filtered (1).csv" is chosen instead.
type FileDeliverer struct {
	Dir       string
	Overwrite bool

	// Perm is the mode of created files (defaults to 0644)
	Perm fs.FileMode

	// LockTimeout bounds the wait for the directory lock (defaults to 5s)
	LockTimeout time.Duration

	logger *slog.Logger
}

// NewFileDeliverer creates a deliverer for dir.
func NewFileDeliverer(dir string, overwrite bool, logger *slog.Logger) *FileDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileDeliverer{
		Dir:         dir,
		Overwrite:   overwrite,
		Perm:        0o644,
		LockTimeout: 5 * time.Second,
		logger:      logger.With("component", "delivery.file"),
	}
}

// Deliver implements export.Deliverer and returns the final file path.
func (d *FileDeliverer) Deliver(ctx context.Context, p *export.Payload) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := d.writeTemp(p)
	if tmp != "" {
		defer func() {
			if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				d.logger.Warn("failed to remove temporary file", "path", tmp, "error", rmErr)
			}
		}()
	}
	if err != nil {
		return "", err
	}

	unlock, err := d.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	target := filepath.Join(d.Dir, p.Filename)
	if !d.Overwrite {
		target, err = uniquePath(d.Dir, p.Filename)
		if err != nil {
			return "", err
		}
	}

	if err := os.Rename(tmp, target); err != nil {
		return "", fmt.Errorf("failed to move payload into place: %w", err)
	}

	d.logger.Debug("payload saved", "path", target, "bytes", p.Size())
	return target, nil
}

func (d *FileDeliverer) writeTemp(p *export.Payload) (string, error) {
	f, err := os.CreateTemp(d.Dir, ".zdenci-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	name := f.Name()

	if _, err := f.Write(p.Data); err != nil {
		f.Close()
		return name, fmt.Errorf("failed to write payload: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return name, fmt.Errorf("failed to sync payload: %w", err)
	}
	if err := f.Close(); err != nil {
		return name, fmt.Errorf("failed to close payload: %w", err)
	}

	perm := d.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.Chmod(name, perm); err != nil {
		return name, fmt.Errorf("failed to set payload permissions: %w", err)
	}
	return name, nil
}

func (d *FileDeliverer) lock(ctx context.Context) (func(), error) {
	timeout := d.LockTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(filepath.Join(d.Dir, LockName))
	locked, err := fl.TryLockContext(lockCtx, 20*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to lock download directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock download directory: timed out after %s", timeout)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			d.logger.Warn("failed to release directory lock", "error", err)
		}
	}, nil
}

// uniquePath returns dir/name, or the first "base (n).ext" variant that
// does not exist yet.
func uniquePath(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 0; i < maxUniqueAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		path := filepath.Join(dir, candidate)
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("failed to check %q: %w", path, err)
		}
	}
	return "", fmt.Errorf("no free file name for %q in %s", name, dir)
}
