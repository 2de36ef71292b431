package history

import (
	"context"
	"log/slog"
	"time"
)

// Pruner deletes entries older than a retention window. It is run by the
// snapshot scheduler as a cron job.
type Pruner struct {
	storage Storage
	days    int
	now     func() time.Time
	logger  *slog.Logger
}

// NewPruner creates a pruner keeping days of history. Zero keeps
// everything.
func NewPruner(storage Storage, days int) *Pruner {
	return &Pruner{
		storage: storage,
		days:    days,
		now:     time.Now,
		logger:  slog.Default().With("component", "history.retention"),
	}
}

// Name implements the scheduler's Job interface.
func (p *Pruner) Name() string { return "history-retention" }

// Run implements the scheduler's Job interface.
func (p *Pruner) Run(ctx context.Context) error {
	_, err := p.Prune(ctx)
	return err
}

// Prune deletes expired entries and returns how many were removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.days <= 0 {
		return 0, nil
	}
	cutoff := p.now().AddDate(0, 0, -p.days)
	n, err := p.storage.Prune(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	p.logger.Debug("history retention applied", "cutoff", cutoff, "deleted", n)
	return n, nil
}
