package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically purges job records older than the retention window.
// This also bounds records left permanently running by a process crash: there
// is no heartbeat or lease reconciliation, so age-based deletion is the only
// path that removes them.
type Sweeper struct {
	store    JobStore
	maxAge   time.Duration
	interval time.Duration
	log      *slog.Logger
}

func NewSweeper(store JobStore, maxAge, interval time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{store: store, maxAge: maxAge, interval: interval, log: log}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	deleted, err := s.store.CleanupOlderThan(ctx, s.maxAge)
	if err != nil {
		s.log.Warn("job cleanup sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		s.log.Info("job cleanup sweep finished", "deleted", deleted)
	}
}
