package catalog

import (
	"context"
	"log/slog"
	"time"
)

// reloader is satisfied by Repository
type reloader interface {
	Reload(ctx context.Context) (*Snapshot, error)
}

// Refresher reloads the catalog on a fixed interval
type Refresher struct {
	repo     reloader
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a refresher. A non-positive interval disables it.
func NewRefresher(repo reloader, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{repo: repo, interval: interval, logger: logger}
}

// Run reloads every interval until ctx is cancelled. Failed reloads are
// logged and the previous snapshot keeps serving.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("catalog refresher disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("catalog refresher started", "interval", r.interval.String())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("catalog refresher stopped")
			return
		case <-ticker.C:
			if _, err := r.repo.Reload(ctx); err != nil {
				r.logger.Warn("periodic catalog reload failed, keeping previous snapshot", "error", err)
			}
		}
	}
}
