package store

import (
	"context"
	"log/slog"
	"time"
)

// StartRetentionWorker prunes announcements older than retention every
// interval until ctx is cancelled. A non-positive retention disables it.
func StartRetentionWorker(ctx context.Context, repo Repository, retention, interval time.Duration) {
	if retention <= 0 || interval <= 0 {
		slog.Info("Announcement retention disabled")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Retention worker started", "interval", interval, "retention", retention)

		for {
			select {
			case <-ticker.C:
				pruneOnce(ctx, repo, retention)
			case <-ctx.Done():
				slog.Info("Retention worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func pruneOnce(ctx context.Context, repo Repository, retention time.Duration) {
	removed, err := repo.PruneAnnouncements(ctx, retention)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("Retention worker failed to prune announcements", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("Pruned old announcements", "removed", removed)
	}
}
