// Package store persists the announcement log.
package store

import (
	"context"
	"time"

	"github.com/Brian-C69/calm-campus/internal/domain"
)

// Repository records announcement broadcasts. Chat content is never stored.
type Repository interface {
	// RecordAnnouncement inserts one broadcast attempt.
	RecordAnnouncement(ctx context.Context, a *domain.Announcement) error

	// ListAnnouncements returns up to limit entries, newest first.
	ListAnnouncements(ctx context.Context, limit int) ([]*domain.Announcement, error)

	// PruneAnnouncements deletes entries older than retention and returns how
	// many were removed.
	PruneAnnouncements(ctx context.Context, retention time.Duration) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
