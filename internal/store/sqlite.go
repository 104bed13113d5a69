package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Brian-C69/calm-campus/internal/domain"
	"github.com/Brian-C69/calm-campus/internal/shared"
)

const (
	// MaxListLimit caps ListAnnouncements.
	MaxListLimit = 200

	writeAttempts  = 3
	writeBaseDelay = 100 * time.Millisecond
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL lets the list endpoint read while a broadcast is being recorded.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS announcements (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		topic TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_announcements_created ON announcements(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordAnnouncement inserts a broadcast attempt, retrying while the database
// is busy.
func (s *SQLiteStore) RecordAnnouncement(ctx context.Context, a *domain.Announcement) error {
	if a.ID == "" {
		return fmt.Errorf("record announcement: missing id")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO announcements (id, title, body, topic, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	var errText any
	if a.Error != "" {
		errText = a.Error
	}

	return shared.RetryOnConflict(ctx, "record announcement", writeAttempts, writeBaseDelay, func() error {
		_, err := s.db.ExecContext(ctx, query,
			a.ID, a.Title, a.Body, a.Topic, a.Status, errText, a.CreatedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert announcement: %w", err)
		}
		return nil
	})
}

// ListAnnouncements returns up to limit entries, newest first. limit is
// clamped to [1, MaxListLimit].
func (s *SQLiteStore) ListAnnouncements(ctx context.Context, limit int) ([]*domain.Announcement, error) {
	if limit <= 0 {
		limit = 1
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `
		SELECT id, title, body, topic, status, error, created_at
		FROM announcements
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query announcements: %w", err)
	}
	defer rows.Close()

	var out []*domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		var errText sql.NullString
		var createdAt int64
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Topic, &a.Status, &errText, &createdAt); err != nil {
			return nil, fmt.Errorf("scan announcement row: %w", err)
		}
		a.Error = errText.String
		a.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate announcements: %w", err)
	}
	return out, nil
}

// PruneAnnouncements removes entries older than retention.
func (s *SQLiteStore) PruneAnnouncements(ctx context.Context, retention time.Duration) (int64, error) {
	threshold := time.Now().Add(-retention).UnixMilli()
	var removed int64
	err := shared.RetryOnConflict(ctx, "prune announcements", writeAttempts, writeBaseDelay, func() error {
		result, err := s.db.ExecContext(ctx, `DELETE FROM announcements WHERE created_at < ?`, threshold)
		if err != nil {
			return fmt.Errorf("prune announcements: %w", err)
		}
		removed, err = result.RowsAffected()
		return err
	})
	return removed, err
}
