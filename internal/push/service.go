package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Brian-C69/calm-campus/internal/domain"
	"github.com/Brian-C69/calm-campus/internal/metrics"
	"github.com/Brian-C69/calm-campus/internal/store"
)

// Service validates, sends and records announcements. A nil sender means the
// relay is disabled.
type Service struct {
	sender Sender
	repo   store.Repository
	topic  string
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a Service. sender may be nil; repo may be nil when no
// announcement log is kept.
func NewService(sender Sender, repo store.Repository, topic string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sender: sender,
		repo:   repo,
		topic:  topic,
		logger: logger.With("component", "push"),
		now:    time.Now,
	}
}

// Enabled reports whether announcements can be sent.
func (s *Service) Enabled() bool {
	return s.sender != nil
}

// Topic returns the destination topic.
func (s *Service) Topic() string {
	return s.topic
}

// Announce sends title/body to the topic and records the attempt. The
// returned announcement is non-nil whenever a send was attempted, even if it
// failed.
func (s *Service) Announce(ctx context.Context, title, body string) (*domain.Announcement, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	a := &domain.Announcement{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		Topic:     s.topic,
		CreatedAt: s.now(),
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAnnouncement, err)
	}

	sendErr := s.sender.Send(ctx, s.topic, title, body)
	if sendErr != nil {
		a.Status = domain.AnnouncementFailed
		a.Error = sendErr.Error()
		s.logger.Error("Announcement send failed", "id", a.ID, "topic", s.topic, "error", sendErr)
	} else {
		a.Status = domain.AnnouncementSent
		s.logger.Info("Announcement sent", "id", a.ID, "topic", s.topic)
	}
	metrics.ObserveAnnouncement(a.Status)

	if s.repo != nil {
		// Recording is best effort; the send already happened.
		if err := s.repo.RecordAnnouncement(context.WithoutCancel(ctx), a); err != nil {
			s.logger.Warn("Failed to record announcement", "id", a.ID, "error", err)
		}
	}

	return a, sendErr
}

// Recent lists recorded announcements, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Announcement, error) {
	if s.repo == nil {
		return nil, errors.New("announcement log not configured")
	}
	return s.repo.ListAnnouncements(ctx, limit)
}
