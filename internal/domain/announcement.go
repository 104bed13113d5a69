package domain

import "time"

// Announcement delivery statuses.
const (
	AnnouncementSent   = "sent"
	AnnouncementFailed = "failed"
)

// Announcement is one broadcast attempt to the app's push topic.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required,max=200"`
	Body      string    `json:"body" validate:"required,max=2000"`
	Topic     string    `json:"topic"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Delivered reports whether the push provider accepted the announcement.
func (a *Announcement) Delivered() bool {
	return a.Status == AnnouncementSent
}
