package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a notification. Together with the user, the
// project and the calendar week it forms the idempotency key.
type NotificationType string

const (
	NotifyGoal      NotificationType = "goal"
	NotifyProgress  NotificationType = "progress"
	NotifyDeviation NotificationType = "deviation"
	NotifyInfo      NotificationType = "info"
	NotifyWarning   NotificationType = "warning"
)

// Notification is a message produced for a user by the deviation checks.
type Notification struct {
	ID        string           `json:"id"`
	UserID    int64            `json:"user_id"`
	ProjectID *int64           `json:"project_id,omitempty"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	WeekStart time.Time        `json:"week_start"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
}

// NewNotification assigns a fresh UUID to a notification created at now for
// the week starting at weekStart.
func NewNotification(userID int64, projectID *int64, typ NotificationType, message string, weekStart, now time.Time) (*Notification, error) {
	n := &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		Type:      typ,
		Message:   message,
		WeekStart: weekStart,
		CreatedAt: now,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks the notification's fields.
func (n *Notification) Validate() error {
	if _, err := uuid.Parse(n.ID); err != nil {
		return NewValidationError("notification id must be a UUID")
	}
	if n.UserID <= 0 {
		return NewValidationError("notification user is required")
	}
	if n.Type == "" {
		return NewValidationError("notification type is required")
	}
	if n.Message == "" {
		return NewValidationError("notification message is required")
	}
	return nil
}
