package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification categories.
const (
	CategoryStatusChanged   = "event_status_changed"
	CategoryPendingReminder = "event_pending_reminder"
)

// Delivery statuses.
const (
	StatusQueued = "queued"
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// SentNotification is one delivery attempt recorded for audit.
type SentNotification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"event_id"`
	Category  string         `gorm:"not null" json:"category"`
	Subject   string         `gorm:"not null" json:"subject"`
	Body      string         `json:"body"`
	Status    string         `gorm:"not null" json:"status"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
}
