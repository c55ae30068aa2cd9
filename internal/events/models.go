package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tourism-portal/events-portal-backend/internal/status"
)

// Event represents a tourism event submitted by an organization.
type Event struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title               string         `gorm:"not null" json:"title"`
	Description         string         `json:"description"`
	OrganizationID      uuid.UUID      `gorm:"type:uuid;not null" json:"organization_id"`
	CategoryID          uuid.UUID      `gorm:"type:uuid" json:"category_id"`
	EventType           string         `json:"event_type"`
	StartDate           time.Time      `gorm:"not null" json:"start_date"`
	EndDate             time.Time      `gorm:"not null" json:"end_date"`
	SecondaryDates      datatypes.JSON `json:"secondary_dates,omitempty"` // additional occurrences, []DateRange
	StatusCode          string         `gorm:"column:status_code;not null;default:'draft'" json:"status_code"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	LastStatusChangedAt time.Time      `json:"last_status_changed_at"`
}

// Status returns the event's current workflow status code.
func (e *Event) Status() status.Code {
	return status.Code(e.StatusCode)
}

// Ended reports whether the event's main schedule is over.
func (e *Event) Ended(now time.Time) bool {
	return e.EndDate.Before(now)
}

// DateRange is one secondary occurrence of an event.
type DateRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// SecondaryRanges decodes the secondary dates column.
func (e *Event) SecondaryRanges() ([]DateRange, error) {
	if len(e.SecondaryDates) == 0 {
		return nil, nil
	}
	var ranges []DateRange
	if err := json.Unmarshal(e.SecondaryDates, &ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}

// EncodeSecondaryRanges sets the secondary dates column.
func (e *Event) EncodeSecondaryRanges(ranges []DateRange) error {
	if len(ranges) == 0 {
		e.SecondaryDates = nil
		return nil
	}
	raw, err := json.Marshal(ranges)
	if err != nil {
		return err
	}
	e.SecondaryDates = datatypes.JSON(raw)
	return nil
}

// Category classifies events on the public calendar.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
