package events

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"tourism-portal/events-portal-backend/internal/status"
)

// Filters narrows an event collection. Zero-valued fields are no-ops, set
// fields compose with logical AND, so filters commute.
type Filters struct {
	Search     string
	CategoryID *uuid.UUID
	Status     status.Code
	EventType  string
	StartDate  *time.Time
	EndDate    *time.Time
}

// ApplyFilters returns the events matching every set filter field.
func ApplyFilters(evts []Event, f Filters) []Event {
	search := strings.ToLower(f.Search)
	var out []Event
	for _, e := range evts {
		if !matches(&e, f, search) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matches(e *Event, f Filters, search string) bool {
	if search != "" &&
		!strings.Contains(strings.ToLower(e.Title), search) &&
		!strings.Contains(strings.ToLower(e.Description), search) {
		return false
	}
	if f.CategoryID != nil && e.CategoryID != *f.CategoryID {
		return false
	}
	if f.Status != "" && e.Status() != f.Status {
		return false
	}
	if f.EventType != "" && e.EventType != f.EventType {
		return false
	}
	// Date bounds are inclusive over the main schedule.
	if f.StartDate != nil && e.StartDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.EndDate.After(*f.EndDate) {
		return false
	}
	return true
}
