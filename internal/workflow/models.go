package workflow

import (
	"time"

	"github.com/google/uuid"

	"tourism-portal/events-portal-backend/internal/status"
	"tourism-portal/events-portal-backend/pkg/workflows"
)

// TransitionRequest is the per-call input to ApplyTransition. Created per
// request, discarded after processing.
type TransitionRequest struct {
	EventID   uuid.UUID        `json:"event_id"`
	Action    workflows.Action `json:"action"`
	ActorID   uuid.UUID        `json:"actor_id"`
	ActorRole workflows.Role   `json:"actor_role"`
	Reason    string           `json:"reason"`
	Comments  string           `json:"comments"`
}

// TransitionResult is returned to the caller after a committed transition.
type TransitionResult struct {
	EventID             uuid.UUID     `json:"event_id"`
	PreviousStatus      status.Code   `json:"previous_status"`
	NewStatus           status.Code   `json:"new_status"`
	HistoryEntryID      uuid.UUID     `json:"history_entry_id"`
	TimeInPreviousState StateDuration `json:"time_in_previous_state"`
}

// StatusHistoryEntry is one immutable audit record of a status change.
// PreviousStatus is nil for the entry written at event creation.
type StatusHistoryEntry struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	EventID        uuid.UUID    `db:"event_id" json:"event_id"`
	PreviousStatus *status.Code `db:"previous_status" json:"previous_status,omitempty"`
	NewStatus      status.Code  `db:"new_status" json:"new_status"`
	ActorID        uuid.UUID    `db:"actor_id" json:"actor_id"`
	ActorRole      string       `db:"actor_role" json:"actor_role"`
	Reason         *string      `db:"reason" json:"reason,omitempty"`
	Comments       *string      `db:"comments" json:"comments,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// StatusChange is handed to the notifier after a transition commits.
type StatusChange struct {
	EventID        uuid.UUID
	PreviousStatus status.Code
	NewStatus      status.Code
	ActorID        uuid.UUID
	ActorRole      workflows.Role
	Reason         string
	ChangedAt      time.Time
}
