package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tourism-portal/events-portal-backend/internal/status"
	"tourism-portal/events-portal-backend/pkg/workflows"
)

// Clock abstracts "now" so duration and historic computations are testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Notifier receives committed status changes. Delivery is fire-and-forget:
// failures never affect the transition result.
type Notifier interface {
	EventStatusChanged(ctx context.Context, change StatusChange) error
}

// Service orchestrates approval workflow transitions.
type Service struct {
	repo     Repository
	registry *status.Registry
	rules    *workflows.StateMachine
	notifier Notifier
	clock    Clock
	logger   *zap.Logger
}

// NewService creates the workflow service.
func NewService(repo Repository, registry *status.Registry, notifier Notifier, clock Clock, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		rules:    workflows.NewStateMachine(),
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// ApplyTransition validates and applies one workflow transition. The status
// update and the history append commit in the same transaction; on any
// denial nothing is written.
func (s *Service) ApplyTransition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	now := s.clock.Now()

	entry, prevChanged, err := s.repo.Transition(ctx, req.EventID, func(current status.Code, lastChanged time.Time) (*StatusHistoryEntry, error) {
		if _, err := s.registry.ByCode(current); err != nil {
			return nil, err
		}
		next, err := s.rules.Decide(current, req.Action, req.ActorRole, req.Reason)
		if err != nil {
			return nil, err
		}
		return s.newEntry(req.EventID, &current, next, req.ActorID, req.ActorRole, req.Reason, req.Comments, now), nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(entry, req.ActorRole)

	return &TransitionResult{
		EventID:             req.EventID,
		PreviousStatus:      *entry.PreviousStatus,
		NewStatus:           entry.NewStatus,
		HistoryEntryID:      entry.ID,
		TimeInPreviousState: DurationInState(prevChanged, now),
	}, nil
}

// Cancel moves a not-yet-terminal event to cancelled. Cancellation sits
// outside the approval table: it is allowed from any state except rejected
// and cancelled, for workflow-managing roles only.
func (s *Service) Cancel(ctx context.Context, eventID, actorID uuid.UUID, role workflows.Role, reason string) (*TransitionResult, error) {
	if !workflows.CanManageWorkflow(role) {
		return nil, &workflows.UnauthorizedError{Role: role, Action: "cancel"}
	}
	now := s.clock.Now()

	entry, prevChanged, err := s.repo.Transition(ctx, eventID, func(current status.Code, lastChanged time.Time) (*StatusHistoryEntry, error) {
		if current == status.Rejected || current == status.Cancelled {
			return nil, &workflows.InvalidTransitionError{From: current, Action: "cancel"}
		}
		return s.newEntry(eventID, &current, status.Cancelled, actorID, role, reason, "", now), nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(entry, role)

	return &TransitionResult{
		EventID:             eventID,
		PreviousStatus:      *entry.PreviousStatus,
		NewStatus:           entry.NewStatus,
		HistoryEntryID:      entry.ID,
		TimeInPreviousState: DurationInState(prevChanged, now),
	}, nil
}

// NewCreationEntry builds the initial history entry (nil previous status) for
// a freshly created draft. The events repository persists it in the same
// transaction as the event insert so a draft never exists without its entry.
func (s *Service) NewCreationEntry(eventID, actorID uuid.UUID, role workflows.Role) *StatusHistoryEntry {
	return s.newEntry(eventID, nil, status.Draft, actorID, role, "", "", s.clock.Now())
}

// History returns the audit trail for an event, oldest entry first.
func (s *Service) History(ctx context.Context, eventID uuid.UUID) ([]StatusHistoryEntry, error) {
	return s.repo.History(ctx, eventID)
}

// AllowedActions lists the actions a role may currently take on an event.
func (s *Service) AllowedActions(ctx context.Context, eventID uuid.UUID, role workflows.Role) ([]workflows.Action, error) {
	current, _, err := s.repo.CurrentStatus(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.rules.AllowedActions(current, role), nil
}

// StatusSummary reports the current status and time spent in it.
func (s *Service) StatusSummary(ctx context.Context, eventID uuid.UUID) (status.EventStatus, StateDuration, error) {
	code, lastChanged, err := s.repo.CurrentStatus(ctx, eventID)
	if err != nil {
		return status.EventStatus{}, StateDuration{}, err
	}
	st, err := s.registry.ByCode(code)
	if err != nil {
		return status.EventStatus{}, StateDuration{}, err
	}
	return st, DurationInState(lastChanged, s.clock.Now()), nil
}

func (s *Service) newEntry(eventID uuid.UUID, previous *status.Code, next status.Code, actorID uuid.UUID, role workflows.Role, reason, comments string, now time.Time) *StatusHistoryEntry {
	entry := &StatusHistoryEntry{
		ID:        uuid.New(),
		EventID:   eventID,
		NewStatus: next,
		ActorID:   actorID,
		ActorRole: string(role),
		CreatedAt: now,
	}
	if previous != nil {
		p := *previous
		entry.PreviousStatus = &p
	}
	if reason != "" {
		entry.Reason = &reason
	}
	if comments != "" {
		entry.Comments = &comments
	}
	return entry
}

func (s *Service) notify(entry *StatusHistoryEntry, role workflows.Role) {
	if s.notifier == nil {
		return
	}
	change := StatusChange{
		EventID:   entry.EventID,
		NewStatus: entry.NewStatus,
		ActorID:   entry.ActorID,
		ActorRole: role,
		ChangedAt: entry.CreatedAt,
	}
	if entry.PreviousStatus != nil {
		change.PreviousStatus = *entry.PreviousStatus
	}
	if entry.Reason != nil {
		change.Reason = *entry.Reason
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.EventStatusChanged(ctx, change); err != nil {
			s.logger.Warn("status change notification failed",
				zap.String("event_id", change.EventID.String()),
				zap.Error(err))
		}
	}()
}
