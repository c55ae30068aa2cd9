package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tourism-portal/events-portal-backend/internal/status"
	"tourism-portal/events-portal-backend/internal/workflow"
	"tourism-portal/events-portal-backend/pkg/workflows"
)

// ErrEventLocked is returned when editing an event whose status no longer
// permits changes.
var ErrEventLocked = errors.New("event status does not permit changes")

// CreateEventRequest carries the fields for a new draft event.
type CreateEventRequest struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	CategoryID     uuid.UUID   `json:"category_id"`
	EventType      string      `json:"event_type"`
	StartDate      time.Time   `json:"start_date"`
	EndDate        time.Time   `json:"end_date"`
	SecondaryDates []DateRange `json:"secondary_dates"`
}

// UpdateEventRequest carries optional field updates.
type UpdateEventRequest struct {
	Title          *string     `json:"title"`
	Description    *string     `json:"description"`
	CategoryID     *uuid.UUID  `json:"category_id"`
	EventType      *string     `json:"event_type"`
	StartDate      *time.Time  `json:"start_date"`
	EndDate        *time.Time  `json:"end_date"`
	SecondaryDates []DateRange `json:"secondary_dates"`
}

// CreationRecorder builds the initial audit entry for a new draft.
// Implemented by the workflow service; the repository persists the entry in
// the same transaction as the event insert.
type CreationRecorder interface {
	NewCreationEntry(eventID, actorID uuid.UUID, role workflows.Role) *workflow.StatusHistoryEntry
}

// Service provides event CRUD around the workflow core.
type Service struct {
	repo     Repository
	registry *status.Registry
	recorder CreationRecorder
	logger   *zap.Logger
}

// NewService creates the events service.
func NewService(repo Repository, registry *status.Registry, recorder CreationRecorder, logger *zap.Logger) *Service {
	return &Service{repo: repo, registry: registry, recorder: recorder, logger: logger}
}

// CreateEvent stores a new draft and records its initial history entry.
func (s *Service) CreateEvent(ctx context.Context, req CreateEventRequest, actorID uuid.UUID, role workflows.Role) (*Event, error) {
	if req.Title == "" {
		return nil, errors.New("title is required")
	}
	if req.OrganizationID == uuid.Nil {
		return nil, errors.New("organization_id is required")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, errors.New("end_date must be after start_date")
	}

	now := time.Now().UTC()
	event := &Event{
		ID:                  uuid.New(),
		Title:               req.Title,
		Description:         req.Description,
		OrganizationID:      req.OrganizationID,
		CategoryID:          req.CategoryID,
		EventType:           req.EventType,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		StatusCode:          string(status.Draft),
		CreatedAt:           now,
		UpdatedAt:           now,
		LastStatusChangedAt: now,
	}
	if err := event.EncodeSecondaryRanges(req.SecondaryDates); err != nil {
		return nil, err
	}

	entry := s.recorder.NewCreationEntry(event.ID, actorID, role)
	if err := s.repo.Create(ctx, event, entry); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent returns one event by id.
func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateEvent applies field updates while the event's status still permits
// changes. Status itself is only ever changed by the workflow service.
func (s *Service) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	code := event.Status()
	if code == status.Published || s.registry.IsTerminal(code) {
		return nil, ErrEventLocked
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.CategoryID != nil {
		event.CategoryID = *req.CategoryID
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.SecondaryDates != nil {
		if err := event.EncodeSecondaryRanges(req.SecondaryDates); err != nil {
			return nil, err
		}
	}
	if !event.EndDate.After(event.StartDate) {
		return nil, errors.New("end_date must be after start_date")
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns the filtered admin view of the event collection.
func (s *Service) ListEvents(ctx context.Context, f Filters) ([]Event, error) {
	evts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilters(evts, f), nil
}

// ListPublicEvents returns the public calendar: published, not yet ended,
// plus caller filters.
func (s *Service) ListPublicEvents(ctx context.Context, f Filters, now time.Time) ([]Event, error) {
	f.Status = status.Published
	evts, err := s.ListEvents(ctx, f)
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, e := range evts {
		if !e.Ended(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListCategories returns the category catalog.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory adds a category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	category := &Category{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
