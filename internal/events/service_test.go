package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tourism-portal/events-portal-backend/internal/status"
	"tourism-portal/events-portal-backend/internal/workflow"
	"tourism-portal/events-portal-backend/pkg/workflows"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *Event, entry *workflow.StatusHistoryEntry) error {
	args := m.Called(ctx, event, entry)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) List(ctx context.Context) ([]Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockEventRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]Event, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockEventRepository) ListByStatus(ctx context.Context, codes []string) ([]Event, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockEventRepository) CreateCategory(ctx context.Context, category *Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockEventRepository) ListCategories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

type stubRecorder struct{}

func (stubRecorder) NewCreationEntry(eventID, actorID uuid.UUID, role workflows.Role) *workflow.StatusHistoryEntry {
	return &workflow.StatusHistoryEntry{
		ID:        uuid.New(),
		EventID:   eventID,
		NewStatus: status.Draft,
		ActorID:   actorID,
		ActorRole: string(role),
		CreatedAt: time.Now().UTC(),
	}
}

func newEventService(repo Repository, recorder CreationRecorder) *Service {
	return NewService(repo, status.NewRegistry(), recorder, zap.NewNop())
}

func validCreateRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:          "Heritage Week",
		Description:    "Guided tours of historic sites",
		OrganizationID: uuid.New(),
		CategoryID:     uuid.New(),
		EventType:      "festival",
		StartDate:      time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateEventStartsAsDraft(t *testing.T) {
	repo := new(MockEventRepository)
	service := newEventService(repo, stubRecorder{})

	var entry *workflow.StatusHistoryEntry
	repo.On("Create", mock.Anything, mock.AnythingOfType("*events.Event"), mock.AnythingOfType("*workflow.StatusHistoryEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(2).(*workflow.StatusHistoryEntry)
		}).
		Return(nil)

	event, err := service.CreateEvent(context.Background(), validCreateRequest(), uuid.New(), workflows.RoleEntityStaff)
	require.NoError(t, err)

	assert.Equal(t, status.Draft, event.Status())

	// The initial audit entry travels with the insert, in one repository call.
	require.NotNil(t, entry)
	assert.Equal(t, event.ID, entry.EventID)
	assert.Nil(t, entry.PreviousStatus)
	assert.Equal(t, status.Draft, entry.NewStatus)
	repo.AssertExpectations(t)
}

func TestCreateEventValidation(t *testing.T) {
	repo := new(MockEventRepository)
	service := newEventService(repo, stubRecorder{})

	tests := []struct {
		name   string
		mutate func(*CreateEventRequest)
	}{
		{"missing title", func(r *CreateEventRequest) { r.Title = "" }},
		{"missing organization", func(r *CreateEventRequest) { r.OrganizationID = uuid.Nil }},
		{"end before start", func(r *CreateEventRequest) { r.EndDate = r.StartDate.Add(-time.Hour) }},
		{"zero-length schedule", func(r *CreateEventRequest) { r.EndDate = r.StartDate }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			_, err := service.CreateEvent(context.Background(), req, uuid.New(), workflows.RoleEntityStaff)
			assert.Error(t, err)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

// A failed insert surfaces the error; no draft without its audit entry.
func TestCreateEventFailureReturnsNothing(t *testing.T) {
	repo := new(MockEventRepository)
	service := newEventService(repo, stubRecorder{})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*events.Event"), mock.AnythingOfType("*workflow.StatusHistoryEntry")).
		Return(assert.AnError)

	event, err := service.CreateEvent(context.Background(), validCreateRequest(), uuid.New(), workflows.RoleEntityStaff)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, event)
}

func TestUpdateEventLockedStatuses(t *testing.T) {
	repo := new(MockEventRepository)
	service := newEventService(repo, stubRecorder{})

	newTitle := "Renamed"
	for _, code := range []status.Code{status.Published, status.Rejected, status.Cancelled} {
		t.Run(string(code), func(t *testing.T) {
			id := uuid.New()
			repo.On("GetByID", mock.Anything, id).Return(&Event{ID: id, StatusCode: string(code)}, nil).Once()

			_, err := service.UpdateEvent(context.Background(), id, UpdateEventRequest{Title: &newTitle})
			assert.ErrorIs(t, err, ErrEventLocked)
		})
	}
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateEventAppliesPartialChanges(t *testing.T) {
	repo := new(MockEventRepository)
	service := newEventService(repo, stubRecorder{})

	id := uuid.New()
	existing := &Event{
		ID:          id,
		Title:       "Heritage Week",
		Description: "Guided tours",
		StatusCode:  string(status.RequiresChanges),
		StartDate:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC),
	}
	repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*events.Event")).Return(nil)

	newDescription := "Guided tours and evening talks"
	updated, err := service.UpdateEvent(context.Background(), id, UpdateEventRequest{Description: &newDescription})
	require.NoError(t, err)

	assert.Equal(t, "Heritage Week", updated.Title)
	assert.Equal(t, newDescription, updated.Description)
	assert.Equal(t, status.RequiresChanges, updated.Status())
}

func TestListPublicEventsHidesEndedEvents(t *testing.T) {
	repo := new(MockEventRepository)
	service := newEventService(repo, stubRecorder{})

	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	repo.On("List", mock.Anything).Return([]Event{
		{Title: "Running", StatusCode: string(status.Published), StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		{Title: "Over", StatusCode: string(status.Published), StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-24 * time.Hour)},
		{Title: "Unpublished", StatusCode: string(status.Draft), StartDate: now, EndDate: now.Add(time.Hour)},
	}, nil)

	out, err := service.ListPublicEvents(context.Background(), Filters{}, now)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Running", out[0].Title)
}
