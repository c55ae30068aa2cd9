package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourism-portal/events-portal-backend/internal/workflow"
)

// ErrEventNotFound is returned for lookups of missing events.
var ErrEventNotFound = errors.New("event not found")

// Repository defines event persistence.
type Repository interface {
	// Create inserts the event and its initial history entry in one
	// transaction; a draft never exists without its audit record.
	Create(ctx context.Context, event *Event, entry *workflow.StatusHistoryEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, event *Event) error
	List(ctx context.Context) ([]Event, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]Event, error)
	ListByStatus(ctx context.Context, codes []string) ([]Event, error)

	CreateCategory(ctx context.Context, category *Category) error
	ListCategories(ctx context.Context) ([]Category, error)
}

// GormRepository implements Repository on PostgreSQL via gorm.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new gorm-backed repository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, event *Event, entry *workflow.StatusHistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		var prev *string
		if entry.PreviousStatus != nil {
			s := string(*entry.PreviousStatus)
			prev = &s
		}
		return tx.Exec(
			`INSERT INTO status_history (id, event_id, previous_status, new_status, actor_id, actor_role, reason, comments, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.EventID, prev, string(entry.NewStatus),
			entry.ActorID, entry.ActorRole, entry.Reason, entry.Comments, entry.CreatedAt,
		).Error
	})
}

func (r *GormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *GormRepository) Update(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *GormRepository) List(ctx context.Context) ([]Event, error) {
	var evts []Event
	err := r.db.WithContext(ctx).Order("start_date").Find(&evts).Error
	return evts, err
}

func (r *GormRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]Event, error) {
	var evts []Event
	err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("start_date").Find(&evts).Error
	return evts, err
}

func (r *GormRepository) ListByStatus(ctx context.Context, codes []string) ([]Event, error) {
	var evts []Event
	err := r.db.WithContext(ctx).Where("status_code IN ?", codes).Order("last_status_changed_at").Find(&evts).Error
	return evts, err
}

func (r *GormRepository) CreateCategory(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *GormRepository) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}
