package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tourism-portal/events-portal-backend/internal/workflow"
)

// Service records and delivers workflow notifications. Delivery here is the
// log channel; email/SMS providers hang off the same records when enabled.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// EventStatusChanged implements workflow.Notifier.
func (s *Service) EventStatusChanged(ctx context.Context, change workflow.StatusChange) error {
	subject := fmt.Sprintf("Event status changed to %s", change.NewStatus)
	body := fmt.Sprintf("Status moved from %s to %s by %s.", change.PreviousStatus, change.NewStatus, change.ActorRole)
	if change.Reason != "" {
		body += " Reason: " + change.Reason
	}

	meta, _ := json.Marshal(map[string]string{
		"previous_status": string(change.PreviousStatus),
		"new_status":      string(change.NewStatus),
		"actor_id":        change.ActorID.String(),
		"actor_role":      string(change.ActorRole),
	})

	return s.record(ctx, change.EventID, CategoryStatusChanged, subject, body, meta)
}

// RemindPending records a reminder for an event waiting on action.
func (s *Service) RemindPending(ctx context.Context, eventID uuid.UUID, statusCode string, waiting time.Duration) error {
	subject := fmt.Sprintf("Event still %s", statusCode)
	body := fmt.Sprintf("Event has been waiting in %s for %s.", statusCode, waiting.Round(time.Hour))

	meta, _ := json.Marshal(map[string]string{
		"status":  statusCode,
		"waiting": waiting.String(),
	})

	return s.record(ctx, eventID, CategoryPendingReminder, subject, body, meta)
}

func (s *Service) record(ctx context.Context, eventID uuid.UUID, category, subject, body string, meta []byte) error {
	now := time.Now().UTC()
	n := &SentNotification{
		ID:        uuid.New(),
		EventID:   eventID,
		Category:  category,
		Subject:   subject,
		Body:      body,
		Status:    StatusSent,
		Metadata:  datatypes.JSON(meta),
		CreatedAt: now,
		SentAt:    &now,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	s.logger.Info("notification sent",
		zap.String("event_id", eventID.String()),
		zap.String("category", category),
		zap.String("subject", subject))
	return nil
}

// ListForEvent returns the notifications recorded for one event, newest first.
func (s *Service) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]SentNotification, error) {
	var out []SentNotification
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
