package reminders

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tourism-portal/events-portal-backend/internal/events"
	"tourism-portal/events-portal-backend/internal/notifications"
	"tourism-portal/events-portal-backend/internal/status"
)

// Config controls the reminder sweep.
type Config struct {
	// Schedule is a cron expression, e.g. "0 8 * * *" for 08:00 daily.
	Schedule string
	// PendingAge is how long an event may sit in a waiting state before a
	// reminder goes out.
	PendingAge time.Duration
	// SweepTimeout bounds one sweep run.
	SweepTimeout time.Duration
}

// DefaultConfig returns the default sweep configuration.
func DefaultConfig() Config {
	return Config{
		Schedule:     "0 8 * * *",
		PendingAge:   48 * time.Hour,
		SweepTimeout: time.Minute,
	}
}

// Sweeper periodically reminds staff about events stuck in waiting states.
// It never mutates event status.
type Sweeper struct {
	events   events.Repository
	notifier *notifications.Service
	config   Config
	logger   *zap.Logger
	cron     *cron.Cron
}

// NewSweeper creates a reminder sweeper.
func NewSweeper(eventsRepo events.Repository, notifier *notifications.Service, config Config, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		events:   eventsRepo,
		notifier: notifier,
		config:   config,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the sweep and begins running it.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.SweepTimeout)
		defer cancel()
		s.Sweep(ctx, time.Now().UTC())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder sweeper started", zap.String("schedule", s.config.Schedule))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// waitingStatuses are the states a reminder applies to: the same set the
// dashboard surfaces as requires-action.
var waitingStatuses = []string{
	string(status.PendingInternalApproval),
	string(status.PendingPublicApproval),
	string(status.RequiresChanges),
}

// Sweep sends one reminder pass over the waiting events.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) {
	evts, err := s.events.ListByStatus(ctx, waitingStatuses)
	if err != nil {
		s.logger.Error("reminder sweep failed to list events", zap.Error(err))
		return
	}

	var sent int
	for i := range evts {
		e := &evts[i]
		waiting := now.Sub(e.LastStatusChangedAt)
		if waiting < s.config.PendingAge {
			continue
		}
		if err := s.notifier.RemindPending(ctx, e.ID, e.StatusCode, waiting); err != nil {
			s.logger.Warn("failed to send pending reminder",
				zap.String("event_id", e.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("reminder sweep complete",
		zap.Int("waiting", len(evts)),
		zap.Int("reminded", sent))
}
