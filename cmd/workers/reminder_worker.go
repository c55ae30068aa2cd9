package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tourism-portal/events-portal-backend/internal/config"
	"tourism-portal/events-portal-backend/internal/events"
	"tourism-portal/events-portal-backend/internal/notifications"
	"tourism-portal/events-portal-backend/internal/reminders"
)

// Standalone reminder worker, for deployments that run the sweep outside
// the API process.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to initialize orm", zap.Error(err))
	}

	notifier := notifications.NewService(gdb, logger)
	eventsRepo := events.NewGormRepository(gdb)

	sweeper := reminders.NewSweeper(eventsRepo, notifier, reminders.Config{
		Schedule:     cfg.Reminder.Schedule,
		PendingAge:   cfg.Reminder.PendingAge,
		SweepTimeout: cfg.Reminder.SweepTimeout,
	}, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("failed to start reminder sweeper", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("reminder worker shutting down")
	sweeper.Stop()
}
