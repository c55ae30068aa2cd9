package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tourism-portal/events-portal-backend/internal/auth"
	"tourism-portal/events-portal-backend/internal/config"
	"tourism-portal/events-portal-backend/internal/dashboard"
	"tourism-portal/events-portal-backend/internal/events"
	"tourism-portal/events-portal-backend/internal/notifications"
	"tourism-portal/events-portal-backend/internal/reminders"
	"tourism-portal/events-portal-backend/internal/status"
	"tourism-portal/events-portal-backend/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	// Connect to database
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// gorm shares the same connection pool for the CRUD side.
	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to initialize orm", zap.Error(err))
	}
	if err := gdb.AutoMigrate(&events.Event{}, &events.Category{}, &notifications.SentNotification{}); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}

	// Initialize modules
	registry := status.NewRegistry()

	workflowRepo := workflow.NewPostgresRepository(db)
	if err := workflowRepo.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("failed to migrate history schema", zap.Error(err))
	}

	countersCache := dashboard.NewSnapshotCache(30 * time.Second)
	defer countersCache.Stop()

	notifier := notifications.NewService(gdb, logger)
	notificationsHandler := notifications.NewHandler(notifier, logger)
	workflowService := workflow.NewService(workflowRepo, registry,
		dashboard.NewCacheInvalidator(countersCache, notifier), workflow.SystemClock{}, logger)
	workflowHandler := workflow.NewHandler(workflowService, logger)

	eventsRepo := events.NewGormRepository(gdb)
	eventsService := events.NewService(eventsRepo, registry, workflowService, logger)
	eventsHandler := events.NewHandler(eventsService, logger)

	dashboardHandler := dashboard.NewHandler(eventsService, countersCache, logger)

	sweeper := reminders.NewSweeper(eventsRepo, notifier, reminders.Config{
		Schedule:     cfg.Reminder.Schedule,
		PendingAge:   cfg.Reminder.PendingAge,
		SweepTimeout: cfg.Reminder.SweepTimeout,
	}, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("failed to start reminder sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	// Setup Router
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
	})

	public := router.Group("/api/v1/public")
	eventsHandler.RegisterPublicRoutes(public)

	api := router.Group("/api/v1")
	api.Use(auth.Middleware(cfg.Security.JWTSecret))
	{
		eventsHandler.RegisterRoutes(api)
		workflowHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)
		notificationsHandler.RegisterRoutes(api)

		admin := api.Group("/admin", auth.RequireWorkflowRole())
		admin.POST("/reminders/sweep", func(c *gin.Context) {
			sweeper.Sweep(c.Request.Context(), time.Now().UTC())
			c.JSON(http.StatusAccepted, gin.H{"status": "sweep triggered"})
		})
	}

	// Start Server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}

func newLogger(level string) *zap.Logger {
	if level == "debug" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
