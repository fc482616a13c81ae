// Package main runs the EventFlow HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eventflow/backend/config"
	"github.com/eventflow/backend/internal/auth"
	"github.com/eventflow/backend/internal/events"
	"github.com/eventflow/backend/internal/feedback"
	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/notifications"
	"github.com/eventflow/backend/internal/registrations"
	"github.com/eventflow/backend/internal/store"
	"github.com/eventflow/backend/pkg/database"
	"github.com/eventflow/backend/pkg/queue"
	"github.com/eventflow/backend/pkg/redis"
	"github.com/eventflow/backend/pkg/response"
	"github.com/eventflow/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Notifications are optional: without Redis the API runs, it just
	// stops sending confirmation and cancellation emails.
	var jobQueue *queue.Queue
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("notifications disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		jobQueue = queue.NewQueue(rdb.Client, logger)
	}

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			EventImagesBucket:    cfg.AWS.EventImagesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Users live in Postgres; the event domain state lives in the in-memory
	// aggregation store, with the auth repository resolving organizers.
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	eventStore := store.New(authRepo)
	if cfg.SeedDemo {
		if err := store.LoadDemo(ctx, authRepo, eventStore, logger); err != nil {
			logger.Fatal("seed demo data", zap.Error(err))
		}
	}

	notificationRepo := notifications.NewRepository(pool)
	notificationHandler := notifications.NewHandler(notificationRepo, eventStore)

	// Handlers take the queue through an interface; assign under a nil
	// check so a missing queue stays a nil interface.
	var eventEmails events.EmailQueue
	var registrationEmails registrations.EmailQueue
	if jobQueue != nil {
		eventEmails = jobQueue
		registrationEmails = jobQueue
	}
	eventHandler := events.NewHandler(eventStore, authRepo, s3Client, eventEmails, logger)
	registrationHandler := registrations.NewHandler(eventStore, registrationEmails, logger)
	feedbackHandler := feedback.NewHandler(eventStore)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Events
		api.GET("/events", eventHandler.List)
		api.GET("/events/:id", eventHandler.GetByID)
		api.POST("/events", middleware.RequireRole(string(models.RoleOrganizer)), eventHandler.Create)
		api.PATCH("/events/:id", middleware.RequireRole(string(models.RoleOrganizer)), eventHandler.Update)
		api.DELETE("/events/:id", middleware.RequireRole(string(models.RoleOrganizer)), eventHandler.Delete)
		api.POST("/events/:id/image/upload-url", middleware.RequireRole(string(models.RoleOrganizer)), eventHandler.GenerateImageUploadURL)
		api.POST("/events/:id/image", middleware.RequireRole(string(models.RoleOrganizer)), eventHandler.UploadImage)
		api.GET("/events/:id/emails", middleware.RequireRole(string(models.RoleOrganizer)), notificationHandler.ListByEvent)

		// Registrations
		api.POST("/events/:id/register", registrationHandler.Register)
		api.DELETE("/events/:id/register", registrationHandler.Unregister)
		api.GET("/registrations", registrationHandler.ListMine)

		// Feedback
		api.POST("/events/:id/feedback", feedbackHandler.Submit)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
