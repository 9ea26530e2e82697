package main

import (
	"context"
	"os"
	"time"

	"github.com/Albert91/deck-builder/internal/ai"
	"github.com/Albert91/deck-builder/internal/config"
	"github.com/Albert91/deck-builder/internal/database"
	"github.com/Albert91/deck-builder/internal/email"
	"github.com/Albert91/deck-builder/internal/handlers"
	"github.com/Albert91/deck-builder/internal/logger"
	"github.com/Albert91/deck-builder/internal/storage"
	"github.com/Albert91/deck-builder/internal/validation"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logLevel := "info"
	if cfg.IsDevelopment() {
		logLevel = "debug"
	}
	logger.Initialize(logLevel, cfg.IsDevelopment())

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	env := &handlers.Env{
		DB:     db,
		Config: cfg,
		Email:  email.NewService(cfg),
	}

	if cfg.ImageGenerationEnabled() {
		client, err := ai.NewClient(ai.ClientConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			logger.Error("Failed to configure image generation", "error", err)
			os.Exit(1)
		}
		env.AI = client
	} else {
		logger.Warn("OPENAI_API_KEY not set, image generation disabled")
	}

	if cfg.StorageEnabled() {
		uploader, err := storage.New(context.Background(), storage.Config{
			AccountID:       cfg.S3AccountID,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			Bucket:          cfg.S3Bucket,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			logger.Error("Failed to configure object storage", "error", err)
			os.Exit(1)
		}
		env.Storage = uploader
	} else {
		logger.Warn("Object storage not configured, generated images will not be persisted")
	}

	if !env.Email.IsEnabled() {
		logger.Warn("Mailgun not configured, email delivery disabled")
	}

	if err := validation.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", "error", err)
		os.Exit(1)
	}

	// Expired sessions, OTP codes and reset tokens are swept in the
	// background so the tables stay small.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := database.CleanupExpiredSessions(db); err != nil {
				logger.Error("Session cleanup failed", "error", err)
			}
			if err := database.CleanupExpiredTokens(db); err != nil {
				logger.Error("Token cleanup failed", "error", err)
			}
		}
	}()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	handlers.SetupRoutes(r, env)

	logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
