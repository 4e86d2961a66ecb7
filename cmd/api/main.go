package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nondefyde/coderealm-api/internal/cache"
	"github.com/nondefyde/coderealm-api/internal/config"
	"github.com/nondefyde/coderealm-api/internal/database"
	"github.com/nondefyde/coderealm-api/internal/modules/account"
	"github.com/nondefyde/coderealm-api/internal/notification"
	"github.com/nondefyde/coderealm-api/internal/resource"
	"github.com/nondefyde/coderealm-api/internal/server"
)

func main() {
	// Use a structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()
	if cfg == nil {
		logger.Error("failed to load configuration")
		os.Exit(1)
	}
	logger.Info("configuration loaded successfully", "env", cfg.Server.Env)

	// --- Database & Cache ---
	dbPool := database.NewPostgresPool(cfg.Database.URL)
	if dbPool == nil {
		logger.Error("failed to connect to postgres")
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("successfully connected to postgres database")

	redisClient := cache.NewRedisClient(cfg.Redis.URL)
	if redisClient == nil {
		logger.Error("failed to connect to redis")
		os.Exit(1)
	}
	defer redisClient.Close()
	logger.Info("successfully connected to redis")

	// --- Module Initialization (Bottom-Up) ---

	mailer := notification.NewService(logger, notification.NewSMTPEmailSender(cfg.SMTP, logger))

	// Account module
	accountRepo := account.NewRepository(dbPool)
	accountService := account.NewService(&account.Config{
		Repo:     accountRepo,
		Logger:   logger,
		Config:   cfg,
		Mailer:   mailer,
		Cooldown: cache.NewCooldown(redisClient, cfg.Verification.ResendCooldown()),
		Social:   account.NewSocialVerifier(cfg.Social),
	})
	accountHandler := account.NewHandler(accountService, logger)

	// Generic resource module
	registry := resource.DefaultRegistry()
	store := resource.NewStore(dbPool)
	processor := resource.NewProcessor(store, registry, logger)
	resourceHandler := resource.NewHandler(processor, registry, logger)

	router := server.New(cfg, logger, accountHandler, resourceHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting server on port %s...", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced server shutdown", "error", err)
	}
	logger.Info("server stopped")
}
