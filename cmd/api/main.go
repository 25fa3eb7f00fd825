// Command api is the operator console API server.
//
// Usage:
//
//	chaver-api
//	API_PORT=8080 chaver-api

// @title Chaver Mechuyvut Operator API
// @version 1.0.0
// @description Operator console backend: notification targeting, multi-provider push delivery, scheduled dispatch, and admin CRUD.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/handler"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/cache"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/config"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/db"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/mailer"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/notify"

	_ "github.com/oshri1997/chaver-mechuyvut-dashboard/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Push transports
	expo := notify.NewExpoClient(cfg.ExpoPushURL, 10*time.Second, logger)
	var native notify.NativeTransport
	if cfg.FirebaseConfigured() {
		fcm, err := notify.NewFCMSender(ctx, cfg.FirebaseProjectID, cfg.FirebaseClientEmail, cfg.FirebasePrivateKey, logger)
		if err != nil {
			logger.Error("Failed to initialize FCM", "error", err)
			os.Exit(1)
		}
		native = fcm
		logger.Info("FCM transport initialized", "project_id", cfg.FirebaseProjectID)
	} else {
		logger.Warn("FCM transport disabled (missing FIREBASE_ADMIN_* vars); native tokens will count as failures")
	}
	dispatcher := notify.NewDispatcher(expo, native, logger)

	// Scheduled-dispatch pipeline
	store := notify.NewStore(pool.Pool)
	processor := notify.NewProcessor(store, directory.NewSource(pool.Pool), dispatcher, logger)

	// Optional in-process worker; production normally relies on the
	// external trigger hitting /cron.
	if cfg.DispatchWorkerEnabled {
		go notify.StartWorker(ctx, processor, cfg.DispatchInterval, logger)
	}

	// Mailer (nil when SMTP is not configured)
	var mail mailer.Mailer
	if m := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom); m != nil {
		mail = m
		logger.Info("SMTP mailer initialized", "host", cfg.SMTPHost)
	}

	// Create router
	h := handler.New(pool.Pool, appCache, cfg, store, processor, dispatcher, mail)
	router := api.NewRouter(h, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting operator API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
