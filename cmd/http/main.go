package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fsanano/foodexpress/internal/app"
	"fsanano/foodexpress/internal/config"
	"fsanano/foodexpress/internal/handler"
	"fsanano/foodexpress/internal/repository"
	"fsanano/foodexpress/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup token storage
	ctx := context.Background()
	var tokens session.TokenStore
	if cfg.DatabaseURL != "" {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer dbPool.Close()

		if err := dbPool.Ping(ctx); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		slog.Info("Connected to database", "profile", cfg.Session.Profile)
		tokens = repository.NewTokenRepository(dbPool, cfg.Session.Profile)
	} else {
		slog.Info("Keeping session token on disk", "path", cfg.Session.TokenFile)
		tokens = session.NewFileTokenStore(cfg.Session.TokenFile)
	}

	// 3. Setup storefront
	root := app.New(app.Config{
		APIURL:     cfg.API.URL,
		Timeout:    cfg.API.Timeout,
		ListingTTL: cfg.API.ListingTTL,
		CartPolicy: cfg.CartPolicy,
	}, tokens)

	if err := root.Restore(ctx); err != nil {
		// Start signed out rather than refuse to start.
		slog.Warn("Failed to restore session", "err", err)
	}

	h := handler.NewHandler(root)

	// 4. Setup Server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort, "api", cfg.API.URL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}
