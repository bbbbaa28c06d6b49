// Package main is the entry point for the Family Budget API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/family-budget/backend/config"
	"github.com/family-budget/backend/internal/infra/db"
	"github.com/family-budget/backend/internal/infra/dependency"
	"github.com/family-budget/backend/internal/integration/localstore"
	"github.com/family-budget/backend/internal/integration/remote"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	slog.Info("Starting Family Budget API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"force_offline", cfg.Sync.ForceOffline,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The local store is mandatory: it is the only store of offline families.
	localDB, err := db.NewSQLiteConnection(cfg.LocalStore.Path)
	if err != nil {
		slog.Error("Failed to open local store", "path", cfg.LocalStore.Path, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := localDB.Close(); err != nil {
			slog.Error("Failed to close local store", "error", err)
		}
	}()
	if err := localstore.Migrate(ctx, localDB.DB()); err != nil {
		slog.Error("Failed to run local store migrations", "error", err)
		os.Exit(1)
	}

	// The remote backend is optional; without it the server runs offline.
	var remoteDB *db.Database
	if !cfg.Sync.ForceOffline {
		remoteDB, err = db.NewPostgresConnection(ctx, &cfg.Database)
		if err != nil {
			slog.Warn("Database connection failed, running offline", "error", err)
			remoteDB = nil
		}
	}
	if remoteDB != nil {
		if err := remote.Migrate(ctx, remoteDB.DB()); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")
		defer func() {
			if err := remoteDB.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()
	}

	injector := dependency.NewInjector(cfg, remoteDB, localDB)
	defer injector.Close()

	if injector.EmailWorker != nil {
		go injector.EmailWorker.Start(ctx)
	}
	go cleanupRateLimiter(ctx, injector)

	engine := injector.Router.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server exited properly")
}

// cleanupRateLimiter drops expired rate limit entries every few minutes.
func cleanupRateLimiter(ctx context.Context, injector *dependency.Injector) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining := injector.InviteRateLimiter.Cleanup()
			slog.Debug("Invite rate limiter cleaned up", "active_callers", remaining)
		}
	}
}
