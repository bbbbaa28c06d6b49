package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"

	"github.com/family-budget/backend/config"
)

// connectTimeout bounds the first ping so an unreachable backend degrades to offline quickly.
const connectTimeout = 5 * time.Second

// NewPostgresConnection connects to the remote backend and verifies it answers.
// A failure here is not fatal to the caller: the server can still run offline.
func NewPostgresConnection(ctx context.Context, cfg *config.DatabaseConfig) (*Database, error) {
	database, err := open(DialectPostgres, postgres.Open(cfg.URL))
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("remote backend unreachable: %w", err)
	}

	slog.Info("Database connection established",
		"dialect", DialectPostgres,
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)
	return database, nil
}
