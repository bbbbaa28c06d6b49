// Package db opens the SQLite local store and the PostgreSQL remote backend.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialect names the engine behind a Database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Database wraps a GORM connection to either store.
type Database struct {
	db      *gorm.DB
	dialect Dialect
}

func open(dialect Dialect, dialector gorm.Dialector) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect, err)
	}
	return &Database{db: db, dialect: dialect}, nil
}

// DB returns the underlying GORM database instance.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Dialect reports which engine the connection talks to.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// Ping checks the connection within ctx.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// HealthCheck pings with a short timeout.
func (d *Database) HealthCheck() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Ping(ctx); err != nil {
		slog.Warn("Database health check failed", "dialect", d.dialect, "error", err)
		return false
	}
	return true
}

// Close closes the connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close %s connection: %w", d.dialect, err)
	}

	slog.Info("Database connection closed", "dialect", d.dialect)
	return nil
}
