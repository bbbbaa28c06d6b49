package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
)

// NewSQLiteConnection opens the on-device SQLite database at path.
// ":memory:" gives a private in-memory database.
func NewSQLiteConnection(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer; one connection also keeps ":memory:" databases alive.
	sqlDB.SetMaxOpenConns(1)

	database, err := open(DialectSQLite, sqlite.Dialector{Conn: sqlDB})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	slog.Debug("Database connection established", "dialect", DialectSQLite, "path", path)
	return database, nil
}
