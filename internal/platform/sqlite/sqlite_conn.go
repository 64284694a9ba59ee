package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// pragmas applied to every connection. WAL is left out for in-memory databases
const pragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

// SQLite wraps a single-writer database handle. All key operations are writes
// (insert or delete), so one connection serializes them without "database is locked" errors
type SQLite struct {
	DB *sql.DB
}

// NewSQLiteConnection opens the database file at path with WAL journaling
func NewSQLiteConnection(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&%s", path, pragmas)
	return open(ctx, dsn)
}

// NewMemoryConnection opens a named, shared in-memory database. Connections using
// the same name see the same data until the last one is closed
func NewMemoryConnection(ctx context.Context, name string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", name, pragmas)
	return open(ctx, dsn)
}

func open(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	slog.Debug("sqlite database opened")
	return &SQLite{DB: db}, nil
}

func (s *SQLite) Close() error {
	if s.DB == nil {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite: %w", err)
	}
	return nil
}
