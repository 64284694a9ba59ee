package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationsFS embed.FS

// RunPostgres applies the embedded postgres migrations through the given pool.
// It is safe to call on every startup; already-applied migrations are skipped
func RunPostgres(pool *pgxpool.Pool) error {
	sourceDriver, err := iofs.New(migrationsFS, "postgres")
	if err != nil {
		return fmt.Errorf("migrations: create source: %w", err)
	}

	// Closing this handle releases the migrator's connection but leaves the pool open
	db := stdlib.OpenDBFromPool(pool)

	dbDriver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("migrations: create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "pgx5", dbDriver)
	if err != nil {
		db.Close()
		return fmt.Errorf("migrations: create migrator: %w", err)
	}
	defer m.Close()

	return up(m)
}

// RunSQLite applies the embedded sqlite migrations. db stays open afterwards
func RunSQLite(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "sqlite")
	if err != nil {
		return fmt.Errorf("migrations: create source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migrations: create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("migrations: create migrator: %w", err)
	}

	return up(m)
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: run: %w", err)
	}
	return nil
}
