package keys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var _ KeyRepository = (*SQLiteKeyRepository)(nil)

// SQLiteKeyRepository is the embedded implementation of KeyRepository used for
// single-instance deployments and tests. Values are stored in canonical text form
type SQLiteKeyRepository struct {
	db *sql.DB
}

// NewSQLiteKeyRepository creates a new SQLiteKeyRepository
func NewSQLiteKeyRepository(db *sql.DB) *SQLiteKeyRepository {
	return &SQLiteKeyRepository{db: db}
}

// Create inserts value and returns the persisted key. A duplicate value fails
// with ErrKeyCollision
func (r *SQLiteKeyRepository) Create(ctx context.Context, value uuid.UUID) (*Key, error) {
	const query = `INSERT INTO keys (key) VALUES (?) RETURNING id`

	k := Key{Value: value}
	if err := r.db.QueryRowContext(ctx, query, value.String()).Scan(&k.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrKeyCollision
		}
		return nil, fmt.Errorf("failed to insert key: %w: %w", ErrStoreUnavailable, err)
	}
	return &k, nil
}

// DeleteByValue relies on DELETE ... RETURNING being a single statement: SQLite
// takes the write lock for its whole duration, so one caller at most sees the row
func (r *SQLiteKeyRepository) DeleteByValue(ctx context.Context, value uuid.UUID) (bool, error) {
	const query = `DELETE FROM keys WHERE key = ? RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, value.String()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete key: %w: %w", ErrStoreUnavailable, err)
	}
	return true, nil
}

// Ping checks the database handle is usable
func (r *SQLiteKeyRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// isUniqueViolation matches the extended constraint codes only, so NOT NULL or
// CHECK failures stay plain store errors
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
