package keys

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ KeyRepository = (*PostgresKeyRepository)(nil)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// ----- Main struct repository and Querier ----- //

// PostgresKeyRepository is the PostgreSQL implementation of KeyRepository
type PostgresKeyRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresKeyRepository creates a new PostgresKeyRepository
func NewPostgresKeyRepository(pool *pgxpool.Pool) *PostgresKeyRepository {
	return &PostgresKeyRepository{pool: pool}
}

// Querier returns a new Querier instance that uses the repository's connection pool
func (pkr *PostgresKeyRepository) Querier() *Querier {
	return NewQuerier(pkr.pool)
}

// DBQuerier is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx, so the
// query methods below run unchanged in or out of a transaction
type DBQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Querier holds a DBQuerier interface, allowing it to execute SQL queries
type Querier struct {
	db DBQuerier
}

// NewQuerier creates a new Querier
func NewQuerier(db DBQuerier) *Querier {
	return &Querier{db: db}
}

// ----- MODELS ----- //

// keyModel represents a row of the keys table
type keyModel struct {
	ID  int64     `db:"id"`
	Key uuid.UUID `db:"key"`
}

func toKeyDomain(m *keyModel) *Key {
	return &Key{ID: m.ID, Value: m.Key}
}

// ----- Repository Methods ----- //

// Create inserts a new key row. A unique violation on the key column is
// reported as ErrKeyCollision and the existing row is left untouched
func (pkr *PostgresKeyRepository) Create(ctx context.Context, value uuid.UUID) (*Key, error) {
	m, err := pkr.Querier().insertKey(ctx, value)
	if err != nil {
		return nil, err
	}
	return toKeyDomain(m), nil
}

// DeleteByValue removes the key in one DELETE ... RETURNING statement. Postgres
// row locking makes concurrent deletes of the same value serialize; the losers
// re-check the predicate after the winner commits and match nothing
func (pkr *PostgresKeyRepository) DeleteByValue(ctx context.Context, value uuid.UUID) (bool, error) {
	_, err := pkr.Querier().deleteKeyByValue(ctx, value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Ping checks the pool can reach the database
func (pkr *PostgresKeyRepository) Ping(ctx context.Context) error {
	if err := pkr.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// ----- Querier Methods ----- //

// insertKey inserts one row and returns it as persisted
func (q *Querier) insertKey(ctx context.Context, value uuid.UUID) (*keyModel, error) {
	query := `
		INSERT INTO keys (key)
		VALUES ($1)
		RETURNING id, key
	`

	var m keyModel
	err := q.db.QueryRow(ctx, query, value).Scan(&m.ID, &m.Key)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrKeyCollision
		}
		return nil, fmt.Errorf("failed to insert key: %w: %w", ErrStoreUnavailable, err)
	}

	return &m, nil
}

// deleteKeyByValue deletes the row holding value and returns it.
// pgx.ErrNoRows is passed through untouched when nothing matched
func (q *Querier) deleteKeyByValue(ctx context.Context, value uuid.UUID) (*keyModel, error) {
	query := `
		DELETE FROM keys
		WHERE key = $1
		RETURNING id, key
	`

	var m keyModel
	err := q.db.QueryRow(ctx, query, value).Scan(&m.ID, &m.Key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete key: %w: %w", ErrStoreUnavailable, err)
	}

	return &m, nil
}
