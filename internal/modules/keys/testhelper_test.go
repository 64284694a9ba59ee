package keys

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/Guizzs26/gymkey/internal/platform/migrations"
	"github.com/Guizzs26/gymkey/internal/platform/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// testCredentials is the configured pair used across the package tests.
var testCredentials = Credentials{Username: "admin", Password: "admin"}

// setupSQLiteRepo creates a migrated, named in-memory database private to the test.
func setupSQLiteRepo(t *testing.T) *SQLiteKeyRepository {
	t.Helper()

	conn, err := sqlite.NewMemoryConnection(context.Background(), url.PathEscape(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.RunSQLite(conn.DB))

	return NewSQLiteKeyRepository(conn.DB)
}

// newTestService wires a Service over repo with its own metrics registry.
func newTestService(t *testing.T, repo KeyRepository) (*Service, *Metrics) {
	t.Helper()

	metrics := NewMetrics(prometheus.NewRegistry())
	return NewKeyService(NewCredentialVerifier(testCredentials), repo, metrics), metrics
}

func countKeys(t *testing.T, repo *SQLiteKeyRepository) int {
	t.Helper()

	var n int
	err := repo.db.QueryRowContext(context.Background(), `SELECT count(*) FROM keys`).Scan(&n)
	require.NoError(t, err)
	return n
}

var errBackendDown = errors.New("connection refused")

// failingRepo simulates an unreachable backend.
type failingRepo struct{}

func (failingRepo) Create(context.Context, uuid.UUID) (*Key, error) {
	return nil, errBackendDown
}

func (failingRepo) DeleteByValue(context.Context, uuid.UUID) (bool, error) {
	return false, errBackendDown
}

func (failingRepo) Ping(context.Context) error {
	return errBackendDown
}
