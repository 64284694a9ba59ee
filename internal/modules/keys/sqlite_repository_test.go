package keys

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKeyRepository_CreateAndDelete(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()
	value := uuid.New()

	key, err := repo.Create(ctx, value)
	require.NoError(t, err)
	assert.Equal(t, value, key.Value)
	assert.NotZero(t, key.ID)
	assert.Equal(t, 1, countKeys(t, repo))

	deleted, err := repo.DeleteByValue(ctx, value)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, countKeys(t, repo))

	deleted, err = repo.DeleteByValue(ctx, value)
	require.NoError(t, err)
	assert.False(t, deleted, "a key can only be deleted once")
}

func TestSQLiteKeyRepository_DeleteUnknown(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, uuid.New())
	require.NoError(t, err)

	deleted, err := repo.DeleteByValue(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 1, countKeys(t, repo), "unrelated keys must survive")
}

func TestSQLiteKeyRepository_CollisionFailsWithoutOverwrite(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()
	value := uuid.New()

	first, err := repo.Create(ctx, value)
	require.NoError(t, err)

	_, err = repo.Create(ctx, value)
	require.ErrorIs(t, err, ErrKeyCollision)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 1, countKeys(t, repo))

	// the first row is still the one that redeems
	deleted, err := repo.DeleteByValue(ctx, first.Value)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestSQLiteKeyRepository_IDsAreNotReused(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, uuid.New())
	require.NoError(t, err)
	_, err = repo.DeleteByValue(ctx, first.Value)
	require.NoError(t, err)

	second, err := repo.Create(ctx, uuid.New())
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestSQLiteKeyRepository_ConcurrentDeleteSucceedsOnce(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()

	key, err := repo.Create(ctx, uuid.New())
	require.NoError(t, err)

	const callers = 32
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		start     = make(chan struct{})
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			deleted, err := repo.DeleteByValue(ctx, key.Value)
			assert.NoError(t, err)
			if deleted {
				successes.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, 0, countKeys(t, repo))
}

func TestSQLiteKeyRepository_ClosedDatabaseIsUnavailable(t *testing.T) {
	repo := setupSQLiteRepo(t)
	require.NoError(t, repo.db.Close())
	ctx := context.Background()

	_, err := repo.Create(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = repo.DeleteByValue(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.ErrorIs(t, repo.Ping(ctx), ErrStoreUnavailable)
}

func TestIsUniqueViolation(t *testing.T) {
	repo := setupSQLiteRepo(t)
	ctx := context.Background()
	value := uuid.NewString()

	_, err := repo.db.ExecContext(ctx, `INSERT INTO keys (key) VALUES (?)`, value)
	require.NoError(t, err)

	_, err = repo.db.ExecContext(ctx, `INSERT INTO keys (key) VALUES (?)`, value)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	_, err = repo.db.ExecContext(ctx, `INSERT INTO keys (key) VALUES (NULL)`)
	require.Error(t, err)
	assert.False(t, isUniqueViolation(err), "NOT NULL failures are not collisions")
}
