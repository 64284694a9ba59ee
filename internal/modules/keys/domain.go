package keys

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrStoreUnavailable is the only failure the key store reports. Callers
	// surface it as an opaque internal error
	ErrStoreUnavailable = errors.New("key store unavailable")

	// ErrKeyCollision means a freshly generated value already exists. It wraps
	// ErrStoreUnavailable: the issuance failed and may be retried as a whole
	ErrKeyCollision = fmt.Errorf("%w: generated key already exists", ErrStoreUnavailable)
)

// Key is an outstanding single-use access key. ID is assigned by the store and
// only addresses the row; Value is what callers hold and redeem
type Key struct {
	ID    int64
	Value uuid.UUID
}

// KeyRepository persists outstanding keys. Both operations are single
// statements, so the database alone arbitrates concurrent callers
type KeyRepository interface {
	// Create inserts value and returns the persisted key. A duplicate value
	// must fail with ErrKeyCollision, never overwrite
	Create(ctx context.Context, value uuid.UUID) (*Key, error)

	// DeleteByValue atomically removes the key holding value and reports
	// whether a row was removed
	DeleteByValue(ctx context.Context, value uuid.UUID) (bool, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error
}
