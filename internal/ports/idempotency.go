package ports

import (
	"context"
	"time"
)

// IdempotencyStore records idempotency keys so a retried request is not
// executed twice.
type IdempotencyStore interface {
	// Reserve claims key for ttl. It returns false if the key is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees key so the request can be retried.
	Release(ctx context.Context, key string) error
}
