// Package lock defines the per-key lock port used to serialize reservation
// attempts by the same requester.
package lock

import (
	"context"
	"time"
)

// Locker hands out short-lived exclusive locks by key. TryLock returns a
// token that must be presented to Unlock; a held lock fails fast instead of
// blocking.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
