//go:build !integration

package memlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-rescue-marketplace/internal/domain"
)

func TestLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquisition is rejected while held", func(t *testing.T) {
		l := New()
		token, err := l.TryLock(ctx, "reserve:user:u1", time.Minute)
		if err != nil {
			t.Fatalf("TryLock: %v", err)
		}
		if _, err := l.TryLock(ctx, "reserve:user:u1", time.Minute); !errors.Is(err, domain.ErrLockHeld) {
			t.Fatalf("expected ErrLockHeld, got %v", err)
		}
		if err := l.Unlock(ctx, "reserve:user:u1", token); err != nil {
			t.Fatalf("Unlock: %v", err)
		}
		if _, err := l.TryLock(ctx, "reserve:user:u1", time.Minute); err != nil {
			t.Fatalf("TryLock after Unlock: %v", err)
		}
	})

	t.Run("different keys do not contend", func(t *testing.T) {
		l := New()
		if _, err := l.TryLock(ctx, "reserve:user:u1", time.Minute); err != nil {
			t.Fatalf("TryLock u1: %v", err)
		}
		if _, err := l.TryLock(ctx, "reserve:user:u2", time.Minute); err != nil {
			t.Fatalf("TryLock u2: %v", err)
		}
	})

	t.Run("unlock with a stale token keeps the lock", func(t *testing.T) {
		l := New()
		if _, err := l.TryLock(ctx, "k", time.Minute); err != nil {
			t.Fatalf("TryLock: %v", err)
		}
		if err := l.Unlock(ctx, "k", "not-the-token"); err != nil {
			t.Fatalf("Unlock: %v", err)
		}
		if _, err := l.TryLock(ctx, "k", time.Minute); !errors.Is(err, domain.ErrLockHeld) {
			t.Fatalf("expected ErrLockHeld, got %v", err)
		}
	})

	t.Run("expired lock can be taken over", func(t *testing.T) {
		l := New()
		if _, err := l.TryLock(ctx, "k", time.Millisecond); err != nil {
			t.Fatalf("TryLock: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if _, err := l.TryLock(ctx, "k", time.Minute); err != nil {
			t.Fatalf("TryLock after expiry: %v", err)
		}
	})
}
