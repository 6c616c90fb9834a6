// Package memlock provides a process-local lock.Locker for single-instance
// deployments that run without Redis.
package memlock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/ports/lock"
)

var _ lock.Locker = (*Locker)(nil)

type entry struct {
	token   string
	expires time.Time
}

type Locker struct {
	mu    sync.Mutex
	locks map[string]entry
}

func New() *Locker {
	return &Locker{locks: make(map[string]entry)}
}

func (l *Locker) TryLock(_ context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if e, ok := l.locks[key]; ok && now.Before(e.expires) {
		return "", domain.ErrLockHeld
	}
	token := uuid.NewString()
	l.locks[key] = entry{token: token, expires: now.Add(ttl)}
	return token, nil
}

func (l *Locker) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.locks[key]; ok && e.token == token {
		delete(l.locks, key)
	}
	return nil
}
