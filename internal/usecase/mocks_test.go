//go:build !integration

package usecase

import (
	"context"
	"sync"
	"time"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/event"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/eventbus"
	"food-rescue-marketplace/internal/domain/ports/repository"
)

// memOfferRepo is a small in-memory implementation used by unit tests.
type memOfferRepo struct {
	mu      sync.RWMutex
	store   map[string]model.Offer
	saveErr error // used by tests to simulate save failures
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{store: make(map[string]model.Offer)}
}

func (m *memOfferRepo) Save(ctx context.Context, tx repository.Tx, o *model.Offer) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	cp.PullEvents() // the store never replays events
	m.store[o.ID] = cp
	return nil
}

func (m *memOfferRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (m *memOfferRepo) FindAvailable(ctx context.Context, tx repository.Tx) ([]*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Offer
	for _, o := range m.store {
		if o.Status == model.OfferStatusAvailable {
			cp := o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOfferRepo) FindByProvider(ctx context.Context, tx repository.Tx, providerID string) ([]*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Offer
	for _, o := range m.store {
		if o.ProviderID == providerID {
			cp := o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOfferRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.OfferStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.OfferStatus]int)
	for _, o := range m.store {
		counts[o.Status]++
	}
	return counts, nil
}

type memReservationRepo struct {
	mu      sync.RWMutex
	store   map[string]model.Reservation
	saveErr error
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{store: make(map[string]model.Reservation)}
}

func (m *memReservationRepo) Save(ctx context.Context, tx repository.Tx, r *model.Reservation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	cp.PullEvents()
	m.store[r.ID] = cp
	return nil
}

func (m *memReservationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (m *memReservationRepo) FindByRequester(ctx context.Context, tx repository.Tx, requesterID string) ([]*model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Reservation
	for _, r := range m.store {
		if r.RequesterID == requesterID {
			cp := r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memReservationRepo) CountActiveByRequester(ctx context.Context, tx repository.Tx, requesterID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.store {
		if r.RequesterID == requesterID && r.Status == model.ReservationStatusActive {
			n++
		}
	}
	return n, nil
}

type memPickupRepo struct {
	mu      sync.RWMutex
	store   map[string]model.Pickup
	saveErr error
}

func newMemPickupRepo() *memPickupRepo {
	return &memPickupRepo{store: make(map[string]model.Pickup)}
}

func (m *memPickupRepo) Save(ctx context.Context, tx repository.Tx, p *model.Pickup) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[p.ID] = *p
	return nil
}

func (m *memPickupRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Pickup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *memPickupRepo) FindByReservation(ctx context.Context, tx repository.Tx, reservationID string) ([]*model.Pickup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Pickup
	for _, p := range m.store {
		if p.ReservationID == reservationID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// recordingBus captures everything published so tests can assert on the
// event stream.
type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Subscribe(string, eventbus.Handler) {}

func (b *recordingBus) Publish(ctx context.Context, evs ...event.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evs...)
}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, ev := range b.events {
		out = append(out, ev.EventName())
	}
	return out
}

// stubLocker counts acquisitions and can be primed to refuse.
type stubLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	locks    int
	unlocks  int
	tryErr   error
	lastKey  string
	lastsTTL time.Duration
}

func newStubLocker() *stubLocker {
	return &stubLocker{held: make(map[string]bool)}
}

func (l *stubLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tryErr != nil {
		return "", l.tryErr
	}
	if l.held[key] {
		return "", domain.ErrLockHeld
	}
	l.held[key] = true
	l.locks++
	l.lastKey = key
	l.lastsTTL = ttl
	return "token-" + key, nil
}

func (l *stubLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.unlocks++
	return nil
}
