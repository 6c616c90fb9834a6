package memory

import (
	"context"
	"sync"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/repository"
)

var _ repository.PickupRepository = (*PickupRepo)(nil)

type PickupRepo struct {
	mu    sync.RWMutex
	store map[string]model.Pickup
}

func NewPickupRepo() *PickupRepo {
	return &PickupRepo{store: make(map[string]model.Pickup)}
}

func (r *PickupRepo) Save(ctx context.Context, _ repository.Tx, p *model.Pickup) error {
	if p == nil || p.ID == "" {
		return domain.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[p.ID] = *p
	return nil
}

func (r *PickupRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Pickup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *PickupRepo) FindByReservation(ctx context.Context, _ repository.Tx, reservationID string) ([]*model.Pickup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Pickup
	for _, p := range r.store {
		if p.ReservationID == reservationID {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}
