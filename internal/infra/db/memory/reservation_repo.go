package memory

import (
	"context"
	"sync"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

type ReservationRepo struct {
	mu    sync.RWMutex
	store map[string]model.Reservation
}

func NewReservationRepo() *ReservationRepo {
	return &ReservationRepo{store: make(map[string]model.Reservation)}
}

func (r *ReservationRepo) Save(ctx context.Context, _ repository.Tx, res *model.Reservation) error {
	if res == nil || res.ID == "" {
		return domain.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *res
	cp.PullEvents()
	r.store[res.ID] = cp
	return nil
}

func (r *ReservationRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := res
	return &cp, nil
}

func (r *ReservationRepo) FindByRequester(ctx context.Context, _ repository.Tx, requesterID string) ([]*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Reservation
	for _, res := range r.store {
		if res.RequesterID == requesterID {
			cp := res
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ReservationRepo) CountActiveByRequester(ctx context.Context, _ repository.Tx, requesterID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, res := range r.store {
		if res.RequesterID == requesterID && res.Status == model.ReservationStatusActive {
			count++
		}
	}
	return count, nil
}
