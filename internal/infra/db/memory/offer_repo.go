// Package memory provides the in-memory keyed stores. Each store is a map
// guarded by an RWMutex: single-key reads and writes are atomic, nothing
// beyond that. Aggregates are copied on the way in and out so no caller ever
// shares a pointer with the store.
package memory

import (
	"context"
	"sync"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/repository"
)

var _ repository.OfferRepository = (*OfferRepo)(nil)

type OfferRepo struct {
	mu    sync.RWMutex
	store map[string]model.Offer
}

func NewOfferRepo() *OfferRepo {
	return &OfferRepo{store: make(map[string]model.Offer)}
}

func (r *OfferRepo) Save(ctx context.Context, _ repository.Tx, offer *model.Offer) error {
	if offer == nil || offer.ID == "" {
		return domain.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// The store keeps state, not pending events: drain the stored copy so a
	// later load can never re-deliver what the caller already published.
	cp := *offer
	cp.PullEvents()
	r.store[offer.ID] = cp
	return nil
}

func (r *OfferRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (r *OfferRepo) FindAvailable(ctx context.Context, _ repository.Tx) ([]*model.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Offer
	for _, o := range r.store {
		if o.Status == model.OfferStatusAvailable {
			cp := o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *OfferRepo) FindByProvider(ctx context.Context, _ repository.Tx, providerID string) ([]*model.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Offer
	for _, o := range r.store {
		if o.ProviderID == providerID {
			cp := o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *OfferRepo) CountByStatus(ctx context.Context, _ repository.Tx) (map[model.OfferStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[model.OfferStatus]int)
	for _, o := range r.store {
		counts[o.Status]++
	}
	return counts, nil
}
