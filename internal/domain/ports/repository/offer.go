package repository

import (
	"context"

	"food-rescue-marketplace/internal/domain/model"
)

// OfferRepository is the keyed store for offers: put/get by id plus the
// domain queries the listing views need.
type OfferRepository interface {
	Save(ctx context.Context, tx Tx, offer *model.Offer) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Offer, error)
	FindAvailable(ctx context.Context, tx Tx) ([]*model.Offer, error)
	FindByProvider(ctx context.Context, tx Tx, providerID string) ([]*model.Offer, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.OfferStatus]int, error)
}
