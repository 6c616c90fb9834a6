package repository

import (
	"context"

	"food-rescue-marketplace/internal/domain/model"
)

type PickupRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Pickup) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Pickup, error)
	FindByReservation(ctx context.Context, tx Tx, reservationID string) ([]*model.Pickup, error)
}
