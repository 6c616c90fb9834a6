package repository

import (
	"context"

	"food-rescue-marketplace/internal/domain/model"
)

type ReservationRepository interface {
	Save(ctx context.Context, tx Tx, r *model.Reservation) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Reservation, error)
	FindByRequester(ctx context.Context, tx Tx, requesterID string) ([]*model.Reservation, error)

	// CountActiveByRequester backs the admission policy: the number of
	// reservations in status active held by this requester right now.
	CountActiveByRequester(ctx context.Context, tx Tx, requesterID string) (int, error)
}
