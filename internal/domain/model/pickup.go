package model

import (
	"time"

	"food-rescue-marketplace/internal/domain"
)

type PickupStatus string

const (
	PickupStatusPending   PickupStatus = "pending"
	PickupStatusCompleted PickupStatus = "completed"
	PickupStatusFailed    PickupStatus = "failed"
)

// Pickup records the outcome of one handoff attempt for a reservation.
// completed and failed are terminal: a failed attempt is never retried
// through the same Pickup, the caller goes back to the reservation while it
// is still active.
type Pickup struct {
	ID            string
	ReservationID string
	Code          PickupCode
	Status        PickupStatus
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

func NewPickup(id, reservationID string, code PickupCode) (*Pickup, error) {
	if id == "" || reservationID == "" || code.IsZero() {
		return nil, domain.ErrIncompleteAggregate
	}
	return &Pickup{
		ID:            id,
		ReservationID: reservationID,
		Code:          code,
		Status:        PickupStatusPending,
		CreatedAt:     time.Now(),
	}, nil
}

func (p *Pickup) Complete() error {
	if p.Status != PickupStatusPending {
		return domain.ErrInvalidTransition
	}
	now := time.Now()
	p.Status = PickupStatusCompleted
	p.CompletedAt = &now
	return nil
}

func (p *Pickup) Fail() error {
	if p.Status != PickupStatusPending {
		return domain.ErrInvalidTransition
	}
	p.Status = PickupStatusFailed
	return nil
}
