package model

import (
	"time"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/event"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a requester's claim on a reserved offer, guarded by the
// pickup code issued when the offer was reserved. It is only ever created in
// reaction to a successful Offer.Reserve, never directly by a caller.
type Reservation struct {
	ID          string
	OfferID     string
	RequesterID string
	Code        PickupCode
	Status      ReservationStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	events []event.Event
}

func NewReservation(id, offerID, requesterID string, code PickupCode) (*Reservation, error) {
	if id == "" || offerID == "" || requesterID == "" || code.IsZero() {
		return nil, domain.ErrIncompleteAggregate
	}
	r := &Reservation{
		ID:          id,
		OfferID:     offerID,
		RequesterID: requesterID,
		Code:        code,
		Status:      ReservationStatusActive,
		CreatedAt:   time.Now(),
	}
	r.events = append(r.events, event.NewReservationCreated(id))
	return r, nil
}

// ConfirmPickup completes the reservation if the supplied code matches the
// stored one. A wrong code fails the call but leaves the reservation active,
// so the requester can retry.
func (r *Reservation) ConfirmPickup(supplied PickupCode) error {
	if r.Status != ReservationStatusActive {
		return domain.ErrInvalidTransition
	}
	if !r.Code.Equals(supplied) {
		return domain.ErrWrongCode
	}
	now := time.Now()
	r.Status = ReservationStatusCompleted
	r.CompletedAt = &now
	r.events = append(r.events, event.NewPickupCompleted(r.ID))
	return nil
}

func (r *Reservation) Cancel() error {
	if r.Status != ReservationStatusActive {
		return domain.ErrInvalidTransition
	}
	now := time.Now()
	r.Status = ReservationStatusCancelled
	r.CancelledAt = &now
	r.events = append(r.events, event.NewReservationCancelled(r.ID))
	return nil
}

func (r *Reservation) IsActive() bool { return r.Status == ReservationStatusActive }

// Duration reports how long the reservation has been (or was) open.
func (r *Reservation) Duration() time.Duration {
	switch r.Status {
	case ReservationStatusCompleted:
		return r.CompletedAt.Sub(r.CreatedAt)
	case ReservationStatusCancelled:
		return r.CancelledAt.Sub(r.CreatedAt)
	default:
		return time.Since(r.CreatedAt)
	}
}

// PullEvents drains accumulated events; see Offer.PullEvents.
func (r *Reservation) PullEvents() []event.Event {
	evs := r.events
	r.events = nil
	return evs
}
