// Package event defines the domain events emitted by the offer, reservation
// and pickup aggregates. Events are accumulated on the aggregate, drained by
// the caller after a successful save and handed to the dispatcher once.
package event

import "time"

// Event names, used as dispatcher subscription keys.
const (
	NameOfferPublished       = "offer.published"
	NameOfferReserved        = "offer.reserved"
	NameReservationCreated   = "reservation.created"
	NameReservationCancelled = "reservation.cancelled"
	NamePickupCompleted      = "pickup.completed"
	NamePickupFailed         = "pickup.failed"
)

type Event interface {
	EventName() string
	OccurredAt() time.Time
}

type base struct {
	At time.Time
}

func (b base) OccurredAt() time.Time { return b.At }

func now() base { return base{At: time.Now()} }

type OfferPublished struct {
	base
	OfferID string
}

func NewOfferPublished(offerID string) OfferPublished {
	return OfferPublished{base: now(), OfferID: offerID}
}

func (OfferPublished) EventName() string { return NameOfferPublished }

// OfferReserved carries the generated pickup code so the reservation side can
// store the same code the requester was issued.
type OfferReserved struct {
	base
	OfferID     string
	RequesterID string
	PickupCode  string
}

func NewOfferReserved(offerID, requesterID, code string) OfferReserved {
	return OfferReserved{base: now(), OfferID: offerID, RequesterID: requesterID, PickupCode: code}
}

func (OfferReserved) EventName() string { return NameOfferReserved }

type ReservationCreated struct {
	base
	ReservationID string
}

func NewReservationCreated(reservationID string) ReservationCreated {
	return ReservationCreated{base: now(), ReservationID: reservationID}
}

func (ReservationCreated) EventName() string { return NameReservationCreated }

type ReservationCancelled struct {
	base
	ReservationID string
}

func NewReservationCancelled(reservationID string) ReservationCancelled {
	return ReservationCancelled{base: now(), ReservationID: reservationID}
}

func (ReservationCancelled) EventName() string { return NameReservationCancelled }

type PickupCompleted struct {
	base
	ReservationID string
}

func NewPickupCompleted(reservationID string) PickupCompleted {
	return PickupCompleted{base: now(), ReservationID: reservationID}
}

func (PickupCompleted) EventName() string { return NamePickupCompleted }

type PickupFailed struct {
	base
	ReservationID string
}

func NewPickupFailed(reservationID string) PickupFailed {
	return PickupFailed{base: now(), ReservationID: reservationID}
}

func (PickupFailed) EventName() string { return NamePickupFailed }
