// Package service holds stateless domain services that span aggregates.
package service

import (
	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/model"
)

// ActiveCountFunc supplies the number of currently active reservations held
// by one requester, typically backed by the reservation store.
type ActiveCountFunc func() int

// AdmissionPolicy caps how many simultaneous active reservations a requester
// may hold. The count query and the reserve call are two separate steps; see
// the locker in the reservation use case for how concurrent attempts by the
// same requester are serialized.
type AdmissionPolicy struct {
	activeCount ActiveCountFunc
	maxPerUser  int
}

func NewAdmissionPolicy(activeCount ActiveCountFunc, maxPerUser int) *AdmissionPolicy {
	return &AdmissionPolicy{activeCount: activeCount, maxPerUser: maxPerUser}
}

// Admit checks the cap once and, if the requester is under it, delegates to
// Offer.Reserve. On a cap violation nothing is mutated.
func (p *AdmissionPolicy) Admit(offer *model.Offer, requesterID string, code model.PickupCode) error {
	if p.activeCount() >= p.maxPerUser {
		return domain.ErrAdmissionLimit
	}
	return offer.Reserve(requesterID, code)
}
