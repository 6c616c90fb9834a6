package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/event"
)

type OfferStatus string

const (
	OfferStatusDraft     OfferStatus = "draft"
	OfferStatusAvailable OfferStatus = "available"
	OfferStatusReserved  OfferStatus = "reserved"
	OfferStatusPickedUp  OfferStatus = "picked_up"
	OfferStatusRemoved   OfferStatus = "removed"
)

const maxTitleLength = 100

// Offer is a batch of surplus food a provider puts up for rescue. Status
// moves monotonically along draft -> available -> reserved -> picked_up, with
// removed reachable from every non-terminal status. picked_up and removed are
// terminal. Offers are never deleted, only marked removed.
type Offer struct {
	ID          string
	ProviderID  string
	Title       string
	Description string
	Tags        []string
	Window      PickupWindow
	Status      OfferStatus
	CreatedAt   time.Time

	events []event.Event
}

// NewOffer creates an offer in draft. Title is trimmed and must be 1-100
// characters; description defaults to empty; tags are copied.
func NewOffer(id, providerID, title, description string, tags []string, window PickupWindow) (*Offer, error) {
	if id == "" || providerID == "" || window.IsZero() {
		return nil, domain.ErrIncompleteAggregate
	}
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return nil, domain.ErrInvalidArgument
	}
	return &Offer{
		ID:          id,
		ProviderID:  providerID,
		Title:       title,
		Description: description,
		Tags:        copyTags(tags),
		Window:      window,
		Status:      OfferStatusDraft,
		CreatedAt:   time.Now(),
	}, nil
}

// Publish moves a draft to available. Publishing twice is an error, not a
// no-op.
func (o *Offer) Publish() error {
	if o.Status != OfferStatusDraft {
		return domain.ErrInvalidTransition
	}
	o.Status = OfferStatusAvailable
	o.record(event.NewOfferPublished(o.ID))
	return nil
}

// Reserve claims the offer for a requester. The provider cannot reserve
// their own offer. On success the offer is reserved and an OfferReserved
// event carrying the code is recorded.
func (o *Offer) Reserve(requesterID string, code PickupCode) error {
	if requesterID == "" || code.IsZero() {
		return domain.ErrInvalidArgument
	}
	if o.Status != OfferStatusAvailable {
		return domain.ErrNotAvailable
	}
	if requesterID == o.ProviderID {
		return domain.ErrSelfReservation
	}
	o.Status = OfferStatusReserved
	o.record(event.NewOfferReserved(o.ID, requesterID, code.String()))
	return nil
}

func (o *Offer) MarkPickedUp() error {
	if o.Status != OfferStatusReserved {
		return domain.ErrInvalidTransition
	}
	o.Status = OfferStatusPickedUp
	return nil
}

// Remove marks the offer removed from any non-terminal status. A picked-up
// offer is history and cannot be removed.
func (o *Offer) Remove() error {
	switch o.Status {
	case OfferStatusDraft, OfferStatusAvailable, OfferStatusReserved:
		o.Status = OfferStatusRemoved
		return nil
	default:
		return domain.ErrInvalidTransition
	}
}

// Update replaces the editable fields. Only permitted while the offer is
// still a draft or available; fields are re-validated as at construction.
func (o *Offer) Update(title, description string, tags []string, window PickupWindow) error {
	if o.Status != OfferStatusDraft && o.Status != OfferStatusAvailable {
		return domain.ErrInvalidTransition
	}
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return domain.ErrInvalidArgument
	}
	if window.IsZero() {
		return domain.ErrInvalidArgument
	}
	o.Title = title
	o.Description = description
	o.Tags = copyTags(tags)
	o.Window = window
	return nil
}

func (o *Offer) record(ev event.Event) {
	o.events = append(o.events, ev)
}

// PullEvents drains the accumulated events. The caller publishes them after
// a successful save; a second call returns nothing, so saved events are never
// re-delivered.
func (o *Offer) PullEvents() []event.Event {
	evs := o.events
	o.events = nil
	return evs
}

func copyTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	cp := make([]string, len(tags))
	copy(cp, tags)
	return cp
}
