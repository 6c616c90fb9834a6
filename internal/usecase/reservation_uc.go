package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/event"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/eventbus"
	"food-rescue-marketplace/internal/domain/ports/lock"
	"food-rescue-marketplace/internal/domain/ports/repository"
	"food-rescue-marketplace/internal/domain/service"
	"food-rescue-marketplace/internal/infra/logging"
	"food-rescue-marketplace/internal/infra/metrics"
)

// ReservationUseCase implements the requester-facing reservation operations.
//
// Reserve creates the Reservation by a direct call in the same execution as
// the offer transition; the OfferReserved event still goes to the dispatcher,
// but only audit/metrics subscribers hang off it. Handler registration order
// can never decide whether a reservation exists.
type ReservationUseCase struct {
	offerRepo repository.OfferRepository
	resRepo   repository.ReservationRepository
	locker    lock.Locker // optional; serializes same-requester reserves
	lockTTL   time.Duration
	maxActive int
	bus       eventbus.Dispatcher
	log       *zerolog.Logger
}

func NewReservationUseCase(
	offerRepo repository.OfferRepository,
	resRepo repository.ReservationRepository,
	locker lock.Locker,
	lockTTL time.Duration,
	maxActivePerUser int,
	bus eventbus.Dispatcher,
	logger *zerolog.Logger,
) *ReservationUseCase {
	if lockTTL <= 0 {
		lockTTL = 5 * time.Second
	}
	return &ReservationUseCase{
		offerRepo: offerRepo,
		resRepo:   resRepo,
		locker:    locker,
		lockTTL:   lockTTL,
		maxActive: maxActivePerUser,
		bus:       bus,
		log:       logger,
	}
}

// Reserve runs the admission policy for the requester, reserves the offer and
// creates the reservation carrying the freshly generated pickup code.
//
// The active-count read and the reserve are two store operations with no
// shared transaction. The optional locker closes the same-requester race
// (two near-at-limit attempts both passing the count check); cross-requester
// races are already resolved by the offer's own available->reserved
// transition having a single winner per key.
func (uc *ReservationUseCase) Reserve(ctx context.Context, offerID, requesterID string) (*model.Reservation, error) {
	defer logging.TraceDuration(uc.log, "ReservationUC.Reserve")()

	if uc.locker != nil {
		token, err := uc.locker.TryLock(ctx, "reserve:user:"+requesterID, uc.lockTTL)
		if err != nil {
			return nil, err
		}
		defer func() { _ = uc.locker.Unlock(ctx, "reserve:user:"+requesterID, token) }()
	}

	offer, err := uc.offerRepo.FindByID(ctx, repository.NoTX, offerID)
	if err != nil {
		return nil, err
	}

	active, err := uc.resRepo.CountActiveByRequester(ctx, repository.NoTX, requesterID)
	if err != nil {
		return nil, err
	}

	code := model.NewPickupCode()
	policy := service.NewAdmissionPolicy(func() int { return active }, uc.maxActive)
	if err := policy.Admit(offer, requesterID, code); err != nil {
		if errors.Is(err, domain.ErrAdmissionLimit) {
			metrics.IncAdmissionRejected()
		}
		return nil, err
	}

	reservation, err := model.NewReservation(newID(), offer.ID, requesterID, code)
	if err != nil {
		return nil, err
	}

	// Two saves, no cross-aggregate transaction: if the reservation save
	// fails after the offer save succeeded, the offer stays reserved and the
	// error is surfaced to the caller.
	if err := uc.offerRepo.Save(ctx, repository.NoTX, offer); err != nil {
		return nil, err
	}
	if err := uc.resRepo.Save(ctx, repository.NoTX, reservation); err != nil {
		return nil, err
	}

	evs := append(offer.PullEvents(), reservation.PullEvents()...)
	uc.bus.Publish(ctx, evs...)
	metrics.IncReservationCreated()

	logging.With(ctx, uc.log).Info().
		Str("offer_id", offer.ID).
		Str("reservation_id", reservation.ID).
		Str("requester_id", requesterID).
		Msg("offer reserved")
	return reservation, nil
}

// Cancel voids an active reservation. The offer keeps its reserved status:
// offer transitions are monotonic, a freed slot is not re-listed.
func (uc *ReservationUseCase) Cancel(ctx context.Context, reservationID string) error {
	reservation, err := uc.resRepo.FindByID(ctx, repository.NoTX, reservationID)
	if err != nil {
		return err
	}
	if err := reservation.Cancel(); err != nil {
		return err
	}
	if err := uc.resRepo.Save(ctx, repository.NoTX, reservation); err != nil {
		return err
	}
	uc.bus.Publish(ctx, reservation.PullEvents()...)
	metrics.IncReservationCancelled()
	logging.With(ctx, uc.log).Info().Str("reservation_id", reservationID).Msg("reservation cancelled")
	return nil
}

func (uc *ReservationUseCase) GetByID(ctx context.Context, reservationID string) (*model.Reservation, error) {
	return uc.resRepo.FindByID(ctx, repository.NoTX, reservationID)
}

// PlannedPickup is the requester's joined view of a reservation with the
// offer details needed to actually show up.
type PlannedPickup struct {
	ReservationID string     `json:"reservation_id"`
	OfferID       string     `json:"offer_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	PickupCode    string     `json:"pickup_code"`
	HeldSeconds   int64      `json:"held_seconds"`
	WindowStart   *time.Time `json:"window_start,omitempty"`
	WindowEnd     *time.Time `json:"window_end,omitempty"`
}

// ListPlannedPickups returns all reservations of a requester joined with
// their offers. A reservation whose offer has vanished is still listed, with
// the offer fields left empty.
func (uc *ReservationUseCase) ListPlannedPickups(ctx context.Context, requesterID string) ([]PlannedPickup, error) {
	reservations, err := uc.resRepo.FindByRequester(ctx, repository.NoTX, requesterID)
	if err != nil {
		return nil, err
	}

	out := make([]PlannedPickup, 0, len(reservations))
	for _, r := range reservations {
		p := PlannedPickup{
			ReservationID: r.ID,
			OfferID:       r.OfferID,
			Status:        string(r.Status),
			PickupCode:    r.Code.String(),
			HeldSeconds:   int64(r.Duration().Seconds()),
		}
		if offer, err := uc.offerRepo.FindByID(ctx, repository.NoTX, r.OfferID); err == nil {
			p.Title = offer.Title
			p.Description = offer.Description
			start, end := offer.Window.Start, offer.Window.End
			p.WindowStart, p.WindowEnd = &start, &end
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// AuditHandler returns the audit subscriber wired to the dispatcher at
// startup: it logs every lifecycle event with its payload.
func AuditHandler(logger *zerolog.Logger) eventbus.Handler {
	return func(ctx context.Context, ev event.Event) {
		logging.With(ctx, logger).Debug().
			Str("event", ev.EventName()).
			Time("occurred_at", ev.OccurredAt()).
			Interface("payload", ev).
			Msg("domain event")
	}
}
