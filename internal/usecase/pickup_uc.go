package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/event"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/eventbus"
	"food-rescue-marketplace/internal/domain/ports/repository"
	"food-rescue-marketplace/internal/infra/logging"
	"food-rescue-marketplace/internal/infra/metrics"
)

// PickupUseCase drives the final handoff: confirming a reservation with the
// pickup code and recording the outcome.
type PickupUseCase struct {
	offerRepo  repository.OfferRepository
	resRepo    repository.ReservationRepository
	pickupRepo repository.PickupRepository
	bus        eventbus.Dispatcher
	log        *zerolog.Logger
}

func NewPickupUseCase(
	offerRepo repository.OfferRepository,
	resRepo repository.ReservationRepository,
	pickupRepo repository.PickupRepository,
	bus eventbus.Dispatcher,
	logger *zerolog.Logger,
) *PickupUseCase {
	return &PickupUseCase{
		offerRepo:  offerRepo,
		resRepo:    resRepo,
		pickupRepo: pickupRepo,
		bus:        bus,
		log:        logger,
	}
}

// Confirm completes the reservation if the supplied code matches, marks the
// offer picked up and writes a completed Pickup record with a timestamp.
//
// A wrong code fails with ErrWrongCode, leaves the reservation active and
// writes nothing: the requester may simply retry. Callers that want a failed
// attempt on record use RecordFailure instead.
func (uc *PickupUseCase) Confirm(ctx context.Context, reservationID, suppliedCode string) (*model.Pickup, error) {
	defer logging.TraceDuration(uc.log, "PickupUC.Confirm")()

	code, err := model.ParsePickupCode(suppliedCode)
	if err != nil {
		return nil, err
	}

	reservation, err := uc.resRepo.FindByID(ctx, repository.NoTX, reservationID)
	if err != nil {
		return nil, err
	}

	if err := reservation.ConfirmPickup(code); err != nil {
		if errors.Is(err, domain.ErrWrongCode) {
			metrics.IncWrongCodeAttempt()
			logging.With(ctx, uc.log).Warn().Str("reservation_id", reservationID).Msg("pickup confirmation with wrong code")
		}
		return nil, err
	}
	if err := uc.resRepo.Save(ctx, repository.NoTX, reservation); err != nil {
		return nil, err
	}

	// The offer transition rides on the confirmed reservation. The offer may
	// already be removed; that is logged, not fatal, since the handoff itself
	// has happened.
	if offer, err := uc.offerRepo.FindByID(ctx, repository.NoTX, reservation.OfferID); err == nil {
		if err := offer.MarkPickedUp(); err == nil {
			if err := uc.offerRepo.Save(ctx, repository.NoTX, offer); err != nil {
				return nil, err
			}
			metrics.IncOfferPickedUp()
		} else {
			logging.With(ctx, uc.log).Warn().
				Str("offer_id", reservation.OfferID).
				Str("status", string(offer.Status)).
				Msg("offer not transitioned to picked_up")
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	pickup, err := model.NewPickup(newID(), reservation.ID, reservation.Code)
	if err != nil {
		return nil, err
	}
	if err := pickup.Complete(); err != nil {
		return nil, err
	}
	if err := uc.pickupRepo.Save(ctx, repository.NoTX, pickup); err != nil {
		return nil, err
	}

	uc.bus.Publish(ctx, reservation.PullEvents()...)
	metrics.IncPickupCompleted()
	logging.With(ctx, uc.log).Info().
		Str("reservation_id", reservation.ID).
		Str("pickup_id", pickup.ID).
		Msg("pickup completed")
	return pickup, nil
}

// RecordFailure writes a terminal failed Pickup for a reservation, e.g. when
// a provider reports a no-show or gives up on repeated wrong codes. The
// reservation itself is untouched; if still active it can be confirmed or
// cancelled afterwards.
func (uc *PickupUseCase) RecordFailure(ctx context.Context, reservationID string) (*model.Pickup, error) {
	reservation, err := uc.resRepo.FindByID(ctx, repository.NoTX, reservationID)
	if err != nil {
		return nil, err
	}

	pickup, err := model.NewPickup(newID(), reservation.ID, reservation.Code)
	if err != nil {
		return nil, err
	}
	if err := pickup.Fail(); err != nil {
		return nil, err
	}
	if err := uc.pickupRepo.Save(ctx, repository.NoTX, pickup); err != nil {
		return nil, err
	}

	uc.bus.Publish(ctx, event.NewPickupFailed(reservation.ID))
	metrics.IncPickupFailed()
	logging.With(ctx, uc.log).Info().
		Str("reservation_id", reservation.ID).
		Str("pickup_id", pickup.ID).
		Msg("pickup failure recorded")
	return pickup, nil
}

func (uc *PickupUseCase) GetByID(ctx context.Context, pickupID string) (*model.Pickup, error) {
	return uc.pickupRepo.FindByID(ctx, repository.NoTX, pickupID)
}

func (uc *PickupUseCase) ListByReservation(ctx context.Context, reservationID string) ([]*model.Pickup, error) {
	return uc.pickupRepo.FindByReservation(ctx, repository.NoTX, reservationID)
}
