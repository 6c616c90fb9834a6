package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/eventbus"
	"food-rescue-marketplace/internal/domain/ports/repository"
	"food-rescue-marketplace/internal/infra/logging"
	"food-rescue-marketplace/internal/infra/metrics"
)

// OfferUseCase implements the provider-facing offer operations. Mutation and
// persistence are two explicit steps; domain events are drained from the
// aggregate only after a successful save and then handed to the dispatcher.
type OfferUseCase struct {
	offerRepo repository.OfferRepository
	bus       eventbus.Dispatcher
	log       *zerolog.Logger
}

func NewOfferUseCase(offerRepo repository.OfferRepository, bus eventbus.Dispatcher, logger *zerolog.Logger) *OfferUseCase {
	return &OfferUseCase{offerRepo: offerRepo, bus: bus, log: logger}
}

type CreateOfferInput struct {
	ProviderID  string
	Title       string
	Description string
	Tags        []string
	WindowStart time.Time
	WindowEnd   time.Time
}

// Create stores a new offer in draft. Nothing is visible to requesters until
// Publish.
func (uc *OfferUseCase) Create(ctx context.Context, in CreateOfferInput) (*model.Offer, error) {
	window, err := model.NewPickupWindow(in.WindowStart, in.WindowEnd)
	if err != nil {
		return nil, err
	}
	offer, err := model.NewOffer(newID(), in.ProviderID, in.Title, in.Description, in.Tags, window)
	if err != nil {
		return nil, err
	}
	if err := uc.offerRepo.Save(ctx, repository.NoTX, offer); err != nil {
		return nil, err
	}
	logging.With(ctx, uc.log).Info().Str("offer_id", offer.ID).Str("provider_id", in.ProviderID).Msg("offer created")
	return offer, nil
}

func (uc *OfferUseCase) Publish(ctx context.Context, offerID string) error {
	offer, err := uc.offerRepo.FindByID(ctx, repository.NoTX, offerID)
	if err != nil {
		return err
	}
	if err := offer.Publish(); err != nil {
		return err
	}
	if err := uc.offerRepo.Save(ctx, repository.NoTX, offer); err != nil {
		return err
	}
	uc.bus.Publish(ctx, offer.PullEvents()...)
	metrics.IncOfferPublished()
	logging.With(ctx, uc.log).Info().Str("offer_id", offerID).Msg("offer published")
	return nil
}

type UpdateOfferInput struct {
	Title       string
	Description string
	Tags        []string
	WindowStart time.Time
	WindowEnd   time.Time
}

func (uc *OfferUseCase) Update(ctx context.Context, offerID string, in UpdateOfferInput) (*model.Offer, error) {
	window, err := model.NewPickupWindow(in.WindowStart, in.WindowEnd)
	if err != nil {
		return nil, err
	}
	offer, err := uc.offerRepo.FindByID(ctx, repository.NoTX, offerID)
	if err != nil {
		return nil, err
	}
	if err := offer.Update(in.Title, in.Description, in.Tags, window); err != nil {
		return nil, err
	}
	if err := uc.offerRepo.Save(ctx, repository.NoTX, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// Remove marks the offer removed. Offers are never deleted from the store.
func (uc *OfferUseCase) Remove(ctx context.Context, offerID string) error {
	offer, err := uc.offerRepo.FindByID(ctx, repository.NoTX, offerID)
	if err != nil {
		return err
	}
	if err := offer.Remove(); err != nil {
		return err
	}
	if err := uc.offerRepo.Save(ctx, repository.NoTX, offer); err != nil {
		return err
	}
	metrics.IncOfferRemoved()
	logging.With(ctx, uc.log).Info().Str("offer_id", offerID).Msg("offer removed")
	return nil
}

func (uc *OfferUseCase) GetByID(ctx context.Context, offerID string) (*model.Offer, error) {
	return uc.offerRepo.FindByID(ctx, repository.NoTX, offerID)
}

func (uc *OfferUseCase) ListAvailable(ctx context.Context) ([]*model.Offer, error) {
	return uc.offerRepo.FindAvailable(ctx, repository.NoTX)
}

func (uc *OfferUseCase) ListByProvider(ctx context.Context, providerID string) ([]*model.Offer, error) {
	return uc.offerRepo.FindByProvider(ctx, repository.NoTX, providerID)
}

// CountByStatus backs the admin stats view.
func (uc *OfferUseCase) CountByStatus(ctx context.Context) (map[model.OfferStatus]int, error) {
	return uc.offerRepo.CountByStatus(ctx, repository.NoTX)
}
