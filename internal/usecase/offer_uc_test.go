//go:build !integration

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/model"
)

func noplog() *zerolog.Logger { l := zerolog.Nop(); return &l }

func validCreateInput(provider string) CreateOfferInput {
	return CreateOfferInput{
		ProviderID:  provider,
		Title:       "Two crates of apples",
		Description: "slightly bruised, fine for juice",
		Tags:        []string{"fruit"},
		WindowStart: time.Now().Add(time.Hour),
		WindowEnd:   time.Now().Add(4 * time.Hour),
	}
}

func TestOfferCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a draft with a fresh id", func(t *testing.T) {
		repo := newMemOfferRepo()
		bus := &recordingBus{}
		uc := NewOfferUseCase(repo, bus, noplog())

		offer, err := uc.Create(ctx, validCreateInput("prov-1"))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if offer.ID == "" || offer.Status != model.OfferStatusDraft {
			t.Fatalf("unexpected offer: %+v", offer)
		}
		stored, err := repo.FindByID(ctx, nil, offer.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if stored.Title != "Two crates of apples" {
			t.Fatalf("stored title = %q", stored.Title)
		}
		if len(bus.names()) != 0 {
			t.Fatalf("draft creation published events: %v", bus.names())
		}
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		uc := NewOfferUseCase(newMemOfferRepo(), &recordingBus{}, noplog())
		in := validCreateInput("prov-1")
		in.WindowStart, in.WindowEnd = in.WindowEnd, in.WindowStart
		if _, err := uc.Create(ctx, in); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		uc := NewOfferUseCase(newMemOfferRepo(), &recordingBus{}, noplog())
		in := validCreateInput("prov-1")
		in.Title = "   "
		if _, err := uc.Create(ctx, in); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("propagates save failures", func(t *testing.T) {
		repo := newMemOfferRepo()
		repo.saveErr = domain.ErrOperationFailed
		uc := NewOfferUseCase(repo, &recordingBus{}, noplog())
		if _, err := uc.Create(ctx, validCreateInput("prov-1")); !errors.Is(err, domain.ErrOperationFailed) {
			t.Fatalf("expected ErrOperationFailed, got %v", err)
		}
	})
}

func TestOfferPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes the event exactly once", func(t *testing.T) {
		repo := newMemOfferRepo()
		bus := &recordingBus{}
		uc := NewOfferUseCase(repo, bus, noplog())

		offer, err := uc.Create(ctx, validCreateInput("prov-1"))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := uc.Publish(ctx, offer.ID); err != nil {
			t.Fatalf("Publish: %v", err)
		}

		names := bus.names()
		if len(names) != 1 || names[0] != "offer.published" {
			t.Fatalf("events = %v, want [offer.published]", names)
		}

		stored, _ := repo.FindByID(ctx, nil, offer.ID)
		if stored.Status != model.OfferStatusAvailable {
			t.Fatalf("status = %q, want available", stored.Status)
		}
	})

	t.Run("second publish fails and emits nothing", func(t *testing.T) {
		repo := newMemOfferRepo()
		bus := &recordingBus{}
		uc := NewOfferUseCase(repo, bus, noplog())

		offer, _ := uc.Create(ctx, validCreateInput("prov-1"))
		if err := uc.Publish(ctx, offer.ID); err != nil {
			t.Fatalf("first publish: %v", err)
		}
		if err := uc.Publish(ctx, offer.ID); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if len(bus.names()) != 1 {
			t.Fatalf("events = %v, want exactly one", bus.names())
		}
	})

	t.Run("unknown offer", func(t *testing.T) {
		uc := NewOfferUseCase(newMemOfferRepo(), &recordingBus{}, noplog())
		if err := uc.Publish(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("nothing is emitted when the save fails", func(t *testing.T) {
		repo := newMemOfferRepo()
		bus := &recordingBus{}
		uc := NewOfferUseCase(repo, bus, noplog())

		offer, _ := uc.Create(ctx, validCreateInput("prov-1"))
		repo.saveErr = domain.ErrOperationFailed
		if err := uc.Publish(ctx, offer.ID); !errors.Is(err, domain.ErrOperationFailed) {
			t.Fatalf("expected ErrOperationFailed, got %v", err)
		}
		if len(bus.names()) != 0 {
			t.Fatalf("events published despite failed save: %v", bus.names())
		}
	})
}

func TestOfferUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newMemOfferRepo()
	uc := NewOfferUseCase(repo, &recordingBus{}, noplog())

	offer, _ := uc.Create(ctx, validCreateInput("prov-1"))

	updated, err := uc.Update(ctx, offer.ID, UpdateOfferInput{
		Title:       "Three crates of apples",
		Tags:        []string{"fruit", "bulk"},
		WindowStart: time.Now().Add(2 * time.Hour),
		WindowEnd:   time.Now().Add(6 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Three crates of apples" || len(updated.Tags) != 2 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	stored, _ := repo.FindByID(ctx, nil, offer.ID)
	if stored.Title != "Three crates of apples" {
		t.Fatalf("update not persisted: %q", stored.Title)
	}
}

func TestOfferRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removed offers stay in the store", func(t *testing.T) {
		repo := newMemOfferRepo()
		uc := NewOfferUseCase(repo, &recordingBus{}, noplog())
		offer, _ := uc.Create(ctx, validCreateInput("prov-1"))

		if err := uc.Remove(ctx, offer.ID); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		stored, err := repo.FindByID(ctx, nil, offer.ID)
		if err != nil {
			t.Fatalf("FindByID after remove: %v", err)
		}
		if stored.Status != model.OfferStatusRemoved {
			t.Fatalf("status = %q, want removed", stored.Status)
		}
	})

	t.Run("removing twice is an invalid transition", func(t *testing.T) {
		repo := newMemOfferRepo()
		uc := NewOfferUseCase(repo, &recordingBus{}, noplog())
		offer, _ := uc.Create(ctx, validCreateInput("prov-1"))
		_ = uc.Remove(ctx, offer.ID)
		if err := uc.Remove(ctx, offer.ID); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestOfferLists(t *testing.T) {
	ctx := context.Background()
	repo := newMemOfferRepo()
	uc := NewOfferUseCase(repo, &recordingBus{}, noplog())

	a, _ := uc.Create(ctx, validCreateInput("prov-1"))
	_, _ = uc.Create(ctx, validCreateInput("prov-1"))
	b, _ := uc.Create(ctx, validCreateInput("prov-2"))
	_ = uc.Publish(ctx, a.ID)
	_ = uc.Publish(ctx, b.ID)

	available, err := uc.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("available = %d, want 2", len(available))
	}

	mine, err := uc.ListByProvider(ctx, "prov-1")
	if err != nil {
		t.Fatalf("ListByProvider: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("provider offers = %d, want 2", len(mine))
	}

	counts, err := uc.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[model.OfferStatusAvailable] != 2 || counts[model.OfferStatusDraft] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
