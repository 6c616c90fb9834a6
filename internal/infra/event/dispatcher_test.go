//go:build !integration

package event

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	domevent "food-rescue-marketplace/internal/domain/event"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("should deliver to subscribers in registration order", func(t *testing.T) {
		d := NewDispatcher(testLogger())
		var order []string
		d.Subscribe(domevent.NameOfferPublished, func(ctx context.Context, ev domevent.Event) {
			order = append(order, "first")
		})
		d.Subscribe(domevent.NameOfferPublished, func(ctx context.Context, ev domevent.Event) {
			order = append(order, "second")
		})

		d.Publish(ctx, domevent.NewOfferPublished("offer-1"))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("expected delivery in registration order, but got %v", order)
		}
	})

	t.Run("should only deliver matching event names", func(t *testing.T) {
		d := NewDispatcher(testLogger())
		calls := 0
		d.Subscribe(domevent.NameReservationCreated, func(ctx context.Context, ev domevent.Event) {
			calls++
		})

		d.Publish(ctx, domevent.NewOfferPublished("offer-1"))
		if calls != 0 {
			t.Errorf("expected no delivery for other event names, but got %d", calls)
		}

		d.Publish(ctx, domevent.NewReservationCreated("res-1"))
		if calls != 1 {
			t.Errorf("expected 1 delivery, but got %d", calls)
		}
	})

	t.Run("should recover a panicking handler and keep delivering", func(t *testing.T) {
		d := NewDispatcher(testLogger())
		delivered := false
		d.Subscribe(domevent.NameOfferReserved, func(ctx context.Context, ev domevent.Event) {
			panic("boom")
		})
		d.Subscribe(domevent.NameOfferReserved, func(ctx context.Context, ev domevent.Event) {
			delivered = true
		})

		d.Publish(ctx, domevent.NewOfferReserved("offer-1", "user-1", "ABC234"))

		if !delivered {
			t.Error("expected the second handler to run after the first panicked")
		}
	})

	t.Run("should deliver a batch in event order", func(t *testing.T) {
		d := NewDispatcher(testLogger())
		var names []string
		record := func(ctx context.Context, ev domevent.Event) { names = append(names, ev.EventName()) }
		d.Subscribe(domevent.NameOfferPublished, record)
		d.Subscribe(domevent.NameOfferReserved, record)

		d.Publish(ctx,
			domevent.NewOfferPublished("offer-1"),
			domevent.NewOfferReserved("offer-1", "user-1", "ABC234"),
		)

		if len(names) != 2 || names[0] != domevent.NameOfferPublished || names[1] != domevent.NameOfferReserved {
			t.Errorf("expected batch in order, but got %v", names)
		}
	})
}
