// Demo walks one offer through the full lifecycle against in-memory stores:
// create, publish, reserve, a wrong-code attempt, then the real handoff.
package main

import (
	"context"
	"log"
	"time"

	"github.com/rs/zerolog"

	"food-rescue-marketplace/internal/infra/db/memory"
	infraevent "food-rescue-marketplace/internal/infra/event"
	"food-rescue-marketplace/internal/usecase"
)

func main() {
	ctx := context.Background()
	logger := zerolog.New(zerolog.NewConsoleWriter()).Level(zerolog.DebugLevel)

	offers := memory.NewOfferRepo()
	reservations := memory.NewReservationRepo()
	pickups := memory.NewPickupRepo()

	bus := infraevent.NewDispatcher(&logger)
	offerUC := usecase.NewOfferUseCase(offers, bus, &logger)
	reservationUC := usecase.NewReservationUseCase(offers, reservations, nil, time.Second, 3, bus, &logger)
	pickupUC := usecase.NewPickupUseCase(offers, reservations, pickups, bus, &logger)

	// 1. Provider drafts and publishes an offer
	offer, err := offerUC.Create(ctx, usecase.CreateOfferInput{
		ProviderID:  "bakery-17",
		Title:       "Box of day-old pastries",
		Description: "about 20 pieces, pickup at the back door",
		Tags:        []string{"pastry", "vegetarian"},
		WindowStart: time.Now().Add(time.Hour),
		WindowEnd:   time.Now().Add(5 * time.Hour),
	})
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	if err := offerUC.Publish(ctx, offer.ID); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("offer %s published", offer.ID)

	// 2. Requester reserves it and receives the pickup code
	res, err := reservationUC.Reserve(ctx, offer.ID, "neighbor-42")
	if err != nil {
		log.Fatalf("reserve: %v", err)
	}
	log.Printf("reservation %s active, pickup code %s", res.ID, res.Code.String())

	// 3. Someone tries a wrong code at the door
	if _, err := pickupUC.Confirm(ctx, res.ID, "ZZZZ99"); err != nil {
		log.Printf("wrong code rejected as expected: %v", err)
	}

	// 4. The real handoff
	pickup, err := pickupUC.Confirm(ctx, res.ID, res.Code.String())
	if err != nil {
		log.Fatalf("confirm: %v", err)
	}
	log.Printf("pickup %s completed at %s", pickup.ID, pickup.CompletedAt.Format(time.RFC3339))

	final, _ := offerUC.GetByID(ctx, offer.ID)
	log.Printf("offer %s final status: %s", final.ID, final.Status)
}
