package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/usecase"
)

// statsHandler returns an http.HandlerFunc serving offer counts per status.
func statsHandler(offerUC *usecase.OfferUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := offerUC.CountByStatus(r.Context())
		if err != nil {
			http.Error(w, "Failed to get stats", http.StatusInternalServerError)
			return
		}

		out := make(map[string]int, len(counts))
		for status, n := range counts {
			out[string(status)] = n
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"offers_by_status": out})
	}
}

// offersListHandler lists the currently available offers for the operator.
func offersListHandler(offerUC *usecase.OfferUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offers, err := offerUC.ListAvailable(r.Context())
		if err != nil {
			http.Error(w, "Failed to list offers", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(offers)
	}
}

// userReservationsHandler lists a requester's reservations joined with their
// offers.
func userReservationsHandler(reservationUC *usecase.ReservationUseCase, userID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planned, err := reservationUC.ListPlannedPickups(r.Context(), userID)
		if err != nil {
			http.Error(w, "Failed to list reservations", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(planned)
	}
}

// offerRemoveHandler takes an offer off the marketplace, e.g. after a
// provider complaint. Terminal offers cannot be removed.
func offerRemoveHandler(offerUC *usecase.OfferUseCase, offerID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := offerUC.Remove(r.Context(), offerID); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				http.Error(w, "Offer not found", http.StatusNotFound)
			case errors.Is(err, domain.ErrInvalidTransition):
				http.Error(w, "Offer is already finished", http.StatusConflict)
			default:
				http.Error(w, "Failed to remove offer", http.StatusInternalServerError)
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
