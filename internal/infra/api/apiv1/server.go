// Package apiv1 exposes the public JSON API for offers, reservations and
// pickups. Callers identify themselves through the X-User-ID header; there is
// no end-user account system behind it.
package apiv1

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/infra/logging"
	"food-rescue-marketplace/internal/usecase"
)

type Server struct {
	offerUC       *usecase.OfferUseCase
	reservationUC *usecase.ReservationUseCase
	pickupUC      *usecase.PickupUseCase
}

func NewServer(offerUC *usecase.OfferUseCase, reservationUC *usecase.ReservationUseCase, pickupUC *usecase.PickupUseCase) *Server {
	return &Server{offerUC: offerUC, reservationUC: reservationUC, pickupUC: pickupUC}
}

func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/offers", func(r chi.Router) {
			r.Post("/", s.createOffer)
			r.Get("/", s.listAvailableOffers)
			r.Route("/{offerID}", func(r chi.Router) {
				r.Get("/", s.getOffer)
				r.Put("/", s.updateOffer)
				r.Delete("/", s.removeOffer)
				r.Post("/publish", s.publishOffer)
				r.Post("/reservations", s.reserveOffer)
			})
		})
		r.Route("/reservations/{reservationID}", func(r chi.Router) {
			r.Get("/", s.getReservation)
			r.Post("/confirm", s.confirmPickup)
			r.Post("/cancel", s.cancelReservation)
			r.Post("/failure", s.recordPickupFailure)
			r.Get("/pickups", s.listPickups)
		})
		r.Get("/users/{userID}/offers", s.listProviderOffers)
		r.Get("/users/{userID}/pickups", s.listPlannedPickups)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

// ===== request/response shapes =====

type offerCreateRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

type offerUpdateRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

type offerResponse struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"provider_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func toOfferResponse(o *model.Offer) offerResponse {
	return offerResponse{
		ID:          o.ID,
		ProviderID:  o.ProviderID,
		Title:       o.Title,
		Description: o.Description,
		Tags:        o.Tags,
		WindowStart: o.Window.Start,
		WindowEnd:   o.Window.End,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
	}
}

type reservationResponse struct {
	ID          string     `json:"id"`
	OfferID     string     `json:"offer_id"`
	RequesterID string     `json:"requester_id"`
	PickupCode  string     `json:"pickup_code"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func toReservationResponse(res *model.Reservation) reservationResponse {
	return reservationResponse{
		ID:          res.ID,
		OfferID:     res.OfferID,
		RequesterID: res.RequesterID,
		PickupCode:  res.Code.String(),
		Status:      string(res.Status),
		CreatedAt:   res.CreatedAt,
		CompletedAt: res.CompletedAt,
		CancelledAt: res.CancelledAt,
	}
}

type pickupResponse struct {
	ID            string     `json:"id"`
	ReservationID string     `json:"reservation_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func toPickupResponse(p *model.Pickup) pickupResponse {
	return pickupResponse{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		CompletedAt:   p.CompletedAt,
	}
}

// ===== offer handlers =====

func (s *Server) createOffer(w http.ResponseWriter, r *http.Request) {
	providerID := userID(r)
	if providerID == "" {
		http.Error(w, "missing X-User-ID header", http.StatusBadRequest)
		return
	}

	var req offerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	offer, err := s.offerUC.Create(r.Context(), usecase.CreateOfferInput{
		ProviderID:  providerID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOfferResponse(offer))
}

func (s *Server) publishOffer(w http.ResponseWriter, r *http.Request) {
	if err := s.offerUC.Publish(r.Context(), chi.URLParam(r, "offerID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	offer, err := s.offerUC.Update(r.Context(), chi.URLParam(r, "offerID"), usecase.UpdateOfferInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOfferResponse(offer))
}

func (s *Server) removeOffer(w http.ResponseWriter, r *http.Request) {
	if err := s.offerUC.Remove(r.Context(), chi.URLParam(r, "offerID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := s.offerUC.GetByID(r.Context(), chi.URLParam(r, "offerID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOfferResponse(offer))
}

func (s *Server) listAvailableOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.offerUC.ListAvailable(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listProviderOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.offerUC.ListByProvider(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

// ===== reservation handlers =====

func (s *Server) reserveOffer(w http.ResponseWriter, r *http.Request) {
	requesterID := userID(r)
	if requesterID == "" {
		http.Error(w, "missing X-User-ID header", http.StatusBadRequest)
		return
	}

	ctx := logging.WithUserID(r.Context(), requesterID)
	ctx = logging.WithOfferID(ctx, chi.URLParam(r, "offerID"))
	res, err := s.reservationUC.Reserve(ctx, chi.URLParam(r, "offerID"), requesterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReservationResponse(res))
}

func (s *Server) getReservation(w http.ResponseWriter, r *http.Request) {
	res, err := s.reservationUC.GetByID(r.Context(), chi.URLParam(r, "reservationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

func (s *Server) cancelReservation(w http.ResponseWriter, r *http.Request) {
	if err := s.reservationUC.Cancel(r.Context(), chi.URLParam(r, "reservationID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPlannedPickups(w http.ResponseWriter, r *http.Request) {
	planned, err := s.reservationUC.ListPlannedPickups(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planned)
}

// ===== pickup handlers =====

type confirmRequest struct {
	Code string `json:"code"`
}

func (s *Server) confirmPickup(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx := logging.WithReservationID(r.Context(), chi.URLParam(r, "reservationID"))
	p, err := s.pickupUC.Confirm(ctx, chi.URLParam(r, "reservationID"), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPickupResponse(p))
}

func (s *Server) recordPickupFailure(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithReservationID(r.Context(), chi.URLParam(r, "reservationID"))
	p, err := s.pickupUC.RecordFailure(ctx, chi.URLParam(r, "reservationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPickupResponse(p))
}

func (s *Server) listPickups(w http.ResponseWriter, r *http.Request) {
	pickups, err := s.pickupUC.ListByReservation(r.Context(), chi.URLParam(r, "reservationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]pickupResponse, 0, len(pickups))
	for _, p := range pickups {
		out = append(out, toPickupResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// ===== helpers =====

func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrWrongCode),
		errors.Is(err, domain.ErrNotAvailable),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrSelfReservation):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrAdmissionLimit),
		errors.Is(err, domain.ErrLockHeld):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrIncompleteAggregate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
