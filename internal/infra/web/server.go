// Package web is the operator-facing admin surface: marketplace stats and
// offer takedowns behind a JWT session.
package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"food-rescue-marketplace/internal/usecase"
)

type Server struct {
	offerUC       *usecase.OfferUseCase
	reservationUC *usecase.ReservationUseCase
	auth          *AuthManager
	password      string
	log           *zerolog.Logger
}

func NewServer(
	offerUC *usecase.OfferUseCase,
	reservationUC *usecase.ReservationUseCase,
	auth *AuthManager,
	password string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		offerUC:       offerUC,
		reservationUC: reservationUC,
		auth:          auth,
		password:      password,
		log:           logger,
	}
}

// RegisterRoutes sets up the routing for the admin API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/login", s.loginHandler)
	mux.HandleFunc("/api/v1/logout", s.logoutHandler)

	mux.Handle("/api/v1/stats", s.authMiddleware(statsHandler(s.offerUC)))

	offersRouter := s.authMiddleware(s.offersRouter())
	mux.Handle("/api/v1/offers", offersRouter)
	mux.Handle("/api/v1/offers/", offersRouter)

	mux.Handle("/api/v1/users/", s.authMiddleware(s.usersRouter()))
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.password == "" {
		s.log.Error().Msg("admin password is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.password)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// offersRouter acts as a sub-router for /api/v1/offers
func (s *Server) offersRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/offers")
		path = strings.Trim(path, "/")

		if path == "" { // Path is /api/v1/offers
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			offersListHandler(s.offerUC)(w, r)
			return
		}

		// Route /api/v1/offers/{id}
		switch r.Method {
		case http.MethodDelete:
			offerRemoveHandler(s.offerUC, path)(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// usersRouter handles /api/v1/users/{id}/reservations, the operator's view
// of a requester's claims when resolving a dispute.
func (s *Server) usersRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
		userID, rest, _ := strings.Cut(path, "/")
		if userID == "" || rest != "reservations" || r.Method != http.MethodGet {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		userReservationsHandler(s.reservationUC, userID)(w, r)
	})
}
