//go:build !integration

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"food-rescue-marketplace/internal/infra/db/memory"
	infraevent "food-rescue-marketplace/internal/infra/event"
	"food-rescue-marketplace/internal/usecase"
)

func newTestServer(t *testing.T) (*http.ServeMux, *usecase.OfferUseCase, *usecase.ReservationUseCase) {
	t.Helper()
	log := zerolog.Nop()
	offers := memory.NewOfferRepo()
	reservations := memory.NewReservationRepo()
	bus := infraevent.NewDispatcher(&log)

	offerUC := usecase.NewOfferUseCase(offers, bus, &log)
	reservationUC := usecase.NewReservationUseCase(offers, reservations, nil, time.Second, 3, bus, &log)

	auth := NewAuthManager("test-secret", false, 30*time.Minute)
	srv := NewServer(offerUC, reservationUC, auth, "hunter2", &log)

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	return mux, offerUC, reservationUC
}

func login(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	body := bytes.NewBufferString(`{"password":"hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func seedOffer(t *testing.T, offerUC *usecase.OfferUseCase, publish bool) string {
	t.Helper()
	offer, err := offerUC.Create(context.Background(), usecase.CreateOfferInput{
		ProviderID:  "prov-1",
		Title:       "Crates of apples",
		WindowStart: time.Now().Add(time.Hour),
		WindowEnd:   time.Now().Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	if publish {
		if err := offerUC.Publish(context.Background(), offer.ID); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	return offer.ID
}

func TestLogin(t *testing.T) {
	t.Run("wrong password is rejected", func(t *testing.T) {
		mux, _, _ := newTestServer(t)
		body := bytes.NewBufferString(`{"password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", body)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("login sets the session cookie", func(t *testing.T) {
		mux, _, _ := newTestServer(t)
		body := bytes.NewBufferString(`{"password":"hunter2"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", body)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		found := false
		for _, c := range rec.Result().Cookies() {
			if c.Name == "admin_session" && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Fatalf("no admin_session cookie set")
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		mux, _, _ := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("rejects a garbage bearer token", func(t *testing.T) {
		mux, _, _ := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("counts offers per status", func(t *testing.T) {
		mux, offerUC, _ := newTestServer(t)
		seedOffer(t, offerUC, false)
		seedOffer(t, offerUC, true)
		seedOffer(t, offerUC, true)
		token := login(t, mux)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var resp struct {
			OffersByStatus map[string]int `json:"offers_by_status"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.OffersByStatus["draft"] != 1 || resp.OffersByStatus["available"] != 2 {
			t.Fatalf("unexpected counts: %+v", resp.OffersByStatus)
		}
	})
}

func TestOfferRemoval(t *testing.T) {
	mux, offerUC, _ := newTestServer(t)
	id := seedOffer(t, offerUC, true)
	token := login(t, mux)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/offers/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove: status %d body %s", rec.Code, rec.Body.String())
	}

	got, err := offerUC.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if string(got.Status) != "removed" {
		t.Fatalf("offer status = %q, want removed", got.Status)
	}

	// removing again conflicts, the offer is terminal
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second remove: status = %d, want 409", rec.Code)
	}
}

func TestUserReservations(t *testing.T) {
	mux, offerUC, reservationUC := newTestServer(t)
	id := seedOffer(t, offerUC, true)
	if _, err := reservationUC.Reserve(context.Background(), id, "user-1"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	token := login(t, mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/reservations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var planned []struct {
		OfferID string `json:"offer_id"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&planned); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(planned) != 1 || planned[0].OfferID != id || planned[0].Status != "active" {
		t.Fatalf("unexpected reservations: %+v", planned)
	}

	// an unknown trailing segment is not routed
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/user-1/nope", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListAvailableOffers(t *testing.T) {
	mux, offerUC, _ := newTestServer(t)
	seedOffer(t, offerUC, true)
	token := login(t, mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Crates of apples") {
		t.Fatalf("listed offers missing seeded title: %s", rec.Body.String())
	}
}
