package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wellmind/support-platform/internal/appointments"
	"github.com/wellmind/support-platform/internal/http/handlers"
	"github.com/wellmind/support-platform/pkg/logging"
)

const testJWTSecret = "router-test-secret"

type emptyFetcher struct{}

func (emptyFetcher) ListUpcoming(context.Context, string) ([]appointments.Appointment, error) {
	return nil, nil
}

func (emptyFetcher) ListPast(context.Context, string) ([]appointments.Appointment, error) {
	return nil, nil
}

type nopStore struct{}

func (nopStore) Insert(context.Context, appointments.NewBooking) (*appointments.Appointment, error) {
	return &appointments.Appointment{}, nil
}

func (nopStore) Cancel(context.Context, string, string) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	svc := appointments.NewService(emptyFetcher{}, nil, nil, logger)

	cfg := &Config{
		Logger:              logger,
		BookingHandler:      handlers.NewBookingHandler(nopStore{}, nil, nil, logger),
		AppointmentsHandler: handlers.NewAppointmentsHandler(svc, logger),
		SessionJWTSecret:    testJWTSecret,
	}

	return New(cfg)
}

func sessionToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterAPIRequiresSession(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/booking/slots"},
		{http.MethodPost, "/api/bookings"},
		{http.MethodPost, "/api/bookings/abc/cancel"},
		{http.MethodGet, "/api/appointments"},
		{http.MethodGet, "/api/appointments/dashboard"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", route.method, route.path, rr.Code)
		}
	}
}

func TestRouterAuthenticatedRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := sessionToken(t, "user-1")

	for _, route := range []string{
		"/api/booking/slots",
		"/api/appointments",
		"/api/appointments/dashboard",
	} {
		req := httptest.NewRequest(http.MethodGet, route, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200 with valid token, got %d", route, rr.Code)
		}
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, "user-1"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
