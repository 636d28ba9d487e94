package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wellmind/support-platform/internal/http/handlers"
	httpmiddleware "github.com/wellmind/support-platform/internal/http/middleware"
	"github.com/wellmind/support-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	BookingHandler      *handlers.BookingHandler
	AppointmentsHandler *handlers.AppointmentsHandler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// SessionJWTSecret signs the session tokens issued at login. Empty
	// disables the protected API surface entirely.
	SessionJWTSecret string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Authenticated API surface
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.SessionJWT(cfg.SessionJWTSecret))
		api.Use(httpmiddleware.RateLimit(10, 30))

		if cfg.BookingHandler != nil {
			api.Get("/booking/slots", cfg.BookingHandler.GetSlots)
			api.Post("/bookings", cfg.BookingHandler.CreateBooking)
			api.Post("/bookings/{id}/cancel", cfg.BookingHandler.CancelBooking)
		}
		if cfg.AppointmentsHandler != nil {
			api.Get("/appointments", cfg.AppointmentsHandler.ListAppointments)
			api.Get("/appointments/dashboard", cfg.AppointmentsHandler.GetDashboard)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
