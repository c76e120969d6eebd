// Package router wires the HTTP surface: public health and metrics plus the
// JWT-protected booking and appointment endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glamora-hn/booking-engine/internal/http/handlers"
	httpmiddleware "github.com/glamora-hn/booking-engine/internal/http/middleware"
	"github.com/glamora-hn/booking-engine/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	BookingHandler      *handlers.BookingHandler
	AppointmentsHandler *handlers.AppointmentsHandler
	MetricsHandler      http.Handler
	UserJWTSecret       string
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

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
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Customer endpoints behind bearer auth
	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.UserJWT(cfg.UserJWTSecret))
		if cfg.BookingHandler != nil {
			private.Group(cfg.BookingHandler.Routes)
		}
		if cfg.AppointmentsHandler != nil {
			private.Group(cfg.AppointmentsHandler.Routes)
		}
	})

	return r
}
