// Package router wires every handler into the chi route tree.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dentassist/dentassist-api/internal/appointments"
	"github.com/dentassist/dentassist-api/internal/booking"
	"github.com/dentassist/dentassist-api/internal/clinic"
	"github.com/dentassist/dentassist-api/internal/doctors"
	httpmiddleware "github.com/dentassist/dentassist-api/internal/http/middleware"
	"github.com/dentassist/dentassist-api/internal/notify"
	"github.com/dentassist/dentassist-api/internal/session"
	"github.com/dentassist/dentassist-api/internal/users"
	"github.com/dentassist/dentassist-api/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	DoctorsHandler      *doctors.Handler
	AppointmentsHandler *appointments.Handler
	BookingHandler      *booking.Handler
	NotifyHandler       *notify.Handler
	IdentityWebhook     *users.WebhookHandler
	StatsHandler        *clinic.StatsHandler
	MetricsHandler      http.Handler

	SessionJWTSecret   string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	SecureCookies      bool
}

// New creates a chi router with all routes configured.
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

	// Public endpoints: health, metrics, the catalog and availability
	// surface the booking page renders before sign-in, and the identity
	// webhook (verified by signature, not by session).
	r.Group(func(public chi.Router) {
		if cfg.RateLimitRPS > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}

		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.DoctorsHandler != nil {
			public.Get("/api/doctors", cfg.DoctorsHandler.ListAvailable)
		}
		if cfg.AppointmentsHandler != nil {
			public.Get("/api/doctors/{doctorID}/slots", cfg.AppointmentsHandler.BookedSlots)
			public.Get("/api/appointment-types", cfg.AppointmentsHandler.Catalog)
		}
		if cfg.IdentityWebhook != nil {
			public.Post("/webhooks/identity", cfg.IdentityWebhook.Handle)
		}
	})

	// Authenticated patient endpoints. The booking wizard additionally
	// needs the booking session cookie.
	if cfg.SessionJWTSecret != "" {
		r.Group(func(authed chi.Router) {
			authed.Use(httpmiddleware.Auth(cfg.SessionJWTSecret))

			if cfg.BookingHandler != nil {
				authed.Route("/api/booking", func(b chi.Router) {
					b.Use(session.BookingSessionCookie(cfg.SecureCookies))
					b.Get("/state", cfg.BookingHandler.State)
					b.Post("/doctor", cfg.BookingHandler.SelectDoctor)
					b.Post("/date", cfg.BookingHandler.SetDate)
					b.Post("/time", cfg.BookingHandler.SetTime)
					b.Post("/type", cfg.BookingHandler.SetType)
					b.Post("/step", cfg.BookingHandler.SetStep)
					b.Post("/confirm", cfg.BookingHandler.Confirm)
					b.Post("/modal", cfg.BookingHandler.DismissConfirmation)
					b.Post("/reset", cfg.BookingHandler.Reset)
				})
			}
			if cfg.AppointmentsHandler != nil {
				authed.Get("/api/appointments", cfg.AppointmentsHandler.ListMine)
			}
			if cfg.NotifyHandler != nil {
				authed.Post("/api/notifications/appointment", cfg.NotifyHandler.SendAppointmentEmail)
			}
		})

		// Admin endpoints.
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.Auth(cfg.SessionJWTSecret))
			admin.Use(httpmiddleware.RequireAdmin)

			if cfg.DoctorsHandler != nil {
				admin.Get("/doctors", cfg.DoctorsHandler.ListAll)
				admin.Post("/doctors", cfg.DoctorsHandler.Create)
				admin.Put("/doctors/{doctorID}", cfg.DoctorsHandler.Update)
				admin.Post("/doctors/avatars/regenerate", cfg.DoctorsHandler.RegenerateAvatars)
			}
			if cfg.AppointmentsHandler != nil {
				admin.Get("/appointments", cfg.AppointmentsHandler.ListAll)
			}
			if cfg.StatsHandler != nil {
				admin.Get("/stats", cfg.StatsHandler.GetStats)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
