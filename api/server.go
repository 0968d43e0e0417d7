/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend (optional)

ROUTE GROUPS:
  /api/registrations/*     Sign-up and cancellation lifecycle
  /api/shifts/*            Clock-in/out, corrections, tip flag
  /api/change-requests/*   Admin review of proposed corrections
  /api/users/*             Accounts, enrollment, payout ack
  /api/events/*            Event setup
  /api/reports/*           Timesheet archive download

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// allowedOrigins enables CORS when non-empty.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID"},
			AllowCredentials: true,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Registration routes
		r.Route("/registrations", func(r chi.Router) {
			r.Get("/", h.ListRegistrations)
			r.Post("/", h.CreateRegistration)
			r.Post("/{registrationId}/cancel-request", h.RequestCancel)
			r.Post("/{registrationId}/approve-cancel", h.ApproveCancel)
			r.Post("/{registrationId}/reject-cancel", h.RejectCancel)
			r.Post("/{registrationId}/shift", h.CreateManualShift)
		})

		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.ClockIn)
			r.Put("/{shiftId}", h.ClockOut)
			r.Put("/{shiftId}/edit", h.EditShift)
			r.Put("/{shiftId}/tip", h.ToggleTip)
			r.Post("/{shiftId}/change-request", h.ProposeChange)
		})

		// Change request review routes
		r.Route("/change-requests", func(r chi.Router) {
			r.Post("/{id}/approve", h.ApproveChange)
			r.Post("/{id}/reject", h.RejectChange)
		})

		// User and admin routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Post("/{userId}/registrations", h.AdminCreateRegistration)
			r.Put("/{userId}/tips-received", h.MarkTipsReceived)
		})

		// Event routes
		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.CreateEvent)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/timesheets", h.ExportTimesheets)
		})
	})

	return r
}
