/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/holidays       Holiday calendar
  /api/users/*        Per-user balances, requests, settings
  /api/balances       All-user balances
  /api/statistics     Organization statistics
  /api/requests/*     Pending list and decisions
  /api/policies/*     Policy management
  /api/settings       System settings
  /api/admin/*        Seeding, adjustments, year close

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/holidays", h.ListHolidays)

		r.Get("/balances", h.ListBalances)
		r.Get("/statistics", h.GetStatistics)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/balance", h.GetBalance)
			r.Get("/requests", h.ListUserRequests)
			r.Post("/requests", h.SubmitRequest)
			r.Get("/settings", h.GetUserSettings)
			r.Put("/settings", h.PutUserSettings)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/pending", h.ListPendingRequests)
			r.Post("/{id}/approve", h.ApproveRequest)
			r.Post("/{id}/reject", h.RejectRequest)
			r.Post("/{id}/cancel", h.CancelRequest)
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", h.ListPolicies)
			r.Post("/", h.CreatePolicy)
		})

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)
		r.Delete("/settings/{key}", h.DeleteSetting)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/seed", h.SeedPolicies)
			r.Post("/adjustments", h.CreateAdjustment)
			r.Post("/close-year", h.CloseYear)
			r.Get("/snapshots", h.ListSnapshots)
		})
	})

	return r
}
