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
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/people/*        Roster management
  /api/groups/*        Groups
  /api/shifts/*        Shift templates
  /api/demand          Weekday demand template (singleton)
  /api/settings        Workplace defaults (singleton)
  /api/agreements/*    Collective agreements
  /api/schedule/*      Schedule read + generation
  /api/stats/*         Hours, status colors, cost summary
  /api/holidays/{year} Red-day table

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
		// Roster routes
		r.Route("/people", func(r chi.Router) {
			r.Get("/", h.ListPeople)
			r.Post("/", h.CreatePerson)
			r.Get("/{id}", h.GetPerson)
			r.Put("/{id}", h.UpdatePerson)
			r.Delete("/{id}", h.DeletePerson)
			r.Get("/{id}/vacation", h.GetVacation)
		})

		// Group and shift-template routes
		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.ListGroups)
			r.Post("/", h.SaveGroup)
			r.Delete("/{id}", h.DeleteGroup)
		})
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.SaveShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		// Singleton configuration
		r.Get("/demand", h.GetDemand)
		r.Put("/demand", h.SaveDemand)
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.SaveSettings)

		// Agreement routes
		r.Route("/agreements", func(r chi.Router) {
			r.Get("/", h.ListAgreements)
			r.Post("/", h.CreateAgreement)
			r.Get("/{id}", h.GetAgreement)
		})

		// Schedule routes
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Post("/generate", h.GenerateSchedule)
			r.Post("/engine-run", h.EngineRun)
			r.Post("/plan-extra", h.PlanExtra)
		})

		// Stats routes
		r.Route("/stats", func(r chi.Router) {
			r.Get("/month", h.MonthStats)
			r.Get("/year", h.YearStats)
			r.Get("/cost", h.CostStats)
		})

		// Holiday routes
		r.Get("/holidays/{year}", h.ListHolidays)
	})

	return r
}
