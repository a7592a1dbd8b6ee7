/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/calc/*       Departure calculations
  /api/plan/*       Overtime planner
  /api/settings     Configuration
  /api/log/*        Logbook

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

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/calc", func(r chi.Router) {
			r.Post("/departure", h.CalcDeparture)
			r.Post("/desired-departure", h.CalcDesiredDeparture)
		})

		r.Route("/plan", func(r chi.Router) {
			r.Post("/daily", h.PlanDaily)
			r.Post("/total", h.PlanTotal)
		})

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)

		r.Route("/log", func(r chi.Router) {
			r.Get("/", h.GetLog)
			r.Post("/", h.SaveDay)
			r.Delete("/", h.ClearLog)
			r.Post("/import", h.ImportLog)
			r.Get("/export", h.ExportLog)
			r.Put("/{id}", h.EditDay)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
