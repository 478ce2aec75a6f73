/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the timesheet frontend

ROUTE GROUPS:
  /api/timesheets/{user}/{year}/{month}/*   A user's month
  /api/validate/*                           Stateless validation
  /api/presets/{user}/*                     Custom hours presets
  /api/entry-types                          Type catalogue
  /api/admin/*                              Reviewer overview

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

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
// allowedOrigins configures CORS; nil falls back to the local dev servers.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/timesheets/{user}/{year}/{month}", func(r chi.Router) {
			r.Get("/", h.GetMonth)
			r.Get("/completion", h.GetCompletion)
			r.Put("/entries/{date}", h.SaveEntry)
			r.Delete("/entries/{date}", h.DeleteEntry)
			r.Post("/bulk", h.ApplyBulk)
			r.Post("/submit", h.Submit)
			r.Post("/approve", h.Approve)
			r.Post("/reject", h.Reject)
		})

		r.Route("/validate", func(r chi.Router) {
			r.Post("/entry", h.ValidateEntry)
			r.Post("/bulk", h.ValidateBulk)
		})

		r.Route("/presets/{user}", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Post("/", h.CreatePreset)
			r.Delete("/{id}", h.DeletePreset)
		})

		r.Get("/entry-types", h.ListEntryTypes)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/timesheets/{year}/{month}", h.StatusOverview)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
