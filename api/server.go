/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the front end

ROUTE GROUPS:
  /api/inputs, /api/settings/*   Settings
  /api/display, /api/tracker/*   Tracking
  /api/celebration(s)            Milestones
  /api/presets/*                 Presets

SECURITY NOTE:
  No authentication. The server is meant to run on localhost for one user.

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
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/inputs", h.GetInputs)
		r.Patch("/inputs", h.UpdateInput)
		r.Get("/display", h.GetDisplay)

		r.Route("/tracker", func(r chi.Router) {
			r.Post("/start", h.StartTracker)
			r.Post("/stop", h.StopTracker)
			r.Post("/reset", h.ResetTracker)
			r.Post("/reinitialize", h.ReinitializeTracker)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/export", h.ExportSettings)
			r.Post("/import", h.ImportSettings)
		})

		r.Get("/celebration", h.GetCelebration)
		r.Delete("/celebration", h.ClearCelebration)
		r.Get("/celebrations", h.ListCelebrations)
		r.Delete("/celebrations", h.ClearCelebrationHistory)

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Post("/load", h.LoadPreset)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Wage Watcher</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Wage Watcher API</h1>
<ul>
<li><a href="/api/display">/api/display</a> - Live earnings</li>
<li><a href="/api/inputs">/api/inputs</a> - Settings</li>
<li><a href="/api/presets">/api/presets</a> - Presets</li>
<li><a href="/api/celebrations">/api/celebrations</a> - Milestones reached</li>
</ul>
</body>
</html>`))
	})

	return r
}
