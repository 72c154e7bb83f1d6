// Package httpapi exposes the read-mostly HTTP dashboard described in
// spec.md §6, built on github.com/go-chi/chi/v5 the way the pack's
// rezkam-mono example builds its own router.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// chiURLParam reads a chi route parameter; kept as a thin wrapper so
// handlers.go doesn't need to import chi directly.
func chiURLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// NewRouter builds the dashboard's chi.Mux: spec.md's five routes plus
// the supplemented /api/health.
func NewRouter(server *Server) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", server.handleStats)
		r.Get("/jobs", server.handleListJobs)
		r.Get("/metrics", server.handleMetrics)
		r.Post("/enqueue", server.handleEnqueue)
		r.Post("/retry/{id}", server.handleRetry)
		r.Get("/health", server.handleWorkerHealth)
	})

	return r
}
