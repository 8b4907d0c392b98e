// Package http provides HTTP routing and middleware configuration
// for the leaderboard service.
package http

import (
	"net/http"

	"github.com/atinyakov/leaderboard/internal/metrics"
	"github.com/atinyakov/leaderboard/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions carries the non-handler inputs of NewRouter.
type RouterOptions struct {
	// CORSOrigin is the allowed browser origin, or "*".
	CORSOrigin string
	// StaticDir is served at "/" when non-empty.
	StaticDir string
	// Metrics is exposed at /metrics when non-nil.
	Metrics *metrics.Metrics
}

// NewRouter constructs and returns an HTTP handler that serves
// the leaderboard API.
//
// Routes:
//
//	GET  /health                 → Health
//	GET  /metrics                → Prometheus exposition (if enabled)
//	POST /api/scores             → scoreHandler.Submit
//	GET  /api/scores             → scoreHandler.List
//	GET  /api/verify/{hash}      → scoreHandler.Verify
//	POST /api/reset-leaderboard  → scoreHandler.Reset
//	POST /api/check-profanity    → profanityHandler.CheckName
//	GET  /*                      → static files (if enabled)
//
// Middleware chain (applied in order):
//  1. RequestID                  : assigns X-Request-ID
//  2. WithRequestLogging(logger) : logs completed requests
//  3. Recoverer                  : turns panics into 500s
//  4. CORS(opts.CORSOrigin)      : API policy; /health allows any origin
//
// Under /api, AllowContentType("application/json") rejects non-JSON bodies.
func NewRouter(
	scoreHandler *ScoreHandler,
	profanityHandler *ProfanityHandler,
	logger *zap.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(opts.CORSOrigin))

	r.Get(middleware.HealthPath, Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Post("/scores", scoreHandler.Submit)
		r.Get("/scores", scoreHandler.List)
		r.Get("/verify/{hash}", scoreHandler.Verify)
		r.Post("/reset-leaderboard", scoreHandler.Reset)
		r.Post("/check-profanity", profanityHandler.CheckName)
	})

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return r
}
