// Package api exposes the analysis engine over HTTP: upload a hand-history
// log, get the per-player statistics matrix back. Each request runs its own
// parse + aggregate over its own loaded log; the engine holds no shared
// state.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/pable/go-poker-metrics/internal/config"
	"github.com/pable/go-poker-metrics/internal/storage"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
func NewRouter(db *storage.DB, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5))

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := NewHandler(db, cfg, logger)

	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", h.UploadSession)
		r.Get("/sessions", h.ListSessions)
		r.Get("/sessions/{hash}", h.GetSession)
		r.Get("/sessions/{hash}/matrix.csv", h.GetSessionMatrixCSV)
	})

	return r
}
