package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/filedrophq/filedrop/internal/handler"
	"github.com/filedrophq/filedrop/internal/middleware"
	"github.com/filedrophq/filedrop/pkg/health"
)

// StoreChecker reports whether the object store is still usable. The
// readiness probe calls it on every poll, so it should stay cheap.
type StoreChecker interface {
	Ping(ctx context.Context) error
}

// NewRouter assembles the HTTP surface: the upload page, the upload
// API, health probes, and the shared middleware chain.
func NewRouter(h *handler.Handler, store StoreChecker, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", h.ShowForm)
	r.Post("/", h.HandleForm)
	r.Post("/api/uploads", h.HandleAPI)

	r.Get("/health/live", health.Liveness())
	r.Get("/health/ready", health.Readiness(health.Checks{
		"storage": store.Ping,
	}, health.WithLogger(log)))

	return r
}
