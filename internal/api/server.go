// Package api exposes the prediction service over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/config"
	"github.com/yourusername/hedge-bets/internal/service"
	"github.com/yourusername/hedge-bets/internal/tracing"
)

const serviceName = "hedge-bets"

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(svc *service.PredictionService, cfg config.ServerConfig, log *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(tracing.Middleware(serviceName))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := corslib.New(corslib.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	r.Use(c.Handler)

	if cfg.RateLimit > 0 {
		r.Use(rateLimit(cfg.RateLimit, cfg.RateBurst))
	}

	h := NewHandler(svc, log)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predictions", h.CreatePrediction)
		r.Get("/predictions", h.ListPredictions)
		r.Get("/predictions/{id}", h.GetPrediction)

		r.Get("/teams", h.ListTeams)
		r.Get("/players", h.ListPlayers)
		r.Get("/actions", h.ListActions)
		r.Get("/context", h.GetContext)
	})

	return r
}

// NewHTTPServer wraps handler with the configured address and timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
