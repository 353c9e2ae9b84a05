package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gigvora/escrow/internal/adapter/http/handler"
	"github.com/gigvora/escrow/internal/adapter/http/middleware"
	"github.com/gigvora/escrow/internal/infrastructure/metrics"
	"github.com/gigvora/escrow/internal/usecase"
)

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	OverviewHandler    *handler.OverviewHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	DisputeHandler     *handler.DisputeHandler
	HealthHandler      *handler.HealthHandler

	TokenVerifier    middleware.TokenVerifier
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// NewRouter builds the HTTP routing tree. Probes and the metrics export
// stay outside the authenticated API surface.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	if cfg.RateLimitPerSecond > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, cfg.Metrics)
		r.Use(limiter.Limit)
	}

	r.Get("/healthz", cfg.HealthHandler.Liveness)
	r.Get("/readyz", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		r.Route("/freelancers/{freelancerID}/escrow", func(r chi.Router) {
			if cfg.TokenVerifier != nil {
				r.Use(middleware.NewAuthMiddleware(cfg.TokenVerifier, cfg.Metrics).Wrap)
			}

			r.Get("/overview", cfg.OverviewHandler.Get)

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/{accountID}", cfg.AccountHandler.Get)
				r.Patch("/{accountID}", cfg.AccountHandler.Update)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{transactionID}", cfg.TransactionHandler.Get)
				r.Post("/{transactionID}/release", cfg.TransactionHandler.Release)
				r.Post("/{transactionID}/refund", cfg.TransactionHandler.Refund)
				r.Post("/{transactionID}/disputes", cfg.DisputeHandler.Open)
			})

			r.Route("/disputes", func(r chi.Router) {
				r.Get("/", cfg.DisputeHandler.List)
				r.Get("/{disputeID}", cfg.DisputeHandler.Get)
				r.Post("/{disputeID}/events", cfg.DisputeHandler.AppendEvent)
			})
		})
	})

	return r
}
