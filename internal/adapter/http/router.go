package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/sharefund/internal/adapter/http/handler"
	"github.com/iho/sharefund/internal/adapter/http/middleware"
	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
	"github.com/iho/sharefund/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ProjectHandler        *handler.ProjectHandler
	InvestmentHandler     *handler.InvestmentHandler
	ReconciliationHandler *handler.ReconciliationHandler
	NotificationHandler   *handler.NotificationHandler
	HealthHandler         *handler.HealthHandler

	// TokenVerifier enables bearer authentication; nil leaves the API open.
	TokenVerifier middleware.TokenVerifier
	// RateLimiter throttles purchases per client IP; nil disables it.
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore

	Logger   zerolog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	authenticated := func(r chi.Router) chi.Router { return r }
	admin := func(r chi.Router) chi.Router { return r }
	if cfg.TokenVerifier != nil {
		authenticated = func(r chi.Router) chi.Router {
			return r.With(middleware.AuthMiddleware(cfg.TokenVerifier))
		}
		admin = func(r chi.Router) chi.Router {
			return r.With(middleware.AuthMiddleware(cfg.TokenVerifier), middleware.RequireRole(domain.RoleAdmin))
		}
	}

	// Idempotency runs after auth so keys are scoped to the caller.
	idempotent := func(r chi.Router) chi.Router { return r }
	if cfg.IdempotencyStore != nil {
		idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.Logger, cfg.Metrics)
		idempotent = func(r chi.Router) chi.Router { return r.With(idempotency.Wrap) }
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {

		// Projects
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", cfg.ProjectHandler.List)
			r.Get("/{id}", cfg.ProjectHandler.Get)
			r.Get("/{id}/returns", cfg.ProjectHandler.Returns)
			idempotent(admin(r)).Post("/", cfg.ProjectHandler.Create)
			admin(r).Get("/{id}/investments", cfg.ProjectHandler.Investments)
			if cfg.ReconciliationHandler != nil {
				admin(r).Get("/{id}/reconciliation", cfg.ReconciliationHandler.Project)
			}
		})

		// Investments
		r.Route("/investments", func(r chi.Router) {
			purchase := authenticated(r)
			if cfg.RateLimiter != nil {
				purchase = purchase.With(cfg.RateLimiter.Limit)
			}
			idempotent(purchase).Post("/", cfg.InvestmentHandler.Purchase)

			authenticated(r).Get("/{id}", cfg.InvestmentHandler.Get)
			authenticated(r).Get("/{id}/receipt.png", cfg.InvestmentHandler.Receipt)
			authenticated(r).Get("/{id}/card.png", cfg.InvestmentHandler.Card)
		})

		// Buyers
		r.Route("/buyers/{id}", func(r chi.Router) {
			authenticated(r).Get("/investments", cfg.InvestmentHandler.ListByBuyer)
			authenticated(r).Get("/portfolio", cfg.InvestmentHandler.Portfolio)
			if cfg.NotificationHandler != nil {
				authenticated(r).Get("/notifications", cfg.NotificationHandler.List)
			}
		})

		if cfg.ReconciliationHandler != nil {
			admin(r).Get("/reconciliation/report", cfg.ReconciliationHandler.Report)
		}
	})

	return r
}
