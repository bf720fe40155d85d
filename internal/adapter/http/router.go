package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/teolin/gobank/internal/adapter/http/handler"
	"github.com/teolin/gobank/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	UserHandler        *handler.UserHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	TokenHandler       *handler.TokenHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler
	Auth               *middleware.AuthMiddleware
	Idempotency        *middleware.IdempotencyMiddleware
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Idempotency != nil {
			r.Use(cfg.Idempotency.Wrap)
		}

		// Unauthenticated: registration, token issuance and the ops-facing
		// consistency check
		r.Post("/users", cfg.UserHandler.Register)
		r.Post("/tokens", cfg.TokenHandler.Issue)
		r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)

		// Everything else requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth.Wrap)

			r.Delete("/tokens", cfg.TokenHandler.Revoke)

			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.Get)
				r.Put("/change_email", cfg.UserHandler.ChangeEmail)
				r.Put("/change_password", cfg.UserHandler.ChangePassword)

				r.Route("/accounts", func(r chi.Router) {
					r.Get("/", cfg.AccountHandler.List)
					r.Get("/{num}", cfg.AccountHandler.Get)
					r.Post("/{num}/deposit", cfg.AccountHandler.Deposit)
					r.Post("/{num}/withdraw", cfg.AccountHandler.Withdraw)
					r.Post("/{num}/transfer", cfg.AccountHandler.Transfer)
				})

				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", cfg.TransactionHandler.List)
					r.Get("/{txnID}", cfg.TransactionHandler.Get)
				})
			})
		})
	})

	return r
}
