package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/teolin/gobank/internal/adapter/http"
	"github.com/teolin/gobank/internal/adapter/http/handler"
	"github.com/teolin/gobank/internal/adapter/http/middleware"
	postgresRepo "github.com/teolin/gobank/internal/adapter/repository/postgres"
	redisRepo "github.com/teolin/gobank/internal/adapter/repository/redis"
	"github.com/teolin/gobank/internal/infrastructure/auth"
	"github.com/teolin/gobank/internal/infrastructure/config"
	"github.com/teolin/gobank/internal/infrastructure/logger"
	"github.com/teolin/gobank/internal/infrastructure/metrics"
	"github.com/teolin/gobank/internal/infrastructure/postgres"
	"github.com/teolin/gobank/internal/infrastructure/redis"
	"github.com/teolin/gobank/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	revocationStore := redisRepo.NewRevocationStore(redisClient)

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, txnRepo, retrier)
	userUC := usecase.NewUserUseCase(txManager, userRepo, ledgerUC)
	historyUC := usecase.NewHistoryUseCase(accountRepo, txnRepo)
	reconUC := usecase.NewReconciliationUseCase(ledgerRepo)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	appMetrics := metrics.New()

	// Handlers
	userHandler := handler.NewUserHandler(userUC, appMetrics)
	accountHandler := handler.NewAccountHandler(historyUC, ledgerUC, appMetrics)
	transactionHandler := handler.NewTransactionHandler(historyUC)
	tokenHandler := handler.NewTokenHandler(userUC, jwtManager, revocationStore)
	ledgerHandler := handler.NewLedgerHandler(reconUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		UserHandler:        userHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		TokenHandler:       tokenHandler,
		LedgerHandler:      ledgerHandler,
		HealthHandler:      healthHandler,
		Auth:               middleware.NewAuthMiddleware(jwtManager, revocationStore),
		Idempotency:        middleware.NewIdempotencyMiddleware(idempotencyStore, cfg.IdempotencyTTL),
		Logger:             appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
