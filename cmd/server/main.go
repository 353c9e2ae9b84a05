package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/gigvora/escrow/internal/adapter/http"
	"github.com/gigvora/escrow/internal/adapter/http/handler"
	"github.com/gigvora/escrow/internal/adapter/http/middleware"
	postgresRepo "github.com/gigvora/escrow/internal/adapter/repository/postgres"
	redisRepo "github.com/gigvora/escrow/internal/adapter/repository/redis"
	"github.com/gigvora/escrow/internal/infrastructure/auth"
	"github.com/gigvora/escrow/internal/infrastructure/config"
	"github.com/gigvora/escrow/internal/infrastructure/eventpublisher"
	"github.com/gigvora/escrow/internal/infrastructure/logger"
	"github.com/gigvora/escrow/internal/infrastructure/metrics"
	"github.com/gigvora/escrow/internal/infrastructure/postgres"
	"github.com/gigvora/escrow/internal/infrastructure/redis"
	"github.com/gigvora/escrow/internal/usecase"
)

// pingAdapter narrows the Redis client to the health probe interface.
type pingAdapter struct {
	client *redislib.Client
}

func (p pingAdapter) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
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

	appMetrics := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	disputeRepo := postgresRepo.NewDisputeRepository(pool)
	activityRepo := postgresRepo.NewActivityRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	overviewUC := usecase.NewOverviewUseCase(accountRepo, transactionRepo, disputeRepo, activityRepo, cache, cfg.OverviewCacheTTL)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, activityRepo, outboxRepo, idGen, appMetrics)
	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, transactionRepo, activityRepo, outboxRepo, idGen, appMetrics)
	disputeUC := usecase.NewDisputeUseCase(txManager, transactionRepo, accountRepo, disputeRepo, activityRepo, outboxRepo, idGen, appMetrics)

	// Outbox publisher drains events to the Redis channel in the background.
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewRedisPublisher(redisClient, cfg.PublisherChannel),
		Logger:     appLogger,
		BatchSize:  cfg.PublisherBatchSize,
		Interval:   cfg.PublisherInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		verifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("authentication enabled")
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		OverviewHandler:    handler.NewOverviewHandler(overviewUC),
		AccountHandler:     handler.NewAccountHandler(accountUC, overviewUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, overviewUC),
		DisputeHandler:     handler.NewDisputeHandler(disputeUC, overviewUC),
		HealthHandler:      handler.NewHealthHandler(pool, pingAdapter{redisClient}),
		TokenVerifier:      verifier,
		IdempotencyStore:   idempotencyStore,
		Metrics:            appMetrics,
		Logger:             appLogger,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
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
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
