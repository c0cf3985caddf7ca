package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"payment-gateway-core/config"
	"payment-gateway-core/internal/adapter/cardnetwork"
	httpHandler "payment-gateway-core/internal/adapter/http/handler"
	"payment-gateway-core/internal/adapter/scheduler"
	memoryStorage "payment-gateway-core/internal/adapter/storage/memory"
	pgStorage "payment-gateway-core/internal/adapter/storage/postgres"
	redisStorage "payment-gateway-core/internal/adapter/storage/redis"
	webhookTransport "payment-gateway-core/internal/adapter/transport"
	"payment-gateway-core/internal/admin"
	"payment-gateway-core/internal/auth"
	"payment-gateway-core/internal/core/ports"
	"payment-gateway-core/internal/dispatcher"
	"payment-gateway-core/internal/lifecycle"
	"payment-gateway-core/internal/lock"
	"payment-gateway-core/internal/metrics"
	"payment-gateway-core/internal/ratelimit"
	"payment-gateway-core/internal/webhook"
	"payment-gateway-core/pkg/clockid"
	"payment-gateway-core/pkg/logger"
)

// sweepInterval is how often the background scheduler runs its
// registered cleanup tasks (idle rate-limit entries, expired in-memory
// locks, aged-out idempotency cache entries).
const sweepInterval = 1 * time.Minute

// idempotencyCacheMaxAge bounds how long a lifecycle command's cached
// result is kept for replay; the periodic sweep evicts older entries,
// after which a retried ExternalRequestId is treated as a fresh command.
const idempotencyCacheMaxAge = 10 * time.Minute

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("starting payment gateway")

	ctx := context.Background()
	clock := clockid.RealClock{}
	ids := clockid.UUIDGenerator{}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("postgres connected")

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()
	log.Info().Msg("redis connected")

	paymentRepo := pgStorage.NewPaymentRepo(pool)
	teamRepo := pgStorage.NewTeamRepo(pool)
	webhookAttemptRepo := pgStorage.NewWebhookAttemptRepo(pool)

	rateLimitStore := redisStorage.NewRateLimitStore(rdb)
	webhookNonces := redisStorage.NewNonceStore(rdb)
	webhookIdempotency := redisStorage.NewIdempotencyCache(rdb)

	var lockBackend ports.LockBackend
	var memoryLockBackend *lock.MemoryBackend
	switch cfg.Lock.Backend {
	case "memory":
		memoryLockBackend = lock.NewMemoryBackend(clock)
		lockBackend = memoryLockBackend
	default:
		lockBackend = lock.NewRedisBackend(rdb)
	}
	lockSvc := lock.New(lockBackend, clock)

	metricsSink := metrics.New(prometheus.NewRegistry())

	transport := webhookTransport.NewHTTPWebhookTransport()
	webhookLimiter := ratelimit.New(clock)
	webhookEngine := webhook.New(
		transport,
		teamRepo,
		webhookAttemptRepo,
		webhookLimiter,
		webhookNonces,
		webhookIdempotency,
		ids,
		clock,
		metricsSink,
		log,
		webhook.Config{
			Workers:       cfg.Webhook.Workers,
			QueueCapacity: cfg.Webhook.QueueCapacity,
		},
	)
	webhookEngine.Start()
	defer webhookEngine.Stop()

	cardNetwork := cardnetwork.New(cfg.CardNetwork.Latency)

	lifecycleEngine := lifecycle.New(
		paymentRepo,
		teamRepo,
		lockSvc,
		webhookEngine,
		cardNetwork,
		ids,
		clock,
		metricsSink,
		log,
		lifecycle.Config{
			LockTimeout:       cfg.Lifecycle.LockTimeout,
			ProcessingTimeout: cfg.Lifecycle.ProcessingTimeout,
			GlobalConcurrency: cfg.Lifecycle.GlobalConcurrency,
			MaxRetries:        cfg.Lifecycle.MaxRetries,
		},
	)

	sweeper := scheduler.New()
	defer sweeper.Stop()
	sweeper.Schedule(ctx, sweepInterval, func(ctx context.Context) {
		now := clock.Now()
		webhookLimiter.Sweep(now)
		lifecycleEngine.SweepIdempotencyCache(now, idempotencyCacheMaxAge)
		if memoryLockBackend != nil {
			memoryLockBackend.Sweep(now)
		}
	})

	dispatch := dispatcher.New(
		dispatcher.Options{
			Workers:                       cfg.Dispatcher.Workers,
			QueueCapacity:                 cfg.Dispatcher.QueueCapacity,
			GlobalCapacity:                cfg.Dispatcher.GlobalCapacity,
			PerTenantCapacity:             cfg.Dispatcher.PerTenantCapacity,
			AllowConcurrentTeamProcessing: cfg.Dispatcher.AllowConcurrentTeamProcessing,
			MaxRetries:                    cfg.Dispatcher.MaxRetries,
		},
		clock,
		metricsSink,
		log,
	)
	dispatch.Start()
	defer dispatch.Stop()

	tokenStore := memoryStorage.NewTokenStore()
	authSvc := auth.NewService(teamRepo, tokenStore, clock)
	adminOps := admin.New(paymentRepo, teamRepo, ids, clock, metricsSink, log)

	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("openapi spec loaded for swagger ui at /swagger")
	} else {
		log.Warn().Err(err).Msg("openapi spec not found, swagger ui will be unavailable")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Lifecycle:      lifecycleEngine,
		Dispatcher:     dispatch,
		Auth:           authSvc,
		Admin:          adminOps,
		OperatorSecret: []byte(cfg.Operator.Secret),
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Metrics:        metricsSink,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
