package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Devyalamaddi/CareConnect/internal/adapters/cache"
	"github.com/Devyalamaddi/CareConnect/internal/adapters/database"
	"github.com/Devyalamaddi/CareConnect/internal/adapters/events"
	"github.com/Devyalamaddi/CareConnect/internal/adapters/notifications"
	"github.com/Devyalamaddi/CareConnect/internal/api/handlers"
	"github.com/Devyalamaddi/CareConnect/internal/api/routes"
	"github.com/Devyalamaddi/CareConnect/internal/application/services"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/clients/postgres"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/clients/redis"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/clients/upstream"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/observability"
	"github.com/Devyalamaddi/CareConnect/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry export is optional; the worker runs without it
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				if err := shutdown(sctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis backs both the cache partitions and the event channels; the
	// worker cannot receive sync triggers or push events without it
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Redis client")
	}
	defer redisClient.Close()
	log.Info().Msg("Redis client initialized")

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure task queue schema")
	}
	log.Info().Msg("PostgreSQL client initialized")

	store := cache.NewRedisPartitionStore(redisClient)
	bus := events.NewRedisMessageBus(redisClient)
	defer bus.Close()
	queue := database.NewTaskQueueAdapter(pgClient)
	fetcher := upstream.NewClient(cfg.Worker.UpstreamOrigin)
	presenter := notifications.NewBusPresenter(bus)
	fallback := services.NewFallbackSynthesizer()

	partitionManager := services.NewPartitionManager(store, fetcher, &cfg.Worker)
	router := services.NewRequestRouter(store, fetcher, fallback, &cfg.Worker, metrics)
	messageService := services.NewMessageService(store, fetcher, bus, &cfg.Worker, metrics)
	syncService := services.NewSyncService(store, queue, fetcher, &cfg.Worker, metrics)
	pushService := services.NewPushService(presenter, presenter)

	worker := services.NewWorker(partitionManager, router, messageService, syncService, pushService, bus)

	// Install: prime the shell atomically. Failure aborts this attempt; the
	// supervisor restarting the process is the install retry.
	if err := worker.Install(ctx); err != nil {
		log.Fatal().Err(err).Msg("install failed, shell partition not primed")
	}
	// Activate: purge partitions from retired generations
	if err := worker.Activate(ctx); err != nil {
		log.Fatal().Err(err).Msg("activate failed, partition reconciliation incomplete")
	}
	log.Info().Str("generation", cfg.Worker.Generation).Msg("worker installed and activated")

	go func() {
		if err := worker.Run(ctx); err != nil {
			log.Error().Err(err).Msg("worker event loop stopped")
			cancel()
		}
	}()

	fetchHandler := handlers.NewFetchHandler(worker)
	messageHandler := handlers.NewMessageHandler(worker, syncService)
	healthHandler := handlers.NewHealthHandler(partitionManager)

	apiRouter := routes.NewRouter(fetchHandler, messageHandler, healthHandler, metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      apiRouter.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("interception server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown error")
	}
}
