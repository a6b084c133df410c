package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hiredeck/hiredeck/internal/analytics"
	"github.com/hiredeck/hiredeck/internal/api"
	"github.com/hiredeck/hiredeck/internal/billing"
	"github.com/hiredeck/hiredeck/internal/config"
	"github.com/hiredeck/hiredeck/internal/lifecycle"
	"github.com/hiredeck/hiredeck/internal/logger"
	"github.com/hiredeck/hiredeck/internal/metrics"
	"github.com/hiredeck/hiredeck/internal/notify"
	"github.com/hiredeck/hiredeck/internal/report"
	"github.com/hiredeck/hiredeck/internal/store"
	"github.com/hiredeck/hiredeck/internal/tracing"
	"github.com/hiredeck/hiredeck/internal/window"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Default()

	log.Info("configuration loaded")

	ctx := context.Background()

	if cfg.TracingEnabled {
		shutdownTracing, err := tracing.Init(ctx, &tracing.Config{
			ServiceName:    "api",
			ServiceVersion: "1.0.0",
			Environment:    cfg.Environment,
			OTLPEndpoint:   cfg.TracingEndpoint,
			Enabled:        true,
			SampleRate:     cfg.TraceSampleRate,
		})
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		defer func() { _ = shutdownTracing(ctx) }()
		log.Info("tracing enabled", "endpoint", cfg.TracingEndpoint, "sample_rate", cfg.TraceSampleRate)
	}

	log.Info("connecting to database")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("database connected")

	log.Info("connecting to redis")
	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer func() { _ = redisClient.Close() }()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("redis connected")

	metrics.SetAppInfo("1.0.0", cfg.Environment, "api")

	st := store.NewPostgres(pool)

	emitter := notify.NewStoreEmitter(st, time.Now)
	lifecycleSvc := lifecycle.NewService(st, emitter, logger.WithComponent("lifecycle"))

	engine := analytics.NewService(st, logger.WithComponent("analytics"))
	cache := analytics.NewCache(redisClient, cfg.ReportCacheTTL)
	resolver := window.NewResolver(time.Now)
	assembler := report.NewAssembler(engine, resolver, cache, logger.WithComponent("report"))
	log.Info("reporting services configured")

	var webhookHandler *billing.WebhookHandler
	if cfg.StripeWebhookSecret != "" {
		webhookHandler = billing.NewWebhookHandler(st, cfg.StripeWebhookSecret, logger.WithComponent("billing"))
		log.Info("stripe payment ingestion configured")
	}

	router := api.NewRouter(&api.Config{
		Store:          st,
		Assembler:      assembler,
		Lifecycle:      lifecycleSvc,
		Webhook:        webhookHandler,
		JWTSecret:      cfg.JWTSecret,
		RequestTimeout: cfg.RequestTimeout,
		Pool:           pool,
		RedisClient:    redisClient,
	})

	handler := api.SecurityHeaders(metrics.HTTPMetricsMiddleware(api.Recovery(api.RequestID(api.RequestLogger(router)))))
	if cfg.TracingEnabled {
		handler = tracing.HTTPMiddleware("api")(handler)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	go func() {
		log.Info("server starting", "port", cfg.Port, "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("server stopped")
	}

	return nil
}
