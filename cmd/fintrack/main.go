package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup finishes first.
func run() int {
	cfg, logger := cli.Bootstrap(log.ComponentApp)

	flush := cli.InitSentry(cfg.SentryDSN, logger)
	defer flush()

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		return 1
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize record source", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		return 1
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Record source cleanup failed", log.FieldError, err)
		}
	}()

	clock := clockwork.NewRealClock()
	store := cache.NewLRUCache[any](cfg.CacheMaxEntries, cfg.CacheTTL, clock)
	sweeper := cache.NewManager(logger)
	sweeper.Register(store)
	if err := sweeper.Start(cfg.CacheSweepSchedule); err != nil {
		logger.Error("Failed to schedule cache sweep", log.FieldError, err)
		return 1
	}
	defer sweeper.Stop()

	engine := analytics.NewEngine(result.Source, store, clock, logger)

	if cfg.AMQPURL != "" {
		consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			return 1
		}
		defer consumer.Close()

		go func() {
			invalidations := worker.NewInvalidationWorker(engine, clock, logger)
			err := consumer.Consume(ctx, invalidations.HandleRecordsChanged)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Records changed consumer stopped", log.FieldError, err)
			}
		}()
	} else {
		logger.Info("AMQP disabled, cache relies on TTL and the invalidate endpoint")
	}

	srv := apphttp.NewServer(":"+cfg.Port, engine, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ping:               apphttp.PingFunc(result.Ping),
		Logger:             logger,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	}()

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		"cache_ttl", cfg.CacheTTL,
		"cache_max_entries", cfg.CacheMaxEntries)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		return 1
	}

	logger.Info("Server stopped gracefully")
	return 0
}
