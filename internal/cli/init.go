// Package cli holds the startup steps shared by cmd/fintrack and cmd/seed.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Bootstrap loads .env (when present) and the environment configuration and
// builds the process logger. A configuration that fails validation exits.
func Bootstrap(component string) (*config.Config, *log.Logger) {
	// Errors are ignored: .env is optional outside local development.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel, component)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// SetupLogger creates the text logger for level and installs it as default.
func SetupLogger(level, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: component,
	})
	log.SetDefault(logger)
	return logger
}

// InitSentry enables error reporting when dsn is set. The returned func
// flushes buffered events and is safe to call when Sentry is disabled.
func InitSentry(dsn string, logger *log.Logger) func() {
	if dsn == "" {
		return func() {}
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		logger.Warn("Sentry initialization failed", log.FieldError, err)
		return func() {}
	}
	logger.Info("Sentry error reporting enabled")
	return func() { sentry.Flush(2 * time.Second) }
}

// InitSQLite opens the SQLite record store at dbPath, logging any failure.
func InitSQLite(logger *log.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath, logger)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "db_path", dbPath)
		return nil, err
	}
	return repo, nil
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM.
func ShutdownContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown started", log.FieldOperation, log.OpShutdown)
	}()
	return ctx, stop
}
