// Package cli provides common initialization and the interactive command
// dispatch used by cmd/tally and cmd/tally-worker.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tally/internal/amqp"
	"tally/internal/auth"
	"tally/internal/config"
	applog "tally/internal/log"
	"tally/internal/store"
)

// SetupLogger initializes structured logging on stderr, keeping stdout
// free for the interactive shell. The logger is also set as the default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.Config{
		Component: applog.ComponentApp,
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the configured store backend or exits on failure.
func InitStore(logger *applog.Logger, cfg *config.Config) store.Store {
	st, err := store.New(store.BackendType(cfg.StoreBackend), cfg.StorePath)
	if err != nil {
		logger.Error("Failed to initialize store",
			applog.FieldError, err,
			applog.FieldBackend, cfg.StoreBackend,
			applog.FieldPath, cfg.StorePath)
		os.Exit(1)
	}
	return st
}

// InitVerifier picks the credential verifier for the configured scheme.
func InitVerifier(cfg *config.Config) auth.Verifier {
	if cfg.AuthScheme == config.AuthSchemeBcrypt {
		return auth.BcryptVerifier{}
	}
	return auth.PlainVerifier{}
}

// InitEvents connects the optional AMQP event bus. A missing URL or a
// failed connection disables eventing instead of aborting startup.
func InitEvents(logger *applog.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Event bus unavailable, continuing without it", applog.FieldError, err)
		return nil
	}
	return client
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		// Cancel before cleanup so consumers observe the shutdown
		// before their connections are torn down.
		cancel()

		if cleanup != nil {
			cleanup()
		}

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}
