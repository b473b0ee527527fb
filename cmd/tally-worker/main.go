package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/amqp"
	"tally/internal/cli"
	"tally/internal/worker"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		events.Close()
	})

	auditor := worker.NewAuditWriter(cfg.AuditLogPath)
	logger.Info("Audit worker starting",
		"queue", cfg.AMQPQueue, "audit_log", cfg.AuditLogPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return events.ConsumeLedgerEvents(gctx, auditor.Handle)
	})

	if err := exitError(ctx, g.Wait()); err != nil {
		logger.Error("Audit worker stopped with error", "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("Audit worker stopped gracefully")
}

// exitError classifies the consumer result. A cancelled run, or any error
// observed after shutdown began, is a clean stop. Anything else is fatal
// and the process must exit instead of waiting for a signal that may
// never arrive.
func exitError(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}
