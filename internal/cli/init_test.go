package cli

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestGracefulShutdownOnSignal(t *testing.T) {
	logger := SetupLogger()

	var (
		ctx  context.Context
		done <-chan struct{}
	)
	cleaned := make(chan struct{})
	var cancelledBeforeCleanup bool
	ctx, done = GracefulShutdown(logger, time.Second, func() {
		cancelledBeforeCleanup = ctx.Err() != nil
		close(cleaned)
	})

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send signal: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled after shutdown signal")
	}

	select {
	case <-cleaned:
	case <-time.After(time.Second):
		t.Fatal("cleanup not invoked")
	}
	if !cancelledBeforeCleanup {
		t.Fatal("context must be cancelled before cleanup runs")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}
