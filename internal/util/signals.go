package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler creates a context that is cancelled on receiving SIGINT or SIGTERM.
// In-flight API calls observe the cancellation through their per-call contexts.
// A second signal forces immediate exit.
func SetupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received interrupt, stopping after in-flight calls", "signal", sig.String())
		cancel()

		sig = <-sigCh
		slog.Warn("received second interrupt, exiting now", "signal", sig.String())
		os.Exit(130)
	}()

	return ctx
}
