// Package signal ties SIGINT and SIGTERM to context cancellation so an
// in-flight generation stops cleanly and the CLI exits with code 130.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithInterrupt returns a child of parent that is cancelled on SIGINT or
// SIGTERM. onInterrupt, when non-nil, runs before the cancellation. The
// returned cancel function releases the signal registration and must be
// called once the work is done.
//
// Example usage:
//
//	ctx, stop := signal.WithInterrupt(context.Background(), func() {
//	    logging.Warn("Interrupted, stopping generation...")
//	})
//	defer stop()
func WithInterrupt(parent context.Context, onInterrupt func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-sigCh:
			if onInterrupt != nil {
				onInterrupt()
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		cancel()
		<-done
		signal.Stop(sigCh)
	}
}
