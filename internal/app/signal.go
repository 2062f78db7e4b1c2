package app

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// SignalError is the cancellation cause when a shutdown signal arrives.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return "received " + e.Signal.String()
}

// stopSignals unregisters a channel from signal delivery. Replaced in tests.
var stopSignals = signal.Stop

// SignalContext returns a context cancelled by SIGINT or SIGTERM, with a
// *SignalError as its cause. Only the first signal is caught: a second one
// during a slow shutdown gets the default behaviour and ends the process.
// stop releases the signal handler.
func SignalContext(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case s := <-sigCh:
			stopSignals(sigCh)
			log.Printf("received %v, shutting down", s)
			cancel(&SignalError{Signal: s})
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		stopSignals(sigCh)
		cancel(context.Canceled)
	}
}

// ShutdownReason names why a loop ended: "ERROR" if it returned err,
// otherwise the signal that cancelled ctx, or "UNKNOWN".
func ShutdownReason(ctx context.Context, err error) string {
	if err != nil {
		return "ERROR"
	}
	var se *SignalError
	if errors.As(context.Cause(ctx), &se) {
		switch se.Signal {
		case syscall.SIGINT:
			return "SIGINT"
		case syscall.SIGTERM:
			return "SIGTERM"
		}
	}
	return "UNKNOWN"
}
