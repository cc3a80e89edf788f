// Package grace ties long-running commands to interrupt signals.
package grace

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

// Signals are the signals that end a command.
func Signals() []os.Signal {
	if runtime.GOOS == "windows" {
		return []os.Signal{os.Interrupt}
	}
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

// NotifyContext returns a context canceled by the first of Signals or by
// stop. Call stop to release the signal handler.
func NotifyContext(parent context.Context, log *slog.Logger) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, Signals()...)

	go func() {
		select {
		case s := <-sig:
			if log != nil {
				log.Info("shutting down", "signal", s.String())
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sig)
	}()

	return ctx, cancel
}
