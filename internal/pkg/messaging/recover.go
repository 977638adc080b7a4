package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/notifyhub/internal/pkg/stacktrace"
)

// deliver runs handler for d, turning a panic into an error, and applies
// auto ack. Only ack/nack failures are returned.
func deliver(ctx context.Context, driver string, handler Handler, d *Delivery, autoAck bool) error {
	herr := callHandlerWithRecover(ctx, driver, func() error { return handler(ctx, d) })
	if !autoAck || d.responded.Load() {
		return nil
	}
	if herr == nil {
		return d.Ack()
	}
	return d.Nack()
}

func callHandlerWithRecover(ctx context.Context, driver string, fn func() error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", stacktrace.InternalPaths(stack))
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}
	}()

	return fn()
}

func logAckError(ctx context.Context, driver, source string, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	slog.WarnContext(ctx, "failed to respond to message", "driver", driver, "source", source, "error", err)
}
