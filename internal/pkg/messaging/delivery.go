package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/codelens/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// responded guards a delivery so it is settled at most once.
type responded struct {
	done atomic.Bool
}

// claim reports whether the caller is the first to settle the delivery.
func (r *responded) claim() bool {
	return r.done.CompareAndSwap(false, true)
}

func (r *responded) settled() bool {
	return r.done.Load()
}

type settleable interface {
	Message
	settled() bool
}

// deliver runs handler with panic protection and applies auto-ack.
func deliver(ctx context.Context, driver string, msg settleable, handler Handler, autoAck bool) error {
	herr := safeCall(ctx, driver, func() error { return handler(ctx, msg) })

	if msg.settled() || !autoAck {
		return herr
	}
	if herr == nil {
		return msg.Ack(ctx)
	}
	if err := msg.Nack(ctx); err != nil {
		return fmt.Errorf("messaging: %s nack: %w", driver, err)
	}

	return herr
}

func safeCall(ctx context.Context, driver string, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "panic", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
	}()

	return fn()
}
