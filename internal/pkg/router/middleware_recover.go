package router

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/codelens/internal/pkg/stacktrace"
)

func logPanic(ctx context.Context, rvr any) {
	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic on the server", "because", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(ctx, "panic on the server", "because", rvr, "stack", string(stack))
}

// middlewareRecoverer turns a handler panic into the generic 500 body.
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:errorlint // sentinel must be re-raised as-is
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			logPanic(r.Context(), rvr)
			writeJSON(w, errorResponse{Error: msgInternal}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
