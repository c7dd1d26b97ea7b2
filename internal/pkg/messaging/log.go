package messaging

import (
	"context"
	"errors"
	"log/slog"
)

func logHandlerError(ctx context.Context, driver, source string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	slog.WarnContext(ctx, "message handling failed", "driver", driver, "source", source, "error", err)
}
