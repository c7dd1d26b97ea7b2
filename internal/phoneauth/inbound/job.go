package inbound

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/codelens/internal/pkg/config"
	"github.com/shandysiswandi/codelens/internal/pkg/goroutine"
)

type purger interface {
	PurgeExpiredOTP(ctx context.Context) (int64, error)
}

// RegisterJob schedules the expired-code sweep. A zero interval disables it.
func RegisterJob(ctx context.Context, cfg config.Config, routine *goroutine.Manager, p purger) {
	interval := cfg.GetSecond("modules.phoneauth.purge_interval_seconds")
	if interval <= 0 {
		slog.InfoContext(ctx, "expired otp purge disabled")
		return
	}

	routine.Every(ctx, "phoneauth.purge_expired_otp", interval, func(ctx context.Context) error {
		_, err := p.PurgeExpiredOTP(ctx)
		return err
	})
}
