package usecase

import (
	"context"
	"log/slog"
)

// PurgeExpiredOTP drops codes that can no longer be redeemed and reports how many went.
func (s *Usecase) PurgeExpiredOTP(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "PurgeExpiredOTP")
	defer span.End()

	n, err := s.repoOTP.DeleteExpiredOTP(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired otp", "error", err)
		return 0, err
	}

	if n > 0 {
		slog.InfoContext(ctx, "purged expired otp", "count", n)
	}

	return n, nil
}
