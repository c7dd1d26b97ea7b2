package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
)

type DisableOTPInput struct {
	UserID string `validate:"required"`
}

func (s *Usecase) DisableOTP(ctx context.Context, in DisableOTPInput) error {
	ctx, span := s.startSpan(ctx, "DisableOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput("User ID required", err)
	}

	if err := s.repoProfile.DisableProfileOTP(ctx, in.UserID); err != nil {
		slog.ErrorContext(ctx, "failed to repo disable profile otp", "user_id", in.UserID, "error", err)
		return goerror.NewUpstream("Failed to disable OTP", err)
	}

	return nil
}
