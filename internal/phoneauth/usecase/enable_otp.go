package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
)

type EnableOTPInput struct {
	UserID string `validate:"required"`
	Phone  string `validate:"required"`
}

type phoneFormat struct {
	Phone string `validate:"phone"`
}

func (s *Usecase) EnableOTP(ctx context.Context, in EnableOTPInput) error {
	ctx, span := s.startSpan(ctx, "EnableOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput("User ID and phone number required", err)
	}

	if err := s.validator.Validate(phoneFormat{Phone: in.Phone}); err != nil {
		return goerror.NewInvalidInput("Invalid phone number format", err)
	}

	if err := s.repoProfile.EnableProfileOTP(ctx, in.UserID, in.Phone); err != nil {
		slog.ErrorContext(ctx, "failed to repo enable profile otp", "user_id", in.UserID, "phone", in.Phone, "error", err)
		return goerror.NewUpstream("Failed to enable OTP", err)
	}

	return nil
}
