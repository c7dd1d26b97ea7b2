package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyOTPInput struct {
	Phone string `validate:"required"`
	OTP   string `validate:"required"`
}

type otpFormat struct {
	OTP string `validate:"otpcode"`
}

type VerifyOTPOutput struct {
	Token string
}

// VerifyOTP redeems a code and returns a password recovery token. The code is
// consumed before anything else happens, so it works at most once even when a
// later step fails.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput("Phone number and OTP required", err)
	}

	result := "invalid"
	defer func() {
		s.otpVerified.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}()

	if err := s.validator.Validate(otpFormat{OTP: in.OTP}); err != nil {
		return nil, goerror.NewBusiness("Invalid or expired OTP", goerror.CodeInvalidOrExpired)
	}

	if _, err := s.repoOTP.ConsumeOTP(ctx, in.Phone, in.OTP, s.clock.Now()); err != nil {
		if !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo consume otp", "phone", in.Phone, "error", err)
		}
		return nil, goerror.NewBusiness("Invalid or expired OTP", goerror.CodeInvalidOrExpired)
	}

	profile, err := s.repoProfile.GetProfileByMobileNumber(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		result = "no_profile"
		slog.WarnContext(ctx, "otp verified for phone without profile", "phone", in.Phone)
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		result = "error"
		slog.ErrorContext(ctx, "failed to repo get profile by mobile number", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.repoIdentity.GenerateRecoveryToken(ctx, profile.Email)
	if err != nil {
		result = "error"
		slog.ErrorContext(ctx, "failed to generate recovery token", "user_id", profile.ID, "error", err)
		return nil, goerror.NewUpstream("Failed to generate reset token", err)
	}

	result = "ok"

	return &VerifyOTPOutput{Token: token}, nil
}
