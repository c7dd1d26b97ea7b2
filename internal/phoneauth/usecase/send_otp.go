package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/codelens/internal/phoneauth/entity"
	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
)

type SendOTPInput struct {
	Phone string `validate:"required,phone"`
}

// SendOTP issues a fresh code for a phone that belongs to a profile. A code
// issued earlier for the same phone stops working. Text delivery is best
// effort and never fails the call.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) error {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput("Invalid phone number", err)
	}

	_, err := s.repoProfile.GetProfileByMobileNumber(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp requested for unknown phone", "phone", in.Phone)
		return goerror.NewBusiness("No account found with this phone number", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get profile by mobile number", "phone", in.Phone, "error", err)
		return goerror.NewServer(err)
	}

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	if err := s.repoOTP.UpsertOTP(ctx, entity.OTP{
		ID:          s.uid.Generate(),
		PhoneNumber: in.Phone,
		Code:        code,
		ExpiresAt:   now.Add(s.otpTTL),
		CreatedAt:   now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert otp", "phone", in.Phone, "error", err)
		return goerror.NewUpstream("Failed to create OTP", err)
	}

	s.otpSent.Add(ctx, 1)

	if err := s.repoSMS.SendOTP(ctx, in.Phone, code); err != nil {
		slog.ErrorContext(ctx, "failed to send otp sms", "phone", in.Phone, "error", err)
	}

	return nil
}
