package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/codelens/internal/pkg/idempotency"
	"go.opentelemetry.io/otel/codes"
)

// sentTTL outlives any broker redelivery window.
const sentTTL = 24 * time.Hour

type DeliverOTPSMSInput struct {
	EventID int64  `validate:"required,gt=0"`
	Phone   string `validate:"required,phone"`
	Code    string `validate:"required"`
}

// DeliverOTPSMS texts one issued code. A redelivered event whose text already
// went out is a no-op; a provider failure is returned so the broker retries.
func (s *Usecase) DeliverOTPSMS(ctx context.Context, in DeliverOTPSMSInput) error {
	ctx, span := s.startSpan(ctx, "DeliverOTPSMS")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "validation failed", "event_id", in.EventID, "error", err)
		return nil
	}

	key := "phone_otp_sms:" + strconv.FormatInt(in.EventID, 10)
	err := s.idempotency.Exec(ctx, key, func(ctx context.Context) error {
		return s.repoSMS.SendOTP(ctx, in.Phone, in.Code)
	}, idempotency.WithTTL(sentTTL))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrCompleted):
		slog.InfoContext(ctx, "otp sms already delivered", "event_id", in.EventID)
		return nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to deliver otp sms", "event_id", in.EventID, "error", err)
		return err
	}
}
