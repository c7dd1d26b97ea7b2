package sms

import (
	"context"

	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/sms"
	"go.opentelemetry.io/otel/codes"
)

type SMS struct {
	provider sms.Provider
	ins      instrument.Instrumentation
}

func New(provider sms.Provider, ins instrument.Instrumentation) *SMS {
	return &SMS{provider: provider, ins: ins}
}

func (s *SMS) SendOTP(ctx context.Context, phone, code string) error {
	ctx, span := s.ins.Tracer("notification.outbound.sms").Start(ctx, "SendOTP")
	defer span.End()

	if err := s.provider.SendOTP(ctx, phone, code); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
