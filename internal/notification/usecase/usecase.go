package usecase

import (
	"context"

	"github.com/shandysiswandi/codelens/internal/pkg/idempotency"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoSMS interface {
	SendOTP(ctx context.Context, phone, code string) error
}

type Usecase struct {
	repoSMS     repoSMS
	idempotency idempotency.Idempotency
	validator   validator.Validator
	ins         instrument.Instrumentation
}

type Dependency struct {
	RepoSMS     repoSMS
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Instrument  instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoSMS:     dep.RepoSMS,
		idempotency: dep.Idempotency,
		validator:   dep.Validator,
		ins:         dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
