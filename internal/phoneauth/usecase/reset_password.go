package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type ResetPasswordInput struct {
	Token    string `validate:"required"`
	Password string `validate:"required"`
}

func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput("Token and password required", err)
	}

	if err := s.repoIdentity.UpdateCredential(ctx, in.Token, in.Password); err != nil {
		s.passwordReset.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "rejected")))
		slog.ErrorContext(ctx, "failed to update credential", "error", err)
		return goerror.NewUpstream("Failed to reset password", err)
	}

	s.passwordReset.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "ok")))

	return nil
}
