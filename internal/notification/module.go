package notification

import (
	"context"

	"github.com/shandysiswandi/codelens/internal/notification/inbound"
	outsms "github.com/shandysiswandi/codelens/internal/notification/outbound/sms"
	"github.com/shandysiswandi/codelens/internal/notification/usecase"
	"github.com/shandysiswandi/codelens/internal/pkg/config"
	"github.com/shandysiswandi/codelens/internal/pkg/goroutine"
	"github.com/shandysiswandi/codelens/internal/pkg/idempotency"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/messaging"
	"github.com/shandysiswandi/codelens/internal/pkg/sms"
	"github.com/shandysiswandi/codelens/internal/pkg/uid"
	"github.com/shandysiswandi/codelens/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	SMS         sms.Provider               `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.NewNotification(usecase.Dependency{
		RepoSMS:     outsms.New(dep.SMS, dep.Instrument),
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Instrument:  dep.Instrument,
	})

	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
