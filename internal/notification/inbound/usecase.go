package inbound

import (
	"context"

	"github.com/shandysiswandi/codelens/internal/notification/usecase"
)

type uc interface {
	DeliverOTPSMS(ctx context.Context, in usecase.DeliverOTPSMSInput) error
}
