package sms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shandysiswandi/codelens/internal/pkg/clock"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/messaging"
	"github.com/shandysiswandi/codelens/internal/pkg/sms"
	"github.com/shandysiswandi/codelens/internal/pkg/uid"
	"github.com/shandysiswandi/codelens/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const (
	DispatchDirect = "direct"
	DispatchQueue  = "queue"
)

const keyOfCorrelationID string = "cID"

// Direct texts the code in the request path.
type Direct struct {
	provider sms.Provider
	ins      instrument.Instrumentation
}

func NewDirect(provider sms.Provider, ins instrument.Instrumentation) *Direct {
	return &Direct{provider: provider, ins: ins}
}

func (d *Direct) SendOTP(ctx context.Context, phone, code string) error {
	ctx, span := d.ins.Tracer("phoneauth.outbound.sms").Start(ctx, "SendOTP")
	defer span.End()

	if err := d.provider.SendOTP(ctx, phone, code); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// Queue hands the code to the notification consumer through the broker.
type Queue struct {
	publisher messaging.Publisher
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

func NewQueue(publisher messaging.Publisher, uid uid.NumberID, clock clock.Clocker, ins instrument.Instrumentation) *Queue {
	return &Queue{publisher: publisher, uid: uid, clock: clock, ins: ins}
}

func (q *Queue) SendOTP(ctx context.Context, phone, code string) error {
	ctx, span := q.ins.Tracer("phoneauth.outbound.sms").Start(ctx, "PublishPhoneOTPIssued")
	defer span.End()

	body, err := json.Marshal(event.PhoneOTPIssuedMessage{
		EventID:     q.uid.Generate(),
		PhoneNumber: phone,
		Code:        code,
		IssuedAt:    q.clock.Now(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := q.publisher.Publish(ctx, event.PhoneOTPIssuedDestination, messaging.OutgoingMessage{
		Key:     []byte(phone),
		Body:    body,
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("publish phone otp issued: %w", err)
	}

	return nil
}
