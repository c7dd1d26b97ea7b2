package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shandysiswandi/codelens/internal/notification/usecase"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/messaging"
	"github.com/shandysiswandi/codelens/internal/pkg/uid"
	"github.com/shandysiswandi/codelens/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg messaging.Message) context.Context {
	if cID := msg.Header(keyOfCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) PhoneOTPIssuedSMS(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "PhoneOTPIssuedSMS")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: phone otp issued", "msg_body", string(body))

	var payload event.PhoneOTPIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of phone otp issued", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.DeliverOTPSMS(ctx, usecase.DeliverOTPSMSInput{
		EventID: payload.EventID,
		Phone:   payload.PhoneNumber,
		Code:    payload.Code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to deliver phone otp sms", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
