package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/codelens/internal/pkg/config"
	"github.com/shandysiswandi/codelens/internal/pkg/goroutine"
	"github.com/shandysiswandi/codelens/internal/pkg/instrument"
	"github.com/shandysiswandi/codelens/internal/pkg/messaging"
	"github.com/shandysiswandi/codelens/internal/pkg/uid"
	"github.com/shandysiswandi/codelens/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		group   string // nsq channel, nats queue group, kafka group
		handler messaging.Handler
	}{
		{
			name:    event.PhoneOTPIssuedConsumerSMS,
			topic:   event.PhoneOTPIssuedDestination,
			group:   event.PhoneOTPIssuedConsumerSMS,
			handler: mqHandler.PhoneOTPIssuedSMS,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithGroup(consumer.group),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
