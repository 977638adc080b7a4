package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/notifyhub/internal/pkg/config"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goroutine"
	"github.com/shandysiswandi/notifyhub/internal/pkg/idempotency"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/shandysiswandi/notifyhub/internal/pkg/messaging"
	"github.com/shandysiswandi/notifyhub/internal/pkg/uid"
	"github.com/shandysiswandi/notifyhub/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	idem idempotency.Idempotency,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{
		uc:        uc,
		messenger: messenger,
		idem:      idem,
		uuid:      uuid,
		ins:       ins,
		stateTTL:  cfg.GetSecond("modules.notification.consumer.idempotency_ttl_seconds"),
	}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")
	concurrency := cfg.GetInt("modules.notification.consumer.concurrency")
	if concurrency <= 0 {
		concurrency = 10
	}

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		group   string // nsq channel, nats queue group, kafka group, pubsub subscription
		handler messaging.Handler
	}{
		{
			name:    event.NotificationDestinationConsumerNotification,
			topic:   event.NotificationDestination,
			group:   event.NotificationDestinationConsumerNotification,
			handler: mqHandler.NotificationEvent,
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
					messaging.WithConcurrency(concurrency),
					messaging.WithMaxInFlight(concurrency),
				)
			})
		}
	}
}
