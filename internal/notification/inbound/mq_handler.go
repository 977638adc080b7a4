package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/notification/usecase"
	"github.com/shandysiswandi/notifyhub/internal/pkg/idempotency"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/shandysiswandi/notifyhub/internal/pkg/messaging"
	"github.com/shandysiswandi/notifyhub/internal/pkg/uid"
	"github.com/shandysiswandi/notifyhub/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errInvalidEnvelope = errors.New("invalid event envelope")

type MQHandler struct {
	uc        ucConsumer
	messenger messaging.Messaging
	idem      idempotency.Idempotency
	uuid      uid.StringID
	ins       instrument.Instrumentation
	stateTTL  time.Duration
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, d *messaging.Delivery) context.Context {
	if cID := d.Header(event.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// NotificationEvent runs the handler of one envelope. Events that can
// never succeed go to the dead-letter destination and are acked; other
// failures are returned so the broker redelivers.
func (h *MQHandler) NotificationEvent(ctx context.Context, d *messaging.Delivery) error {
	ctx = h.ensureCorrelationID(ctx, d)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "NotificationEvent")
	defer span.End()

	slog.InfoContext(ctx, "consume: notification event", "msg_body", string(d.Body), "attempt", d.Attempt)

	var msg event.NotificationMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of notification event", "msg_body", string(d.Body), "error", err)
		return h.deadLetter(ctx, d, fmt.Errorf("%w: %w", errInvalidEnvelope, err))
	}
	if msg.ID == "" || msg.Type == "" {
		slog.ErrorContext(ctx, "notification event without id or type", "msg_body", string(d.Body))
		return h.deadLetter(ctx, d, fmt.Errorf("%w: id and type are required", errInvalidEnvelope))
	}

	span.SetAttributes(attribute.String("event_id", msg.ID), attribute.String("event_type", msg.Type))

	run := func(ctx context.Context) error {
		return h.uc.RunHandler(ctx, usecase.RunHandlerInput{
			EventID:   msg.ID,
			EventType: entity.EventType(msg.Type),
			Actor: entity.ActorRef{
				UserID:             msg.Actor.UserID,
				IdentityID:         msg.Actor.IdentityID,
				Role:               entity.Role(msg.Actor.Role),
				RoleID:             msg.Actor.RoleID,
				OrganisationID:     msg.Actor.OrganisationID,
				OrganisationUnitID: msg.Actor.OrganisationUnitID,
			},
			Payload: msg.Payload,
		})
	}

	key := "notification:" + msg.ID

	var err error
	if h.idem != nil {
		err = h.idem.Exec(ctx, key, run,
			idempotency.WithStateTTL(h.stateTTL),
			idempotency.WithRetryable(entity.IsRetryable),
		)
	} else {
		err = run(ctx)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.InfoContext(ctx, "notification event already handled", "event_type", msg.Type, "event_id", msg.ID, "state", err.Error())
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "notification event in progress elsewhere", "event_type", msg.Type, "event_id", msg.ID)
		return err
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if !entity.IsRetryable(err) {
		slog.ErrorContext(ctx, "failed to handle notification event, dead-lettering", "event_type", msg.Type, "event_id", msg.ID, "error", err)
		dlErr := h.deadLetter(ctx, d, err)
		if dlErr != nil && h.idem != nil {
			// the failed marker would ack the redelivery before the dead letter is out
			if relErr := h.idem.Release(ctx, key); relErr != nil {
				slog.ErrorContext(ctx, "failed to release idempotency key", "key", key, "error", relErr)
			}
		}
		return dlErr
	}

	slog.ErrorContext(ctx, "failed to handle notification event, redelivering", "event_type", msg.Type, "event_id", msg.ID, "attempt", d.Attempt, "error", err)
	return err
}

// deadLetter acks by returning nil once the copy is published.
func (h *MQHandler) deadLetter(ctx context.Context, d *messaging.Delivery, reason error) error {
	original := json.RawMessage(d.Body)
	if !json.Valid(d.Body) {
		raw, _ := json.Marshal(string(d.Body))
		original = raw
	}

	body, err := json.Marshal(event.NotificationDeadLetter{
		Reason:   reason.Error(),
		Attempt:  d.Attempt,
		Original: original,
		FailedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	err = h.messenger.Publish(ctx, event.NotificationDeadLetterDestination, messaging.Outgoing{
		Key:     d.ID,
		Body:    body,
		Headers: map[string]string{event.HeaderCorrelationID: instrument.GetCorrelationID(ctx)},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish dead letter", "reason", reason.Error(), "error", err)
		return err
	}

	return nil
}
