package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/notification/handler"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type RunHandlerInput struct {
	EventID   string
	EventType entity.EventType
	Actor     entity.ActorRef
	Payload   json.RawMessage
}

// RunHandler decodes the payload of one event, runs its policy and executes
// the resulting intents. Emails go out first in the order the policy
// produced them; each in-app intent is then persisted in its own
// transaction, keyed by event id and intent position so a redelivered event
// only stores the intents that did not commit before. A failed email is
// logged and counted but does not fail the event.
func (s *Usecase) RunHandler(ctx context.Context, in RunHandlerInput) (err error) {
	ctx, span := s.startSpan(ctx, "RunHandler")
	span.SetAttributes(attribute.String("event_type", in.EventType.String()), attribute.String("event_id", in.EventID))
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
			span.SetStatus(codes.Error, err.Error())
		}
		s.eventsProcessed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("event_type", in.EventType.String()),
			attribute.String("outcome", outcome),
		))
		span.End()
	}()

	def, err := s.registry.Lookup(in.EventType)
	if err != nil {
		slog.ErrorContext(ctx, "no handler registered for event", "event_type", in.EventType, "event_id", in.EventID, "error", err)
		return err
	}

	if err := s.validator.Validate(in.Actor); err != nil {
		return fmt.Errorf("%w: actor: %w", entity.ErrInvalidPayload, err)
	}

	payload := def.NewPayload()
	if err := decodeStrict(in.Payload, payload); err != nil {
		return fmt.Errorf("%w: %s: %w", entity.ErrInvalidPayload, in.EventType, err)
	}
	if err := s.validator.Validate(payload); err != nil {
		return fmt.Errorf("%w: %s: %w", entity.ErrInvalidPayload, in.EventType, err)
	}

	hc := handler.NewContext(in.EventType, in.Actor, s.services)
	if err := def.Run(ctx, hc, payload); err != nil {
		slog.ErrorContext(ctx, "failed to run notification handler", "event_type", in.EventType, "event_id", in.EventID, "actor_user_id", in.Actor.UserID, "error", err)
		return err
	}

	meta := map[string]any{"event_type": in.EventType.String(), "event_id": in.EventID}
	for _, e := range hc.Emails() {
		s.SendEmail(ctx, SendEmailInput{TemplateID: e.TemplateID, To: e.To, Params: e.Params, LogMeta: meta})
	}

	var errs []error
	for i, n := range hc.InApp() {
		if _, err := s.SaveInAppNotification(ctx, SaveInAppInput{
			Actor:        in.Actor,
			InnovationID: n.InnovationID,
			Context:      n.Context,
			RoleIDs:      n.RecipientRoleIDs,
			Params:       n.Params,
			DispatchKey:  dispatchKey(in.EventID, i),
		}); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func dispatchKey(eventID string, index int) string {
	if eventID == "" {
		return ""
	}
	return eventID + ":" + strconv.Itoa(index)
}

// decodeStrict decodes exactly one JSON value and rejects unknown fields.
// An absent payload decodes as an empty object.
func decodeStrict(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after payload")
	}
	return nil
}
