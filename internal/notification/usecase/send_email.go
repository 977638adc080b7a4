package usecase

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultEmailRetries = 2
	defaultEmailBackoff = 200 * time.Millisecond
)

type SendEmailInput struct {
	TemplateID entity.TemplateID
	To         entity.EmailTo
	Params     map[string]string
	LogMeta    map[string]any
}

// SendEmail hands one email to the transport. Identity addresses are
// resolved to a mailbox first and the recipient's display name is added to
// the params. Preferences are not checked again here. It reports whether
// the transport accepted the email.
func (s *Usecase) SendEmail(ctx context.Context, in SendEmailInput) bool {
	ctx, span := s.startSpan(ctx, "SendEmail")
	defer span.End()

	attrs := []any{"template_id", in.TemplateID, "to_type", in.To.Type, "user_id", in.To.UserID}
	for k, v := range in.LogMeta {
		attrs = append(attrs, k, v)
	}

	params := maps.Clone(in.Params)
	if params == nil {
		params = map[string]string{}
	}

	address := in.To.Value
	if in.To.Type == entity.AddressIdentity {
		info, err := s.identity.GetUserInfo(ctx, in.To.Value)
		if err != nil {
			slog.ErrorContext(ctx, "failed to identity get user info", append(attrs, "identity_id", in.To.Value, "error", err)...)
			s.countEmail(ctx, in.TemplateID, false)
			return false
		}
		if info == nil || info.Email == "" {
			slog.WarnContext(ctx, "email recipient has no mailbox", append(attrs, "identity_id", in.To.Value)...)
			s.countEmail(ctx, in.TemplateID, false)
			return false
		}
		address = info.Email
		if _, ok := params["display_name"]; !ok {
			params["display_name"] = info.DisplayName
		}
	}

	retries := uint64(defaultEmailRetries)
	if v := s.cfg.GetInt("modules.notification.email.max_retries"); v > 0 {
		retries = uint64(v)
	}
	backoff := defaultEmailBackoff
	if v := s.cfg.GetInt("modules.notification.email.backoff_ms"); v > 0 {
		backoff = time.Duration(v) * time.Millisecond
	}

	b := retry.WithMaxRetries(retries, retry.NewExponential(backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, in.TemplateID, address, params); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send notification email", append(attrs, "error", err)...)
		s.countEmail(ctx, in.TemplateID, false)
		return false
	}

	s.countEmail(ctx, in.TemplateID, true)
	return true
}

func (s *Usecase) countEmail(ctx context.Context, tpl entity.TemplateID, ok bool) {
	s.emailsSent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template_id", string(tpl)),
		attribute.Bool("success", ok),
	))
}
