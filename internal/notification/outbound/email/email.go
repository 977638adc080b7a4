package email

import (
	"context"
	"maps"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/shandysiswandi/notifyhub/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const headerTemplateID = "X-Template-ID"

type Mail struct {
	client  mail.Mail
	catalog *Catalog
	from    string
	headers map[string]string
	ins     instrument.Instrumentation
}

// New builds the transport. headers are added to every message.
func New(client mail.Mail, catalog *Catalog, from string, headers map[string]string, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, catalog: catalog, from: from, headers: headers, ins: ins}
}

// Send renders templateID with params and delivers it to one address.
func (m *Mail) Send(ctx context.Context, templateID entity.TemplateID, to string, params map[string]string) (err error) {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send",
		trace.WithAttributes(attribute.String("template_id", templateID.String())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := m.catalog.Render(templateID, params)
	if err != nil {
		return err
	}

	headers := make(map[string]string, len(m.headers)+1)
	maps.Copy(headers, m.headers)
	headers[headerTemplateID] = templateID.String()

	return m.client.Send(ctx, mail.Message{
		From:     m.from,
		To:       []string{to},
		Subject:  body.Subject,
		TextBody: body.Text,
		HTMLBody: body.HTML,
		Headers:  headers,
	})
}
