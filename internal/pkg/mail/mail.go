package mail

import (
	"context"
	"io"
	"log/slog"
)

type Message struct {
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
	// Headers are extra headers such as X-Template-ID.
	Headers map[string]string
}

type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

// Log is a Mail that only logs what would have been sent.
type Log struct{}

func (Log) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "mail not delivered, log driver", "to", msg.To, "subject", msg.Subject, "headers", msg.Headers)
	return nil
}

func (Log) Close() error { return nil }
