package messaging

import (
	"context"
	"errors"
	"io"

	"go.uber.org/atomic"
)

var (
	ErrDestinationRequired = errors.New("messaging: destination is required")
	ErrHandlerRequired     = errors.New("messaging: handler is required")
	ErrGroupRequired       = errors.New("messaging: consumer group is required")
)

type Messaging interface {
	io.Closer
	Publish(ctx context.Context, destination string, msg Outgoing) error
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

type Handler func(ctx context.Context, d *Delivery) error

// Outgoing is a message to publish. Key selects the Kafka partition and the
// Pub/Sub ordering key; NSQ drops headers.
type Outgoing struct {
	Key     string
	Body    []byte
	Headers map[string]string
}

// Delivery is one received message. Ack and Nack are idempotent and only
// the first call reaches the broker.
type Delivery struct {
	ID      string
	Source  string
	Body    []byte
	Headers map[string]string
	// Attempt counts deliveries starting at 1, or 0 when the broker does not say.
	Attempt int

	ack       func() error
	nack      func() error
	responded atomic.Bool
}

func (d *Delivery) Header(key string) string {
	return d.Headers[key]
}

func (d *Delivery) Ack() error {
	if d.responded.Swap(true) || d.ack == nil {
		return nil
	}
	return d.ack()
}

// Nack asks the broker to redeliver.
func (d *Delivery) Nack() error {
	if d.responded.Swap(true) || d.nack == nil {
		return nil
	}
	return d.nack()
}
