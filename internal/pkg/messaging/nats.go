package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"
)

var ErrNATSURLRequired = errors.New("messaging: nats url is required")

type NATSConfig struct {
	URL     string
	Options []nats.Option
}

type NATS struct {
	conn   *nats.Conn
	closed atomic.Bool
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

func (n *NATS) Close() error {
	if n.closed.Swap(true) {
		return nil
	}
	err := n.conn.Drain()
	n.conn.Close()
	return err
}

func (n *NATS) Publish(ctx context.Context, destination string, msg Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.closed.Load() {
		return io.ErrClosedPipe
	}
	if destination == "" {
		return ErrDestinationRequired
	}

	nmsg := nats.NewMsg(destination)
	nmsg.Data = msg.Body
	for k, v := range msg.Headers {
		nmsg.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	return n.conn.Flush()
}

// Consume subscribes to a subject. With a group the subscription is a
// queue subscription so replicas share the load.
func (n *NATS) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if n.closed.Load() {
		return io.ErrClosedPipe
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	msgs := make(chan *nats.Msg, co.maxInFlight)

	sub, err := n.conn.ChanQueueSubscribe(source, co.group, msgs)
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case m := <-msgs:
					logAckError(ctx, DriverNATS, source, deliver(ctx, DriverNATS, handler, natsDelivery(source, m), co.autoAck))
				}
			}
		})
	}

	<-ctx.Done()
	uerr := sub.Unsubscribe()
	wg.Wait()

	return errors.Join(ctx.Err(), uerr)
}

func natsDelivery(source string, m *nats.Msg) *Delivery {
	headers := make(map[string]string, len(m.Header))
	for k := range m.Header {
		headers[k] = m.Header.Get(k)
	}

	d := &Delivery{
		Source:  source,
		Body:    m.Data,
		Headers: headers,
		ack:     func() error { return ignoreCoreNATS(m.Ack()) },
		nack:    func() error { return ignoreCoreNATS(m.Nak()) },
	}
	if md, err := m.Metadata(); err == nil {
		d.ID = strconv.FormatUint(md.Sequence.Stream, 10)
		d.Attempt = int(md.NumDelivered)
	}
	return d
}

// Core NATS has no acknowledgements; only JetStream messages carry a reply.
func ignoreCoreNATS(err error) error {
	if errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound) {
		return nil
	}
	return err
}
