package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

type KafkaConfig struct {
	Brokers []string
	Dialer  *kafka.Dialer
}

type Kafka struct {
	brokers []string
	dialer  *kafka.Dialer

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	closed  atomic.Bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers: append([]string{}, cfg.Brokers...),
		dialer:  cfg.Dialer,
		writers: map[string]*kafka.Writer{},
	}, nil
}

func (k *Kafka) Close() error {
	if k.closed.Swap(true) {
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	var err error
	for topic, w := range k.writers {
		err = errors.Join(err, w.Close())
		delete(k.writers, topic)
	}
	return err
}

func (k *Kafka) writer(topic string) *kafka.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if w, ok := k.writers[topic]; ok {
		return w
	}

	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  k.brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Dialer:   k.dialer,
	})
	k.writers[topic] = w
	return w
}

func (k *Kafka) Publish(ctx context.Context, destination string, msg Outgoing) error {
	if k.closed.Load() {
		return io.ErrClosedPipe
	}
	if destination == "" {
		return ErrDestinationRequired
	}

	km := kafka.Message{Key: []byte(msg.Key), Value: msg.Body}
	for key, v := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	if err := k.writer(destination).WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return nil
}

// Consume reads a topic as part of a consumer group. Ack commits the
// offset; Nack leaves it uncommitted so the message returns after a
// rebalance or restart.
func (k *Kafka) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if k.closed.Load() {
		return io.ErrClosedPipe
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.brokers,
		GroupID:  co.group,
		Topic:    source,
		MaxBytes: 10e6,
		Dialer:   k.dialer,
	})

	msgs := make(chan kafka.Message, co.maxInFlight)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(msgs)
		for {
			m, err := reader.FetchMessage(gctx)
			if err != nil {
				return err
			}
			select {
			case msgs <- m:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	for range co.concurrency {
		g.Go(func() error {
			for m := range msgs {
				d := kafkaDelivery(gctx, reader, source, m)
				logAckError(gctx, DriverKafka, source, deliver(gctx, DriverKafka, handler, d, co.autoAck))
			}
			return nil
		})
	}

	err := g.Wait()
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return errors.Join(err, reader.Close())
}

func kafkaDelivery(ctx context.Context, reader *kafka.Reader, source string, m kafka.Message) *Delivery {
	headers := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		headers[h.Key] = string(h.Value)
	}

	return &Delivery{
		ID:      fmt.Sprintf("%d-%d", m.Partition, m.Offset),
		Source:  source,
		Body:    m.Value,
		Headers: headers,
		ack:     func() error { return reader.CommitMessages(ctx, m) },
	}
}
