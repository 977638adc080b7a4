package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"

	nsq "github.com/nsqio/go-nsq"
	"go.uber.org/atomic"
)

var (
	ErrNSQProducerAddrRequired  = errors.New("messaging: nsq producer address is required")
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq consumer nsqd/lookupd addresses are required")
)

type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string

	// ProducerConfig and ConsumerConfig override nsq.NewConfig(). Requeue
	// delays and MaxAttempts of the consumer drive redelivery.
	ProducerConfig *nsq.Config
	ConsumerConfig *nsq.Config
}

// NSQ has no message headers; Outgoing.Headers are dropped.
type NSQ struct {
	producer       *nsq.Producer
	nsqdAddrs      []string
	lookupAddrs    []string
	consumerConfig *nsq.Config
	closed         atomic.Bool
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	n := &NSQ{
		nsqdAddrs:      append([]string{}, cfg.ConsumerNSQDAddrs...),
		lookupAddrs:    append([]string{}, cfg.ConsumerLookupdAddrs...),
		consumerConfig: cfg.ConsumerConfig,
	}
	if n.consumerConfig == nil {
		n.consumerConfig = nsq.NewConfig()
	}

	if cfg.ProducerAddr != "" {
		pcfg := cfg.ProducerConfig
		if pcfg == nil {
			pcfg = nsq.NewConfig()
		}
		p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

func (n *NSQ) Close() error {
	if n.closed.Swap(true) {
		return nil
	}
	if n.producer != nil {
		n.producer.Stop()
	}
	return nil
}

func (n *NSQ) Publish(ctx context.Context, destination string, msg Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.closed.Load() {
		return io.ErrClosedPipe
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	if n.producer == nil {
		return ErrNSQProducerAddrRequired
	}

	if err := n.producer.Publish(destination, msg.Body); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}
	return nil
}

// newConsumerConfig copies the configured consumer settings and raises
// MaxInFlight to what the consume options need.
func (n *NSQ) newConsumerConfig(co consumeOptions) *nsq.Config {
	cfg := *n.consumerConfig
	cfg.MaxInFlight = max(cfg.MaxInFlight, co.maxInFlight)
	return &cfg
}

// Consume reads a topic on the channel named by WithGroup.
func (n *NSQ) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if n.closed.Load() {
		return io.ErrClosedPipe
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}
	if len(n.nsqdAddrs) == 0 && len(n.lookupAddrs) == 0 {
		return ErrNSQConsumerAddrsRequired
	}

	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}

	consumer, err := nsq.NewConsumer(source, co.group, n.newConsumerConfig(co))
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()
		d := &Delivery{
			ID:      string(m.ID[:]),
			Source:  source,
			Body:    m.Body,
			Attempt: int(m.Attempts),
			ack:     func() error { m.Finish(); return nil },
			nack:    func() error { m.Requeue(-1); return nil },
		}
		logAckError(ctx, DriverNSQ, source, deliver(ctx, DriverNSQ, handler, d, co.autoAck))
		return nil
	}), co.concurrency)

	if len(n.lookupAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.lookupAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.nsqdAddrs)
	}
	if err != nil {
		consumer.Stop()
		<-consumer.StopChan
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}
