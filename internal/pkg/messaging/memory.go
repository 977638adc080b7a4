package messaging

import (
	"context"
	"errors"
	"io"
	"maps"
	"strconv"
	"sync"

	"go.uber.org/atomic"
)

var ErrQueueFull = errors.New("messaging: memory queue is full")

// Memory is an in-process broker with competing consumers per destination
// and redelivery on Nack. Messages do not survive a restart.
type Memory struct {
	mu     sync.Mutex
	queues map[string]chan *memoryMessage
	size   int

	closed  atomic.Bool
	seq     atomic.Int64
	pending atomic.Int64
}

type memoryMessage struct {
	id      string
	out     Outgoing
	attempt int
}

func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 256
	}
	return &Memory{queues: map[string]chan *memoryMessage{}, size: size}
}

func (m *Memory) queue(name string) chan *memoryMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[name]
	if !ok {
		q = make(chan *memoryMessage, m.size)
		m.queues[name] = q
	}
	return q
}

// Pending reports published messages not yet acked.
func (m *Memory) Pending() int64 {
	return m.pending.Load()
}

func (m *Memory) Publish(ctx context.Context, destination string, msg Outgoing) error {
	if m.closed.Load() {
		return io.ErrClosedPipe
	}
	if destination == "" {
		return ErrDestinationRequired
	}

	mm := &memoryMessage{
		id:      strconv.FormatInt(m.seq.Inc(), 10),
		out:     Outgoing{Key: msg.Key, Body: append([]byte(nil), msg.Body...), Headers: maps.Clone(msg.Headers)},
		attempt: 1,
	}

	select {
	case m.queue(destination) <- mm:
		m.pending.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if m.closed.Load() {
		return io.ErrClosedPipe
	}
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	q := m.queue(source)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case mm := <-q:
					logAckError(ctx, DriverMemory, source, deliver(ctx, DriverMemory, handler, m.delivery(source, q, mm), co.autoAck))
				}
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

func (m *Memory) delivery(source string, q chan *memoryMessage, mm *memoryMessage) *Delivery {
	return &Delivery{
		ID:      mm.id,
		Source:  source,
		Body:    mm.out.Body,
		Headers: mm.out.Headers,
		Attempt: mm.attempt,
		ack: func() error {
			m.pending.Dec()
			return nil
		},
		nack: func() error {
			next := &memoryMessage{id: mm.id, out: mm.out, attempt: mm.attempt + 1}
			select {
			case q <- next:
				return nil
			default:
				m.pending.Dec()
				return ErrQueueFull
			}
		},
	}
}

func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}
