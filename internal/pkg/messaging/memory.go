package messaging

import (
	"context"
	"errors"
	"maps"
	"sync"
)

// Memory is an in-process broker. Each group receives every message once;
// redelivery on nack is immediate. It keeps nothing across restarts.
type Memory struct {
	mu     sync.RWMutex
	subs   map[string]map[string]chan *memoryMessage
	closed bool
}

func NewMemory() *Memory {
	return &Memory{subs: map[string]map[string]chan *memoryMessage{}}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true

	return nil
}

func (m *Memory) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if destination == "" {
		return ErrDestinationRequired
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return errors.New("messaging: memory broker closed")
	}

	for _, ch := range m.subs[destination] {
		mm := &memoryMessage{body: msg.Body, headers: maps.Clone(msg.Headers), queue: ch}
		select {
		case ch <- mm:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (m *Memory) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if source == "" {
		return ErrDestinationRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	ch := m.subscribe(source, co)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case mm := <-ch:
					if err := deliver(ctx, DriverMemory, mm, handler, co.autoAck); err != nil {
						logHandlerError(ctx, DriverMemory, source, err)
					}
				}
			}
		})
	}

	<-ctx.Done()
	wg.Wait()

	return ctx.Err()
}

func (m *Memory) subscribe(source string, co consumeOptions) chan *memoryMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	groups, ok := m.subs[source]
	if !ok {
		groups = map[string]chan *memoryMessage{}
		m.subs[source] = groups
	}

	ch, ok := groups[co.group]
	if !ok {
		ch = make(chan *memoryMessage, co.maxInFlight)
		groups[co.group] = ch
	}

	return ch
}

type memoryMessage struct {
	responded
	body    []byte
	headers map[string]string
	queue   chan *memoryMessage
}

func (m *memoryMessage) Body() []byte { return m.body }

func (m *memoryMessage) Header(key string) string { return m.headers[key] }

func (m *memoryMessage) Ack(context.Context) error {
	m.claim()
	return nil
}

// Nack requeues a fresh copy so the requeued delivery can be settled again.
func (m *memoryMessage) Nack(ctx context.Context) error {
	if !m.claim() {
		return nil
	}

	again := &memoryMessage{body: m.body, headers: m.headers, queue: m.queue}
	go func() {
		select {
		case m.queue <- again:
		case <-ctx.Done():
		}
	}()

	return nil
}
