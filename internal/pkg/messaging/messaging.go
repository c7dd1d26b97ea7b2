package messaging

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrDestinationRequired is returned when publishing or consuming without a topic/subject.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrHandlerRequired is returned when Consume gets a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
	// ErrGroupRequired is returned when a driver needs a consumer group and none was given.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
)

// Messaging publishes and consumes messages on one broker.
type Messaging interface {
	io.Closer
	Publisher

	// Consume blocks, delivering messages from source to handler until ctx is
	// done or the subscription fails.
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Publisher is the publish half, which is all most producers need.
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) error
}

// Handler processes one delivery. With auto-ack enabled, a nil error acks
// and a non-nil error nacks for redelivery.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is what producers hand to Publish.
type OutgoingMessage struct {
	// Key drives Kafka partitioning; other drivers ignore it.
	Key     []byte
	Body    []byte
	Headers map[string]string
}

// Message is a received delivery.
type Message interface {
	Body() []byte
	Header(key string) string
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
