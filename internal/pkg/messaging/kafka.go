package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka driver.
type KafkaConfig struct {
	Brokers []string
}

// Kafka keeps one writer per topic; readers are created per Consume call.
type Kafka struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("messaging: kafka brokers are required")
	}

	return &Kafka{brokers: cfg.Brokers, writers: map[string]*kafka.Writer{}}, nil
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var errs []error
	for topic, w := range k.writers {
		errs = append(errs, w.Close())
		delete(k.writers, topic)
	}

	return errors.Join(errs...)
}

func (k *Kafka) writer(topic string) *kafka.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	w, ok := k.writers[topic]
	if !ok {
		w = &kafka.Writer{
			Addr:                   kafka.TCP(k.brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		}
		k.writers[topic] = w
	}

	return w
}

func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) error {
	if destination == "" {
		return ErrDestinationRequired
	}

	km := kafka.Message{Key: msg.Key, Value: msg.Body}
	for key, v := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	if err := k.writer(destination).WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return nil
}

// Consume reads with a consumer group and commits each message once it is
// acked. A nacked message is left uncommitted for redelivery after a rebalance.
func (k *Kafka) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
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
		Brokers:       k.brokers,
		GroupID:       co.group,
		Topic:         source,
		MaxBytes:      10e6,
		QueueCapacity: co.maxInFlight,
	})

	fetched := make(chan kafka.Message, co.maxInFlight)
	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range fetched {
				msg := &kafkaMessage{reader: reader, msg: m}
				if err := deliver(ctx, DriverKafka, msg, handler, co.autoAck); err != nil {
					logHandlerError(ctx, DriverKafka, source, err)
				}
			}
		})
	}

	var ferr error
	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			ferr = err
			break
		}
		fetched <- m
	}

	close(fetched)
	wg.Wait()

	if errors.Is(ferr, context.Canceled) || errors.Is(ferr, context.DeadlineExceeded) {
		return errors.Join(ferr, reader.Close())
	}

	return errors.Join(fmt.Errorf("messaging: kafka fetch: %w", ferr), reader.Close())
}

type kafkaMessage struct {
	responded
	reader *kafka.Reader
	msg    kafka.Message
}

func (m *kafkaMessage) Body() []byte { return m.msg.Value }

func (m *kafkaMessage) Header(key string) string {
	for _, h := range m.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (m *kafkaMessage) Ack(ctx context.Context) error {
	if !m.claim() {
		return nil
	}
	return m.reader.CommitMessages(context.WithoutCancel(ctx), m.msg)
}

func (m *kafkaMessage) Nack(context.Context) error {
	m.claim()
	return nil
}
