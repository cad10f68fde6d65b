// Package events relays outbox rows to the message broker.
package events

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/yigit/coursestore/internal/app/models"
)

// Publisher delivers one outbox event
type Publisher interface {
	Publish(ctx context.Context, event models.OutboxEvent) error
	Close() error
}

// messageWriter is the part of kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event to the topic of its aggregate type,
// keyed by aggregate id so events of one aggregate stay ordered.
type KafkaPublisher struct {
	writer      messageWriter
	topicPrefix string
}

// NewKafkaPublisher creates a publisher for the given brokers
func NewKafkaPublisher(brokers []string, topicPrefix string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w, topicPrefix: topicPrefix}
}

// Topic returns the topic events of aggregateType are written to
func (p *KafkaPublisher) Topic(aggregateType string) string {
	if p.topicPrefix == "" {
		return aggregateType
	}
	return p.topicPrefix + "." + aggregateType
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.OutboxEvent) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.Topic(event.AggregateType),
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.ID.String())},
		},
		Time: event.CreatedAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher only logs events. It stands in for Kafka when no brokers
// are configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, event models.OutboxEvent) error {
	p.logger.Info().
		Str("eventID", event.ID.String()).
		Str("eventType", event.EventType).
		Str("aggregateID", event.AggregateID).
		RawJSON("payload", event.Payload).
		Msg("Event published")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
