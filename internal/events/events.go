// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
)

const TypeOrderPlaced = "order.placed"

// OrderPlaced is the payload written for every placed order.
type OrderPlaced struct {
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurredAt"`
	Order      domain.Order `json:"order"`
}

// Publisher delivers order events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}

// Noop discards events. Used when no brokers are configured.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, domain.Order) error { return nil }

// KafkaPublisher writes events to one topic, keyed by order id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// ProducerConfig is the sarama configuration used for order events.
func ProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "storefront"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	return cfg
}

// NewKafkaProducer dials brokers with ProducerConfig.
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	producer, err := sarama.NewSyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(OrderPlaced{
		Type:       TypeOrderPlaced,
		OccurredAt: order.PlacedAt,
		Order:      order,
	})
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(order.ID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(TypeOrderPlaced)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", order.ID, err)
	}
	p.logger.Info().
		Str("order_id", order.ID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("order event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
