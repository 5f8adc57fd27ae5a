package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartlodge/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher publishes booking notifications. Publishing is always
// fire-and-forget from the booking flow's point of view; a broker outage
// must never fail a confirmation.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, notification BookingConfirmedNotification) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka producer
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	Timeout      time.Duration
	RequiredAcks sarama.RequiredAcks
}

func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "booking-notifications",
		RetryMax:     3,
		Timeout:      10 * time.Second,
		RequiredAcks: sarama.WaitForAll,
	}
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher creates a sync producer with hash partitioning by
// recipient, so one guest's notifications stay ordered.
func NewKafkaPublisher(config *ProducerConfig, log *logger.Logger) (Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaPublisher{
		producer: producer,
		topic:    config.Topic,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) PublishBookingConfirmed(ctx context.Context, notification BookingConfirmedNotification) error {
	messageBytes, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(notification.RecipientEmail),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_type"), Value: []byte(NotificationTypeBookingConfirmed)},
			{Key: []byte("booking_ref"), Value: []byte(notification.BookingRef)},
			{Key: []byte("recipient_email"), Value: []byte(notification.RecipientEmail)},
			{Key: []byte("producer"), Value: []byte("smartlodge-checkout")},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	p.log.Info("booking notification published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"booking_ref", notification.BookingRef,
	)

	return nil
}

func (p *kafkaPublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// NoopPublisher is used when Kafka is disabled; confirmations proceed
// without notifications.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingConfirmed(ctx context.Context, notification BookingConfirmedNotification) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
