package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartlodge/pkg/logger"

	"github.com/IBM/sarama"
)

// ConsumerConfig contains configuration for the notification consumer
type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	SessionTimeout time.Duration
	Heartbeat      time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        []string{"localhost:9092"},
		GroupID:        "smartlodge-notification-workers",
		Topics:         []string{"booking-notifications"},
		SessionTimeout: 30 * time.Second,
		Heartbeat:      3 * time.Second,
	}
}

// Consumer reads booking notifications from Kafka and emails guests.
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topics        []string
	sender        EmailSender
	log           *logger.Logger
}

func NewConsumer(config *ConsumerConfig, sender EmailSender, log *logger.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		consumerGroup: consumerGroup,
		topics:        config.Topics,
		sender:        sender,
		log:           log,
	}, nil
}

// Start consumes until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	go func() {
		for err := range c.consumerGroup.Errors() {
			c.log.Error("consumer group error", "error", err.Error())
		}
	}()

	handler := &consumerGroupHandler{
		sender: c.sender,
		log:    c.log,
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
				c.log.Error("error consuming notifications", "error", err.Error())
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *Consumer) Close() error {
	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	sender EmailSender
	log    *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var notification BookingConfirmedNotification
		if err := json.Unmarshal(message.Value, &notification); err != nil {
			h.log.Error("failed to decode notification, skipping",
				"topic", message.Topic,
				"offset", message.Offset,
				"error", err.Error(),
			)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.sender.SendBookingConfirmed(session.Context(), notification); err != nil {
			// Mark anyway; a broken mailbox should not wedge the partition
			h.log.Error("failed to send confirmation email",
				"booking_ref", notification.BookingRef,
				"error", err.Error(),
			)
		} else {
			h.log.Info("confirmation email sent",
				"booking_ref", notification.BookingRef,
				"recipient", notification.RecipientEmail,
			)
		}

		session.MarkMessage(message, "")
	}
	return nil
}
