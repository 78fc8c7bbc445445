package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"charterly/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer drains the notification topic and hands messages to the email
// service. Workers share one consumer group so partitions spread across
// them.
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	SessionTimeout time.Duration
	Heartbeat      time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	OffsetOldest   bool
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        []string{"localhost:9092"},
		GroupID:        "charterly-notification-workers",
		Topics:         []string{"booking-notifications"},
		SessionTimeout: 30 * time.Second,
		Heartbeat:      3 * time.Second,
		MaxRetries:     3,
		RetryBackoff:   time.Second,
		OffsetOldest:   false,
	}
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emails        EmailService
	log           *logger.Logger
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewKafkaConsumer(config *ConsumerConfig, emails EmailService, log *logger.Logger) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emails:        emails,
		log:           log,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	c.log.Info("Starting notification consumer workers", "workers", numWorkers, "topics", c.config.Topics)

	go c.handleErrors()

	for i := 0; i < numWorkers; i++ {
		go c.runWorker(ctx, i)
	}
	return nil
}

func (c *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &groupHandler{consumer: c, workerID: workerID}
	for {
		select {
		case <-ctx.Done():
			c.log.Info("Notification worker shutting down", "worker", workerID)
			return
		default:
			if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
				c.log.Error("Consumer worker error", "worker", workerID, "error", err.Error())
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) handleErrors() {
	for err := range c.consumerGroup.Errors() {
		c.log.Error("Consumer group error", "error", err.Error())
	}
}

func (c *kafkaConsumer) Stop() error {
	c.cancel()
	if err := c.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.log.Info("Notification consumer stopped")
	return nil
}

func (c *kafkaConsumer) HealthCheck(ctx context.Context) error {
	select {
	case <-c.ctx.Done():
		return fmt.Errorf("consumer context is cancelled")
	default:
		if c.emails == nil {
			return fmt.Errorf("email service not configured")
		}
		return nil
	}
}

type groupHandler struct {
	consumer *kafkaConsumer
	workerID int
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.consumer.log.Error("Failed to process notification",
					"worker", h.workerID, "error", err.Error())
			} else {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification BookingNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	notification.Status = StatusSending
	if err := h.deliverWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	h.consumer.log.Info("Notification delivered",
		"worker", h.workerID,
		"kind", notification.Kind,
		"booking_id", notification.BookingID.String(),
		"recipient", notification.RecipientEmail,
	)
	return nil
}

func (h *groupHandler) deliverWithRetry(ctx context.Context, notification *BookingNotification) error {
	maxRetries := h.consumer.config.MaxRetries
	backoff := h.consumer.config.RetryBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := h.consumer.emails.SendNotification(ctx, notification)
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			return err
		}

		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
