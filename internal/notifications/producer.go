package notifications

import (
	"context"
	"fmt"
	"time"

	"charterly/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes booking notifications to Kafka.
type Producer interface {
	Publish(ctx context.Context, notification *BookingNotification) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// ProducerConfig contains configuration for the Kafka notification producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	Compression      sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "booking-notifications",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		Compression:      sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
	log      *logger.Logger
}

func NewKafkaProducer(config *ProducerConfig, log *logger.Logger) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.Compression
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps all events for one booking on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("Kafka notification producer created", "brokers", config.Brokers, "topic", config.Topic)
	return &kafkaProducer{producer: producer, config: config, log: log}, nil
}

func (p *kafkaProducer) Publish(ctx context.Context, notification *BookingNotification) error {
	notification.Status = StatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(notification.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   p.createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	p.log.Info("Notification published",
		"topic", p.config.Topic,
		"partition", partition,
		"offset", offset,
		"kind", notification.Kind,
		"booking_id", notification.BookingID.String(),
	)
	return nil
}

func (p *kafkaProducer) createHeaders(notification *BookingNotification) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("kind"), Value: []byte(notification.Kind)},
		{Key: []byte("booking_id"), Value: []byte(notification.BookingID.String())},
		{Key: []byte("recipient_email"), Value: []byte(notification.RecipientEmail)},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
}

func (p *kafkaProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		p.log.Info("Kafka notification producer closed")
	}
	return nil
}

func (p *kafkaProducer) HealthCheck(ctx context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("producer is nil")
	}
	if p.config.Topic == "" {
		return fmt.Errorf("notification topic not configured")
	}
	return nil
}
