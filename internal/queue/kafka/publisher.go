package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/config"
)

// messageSender is the slice of sarama.SyncProducer the publisher needs.
type messageSender interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
	Close() error
}

// Publisher sends event records to Kafka topics. Construction establishes the
// broker connection with retry; after that, send failures are reported to the
// caller as a boolean and logged, never raised.
type Publisher struct {
	producer messageSender
	log      *zap.Logger
}

// NewPublisher connects a synchronous Kafka producer with a flat retry
// schedule. Exhausting the retries is a startup error: a process that owns a
// publish path cannot serve without it.
func NewPublisher(cfg config.Kafka, log *zap.Logger) (*Publisher, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Return.Errors = true

	delay := time.Duration(cfg.ProducerRetryDelaySec) * time.Second

	var producer sarama.SyncProducer
	var err error
	for attempt := 1; attempt <= cfg.ProducerMaxRetries; attempt++ {
		log.Info("Connecting Kafka producer",
			zap.Strings("brokers", cfg.BootstrapServers),
			zap.Int("attempt", attempt))

		producer, err = sarama.NewSyncProducer(cfg.BootstrapServers, saramaCfg)
		if err == nil {
			log.Info("Kafka producer connected")
			return &Publisher{producer: producer, log: log}, nil
		}

		log.Warn("Kafka producer connection failed",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < cfg.ProducerMaxRetries {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect Kafka producer after %d attempts: %w", cfg.ProducerMaxRetries, err)
}

// Publish serializes the event and sends it to the topic. The send is
// acknowledged per call; a failure degrades analytics completeness but never
// fails the triggering action, so it is reported as false rather than an
// error.
func (p *Publisher) Publish(ctx context.Context, topic string, event any) bool {
	if err := ctx.Err(); err != nil {
		p.log.Warn("Publish skipped, context done",
			zap.String("topic", topic),
			zap.Error(err))
		return false
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to marshal event",
			zap.String("topic", topic),
			zap.Error(err))
		return false
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		p.log.Error("Failed to send message to Kafka",
			zap.String("topic", topic),
			zap.Error(err))
		return false
	}

	p.log.Info("Event published",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))

	return true
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	if err := p.producer.Close(); err != nil {
		p.log.Error("Error closing Kafka producer", zap.Error(err))
		return err
	}
	p.log.Info("Kafka producer closed")
	return nil
}
