// Package producers publishes settlement run outcome events to Kafka so
// downstream reconciliation tooling can react to finished runs. Publication
// is best-effort: a failed publish never changes a run's outcome.
package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/settlement-reporting/internal/config"
)

// RunOutcomeProducer publishes one event per finished pipeline run
type RunOutcomeProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewRunOutcomeProducer creates the producer and ensures the topic exists
func NewRunOutcomeProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*RunOutcomeProducer, error) {
	if cfg.OutcomeTopic == "" {
		return nil, fmt.Errorf("kafka outcome topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for run outcome producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.OutcomeTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure outcome topic %s exists: %w", cfg.OutcomeTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.OutcomeTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false, // Outcomes are low volume; synchronous writes keep ordering simple
		WriteTimeout: cfg.MaxWait,
	}

	return &RunOutcomeProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.OutcomeTopic,
	}, nil
}

// Publish writes one outcome event keyed by run ID
func (p *RunOutcomeProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal run outcome event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish run outcome event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish run outcome event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published run outcome event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *RunOutcomeProducer) Close() error {
	p.logger.Info("Closing run outcome Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close run outcome kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
