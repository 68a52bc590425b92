package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// KafkaPublisher publishes batch jobs transactionally so a job is either
// fully visible to the scorer or not at all.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher creates and initializes a transactional producer.
func NewKafkaPublisher(cfg Config, logger *slog.Logger) (*KafkaPublisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      "finsignal-dispatcher",
	})
	if err != nil {
		return nil, fmt.Errorf("NewKafkaPublisher: create producer: %w", err)
	}

	if err := p.InitTransactions(context.Background()); err != nil {
		p.Close()
		return nil, fmt.Errorf("NewKafkaPublisher: init transactions: %w", err)
	}

	logger.Info("kafka publisher initialized",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	return &KafkaPublisher{producer: p, topic: cfg.Topic, logger: logger}, nil
}

// Publish sends one batch job inside its own transaction.
func (p *KafkaPublisher) Publish(ctx context.Context, job BatchJob) error {
	payload, err := job.Encode()
	if err != nil {
		return fmt.Errorf("Publish: %w", err)
	}

	if err := p.producer.BeginTransaction(); err != nil {
		return fmt.Errorf("Publish: begin transaction: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(job.JobID),
		Value:          payload,
	}

	if err := p.producer.Produce(msg, nil); err != nil {
		if abortErr := p.producer.AbortTransaction(ctx); abortErr != nil {
			return fmt.Errorf("Publish: abort after produce error: %w", abortErr)
		}
		return fmt.Errorf("Publish: produce: %w", err)
	}

	if err := p.producer.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("Publish: commit transaction: %w", err)
	}

	p.logger.Info("batch job published",
		slog.String("job_id", job.JobID),
		slog.Int("article_count", len(job.ArticleIDs)))

	return nil
}

// Close flushes pending deliveries and releases the producer.
func (p *KafkaPublisher) Close() {
	if remaining := p.producer.Flush(5000); remaining > 0 {
		p.logger.Warn("undelivered messages at publisher shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
}
