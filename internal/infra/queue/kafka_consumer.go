package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// Delivery is one received batch job plus the offset bookkeeping needed to
// commit it after processing.
type Delivery struct {
	Job BatchJob
	msg *kafka.Message
}

// KafkaConsumer reads batch jobs with manual offset commits: an offset is
// committed only after the scorer has written its result, so a crash
// mid-batch means redelivery rather than silent loss. The scorer's
// state-filtered fetch makes that redelivery harmless.
type KafkaConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

const pollTimeout = 5 * time.Second

// NewKafkaConsumer creates a consumer subscribed to the scoring topic.
func NewKafkaConsumer(cfg Config, logger *slog.Logger) (*KafkaConsumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
		"isolation.level":    "read_committed",
	})
	if err != nil {
		return nil, fmt.Errorf("NewKafkaConsumer: create consumer: %w", err)
	}

	if err := c.SubscribeTopics([]string{cfg.Topic}, nil); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("NewKafkaConsumer: subscribe %s: %w", cfg.Topic, err)
	}

	logger.Info("kafka consumer initialized",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic),
		slog.String("group_id", cfg.GroupID))

	return &KafkaConsumer{consumer: c, logger: logger}, nil
}

// Next blocks until a batch job arrives or the context is cancelled.
// Undecodable payloads are committed and skipped: retrying a malformed
// message can never succeed, and leaving it uncommitted wedges the
// partition.
func (c *KafkaConsumer) Next(ctx context.Context) (*Delivery, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msg, err := c.consumer.ReadMessage(pollTimeout)
		if err != nil {
			if kafkaErr, ok := err.(kafka.Error); ok {
				if kafkaErr.Code() == kafka.ErrTimedOut {
					continue
				}
				if kafkaErr.Code() == kafka.ErrAllBrokersDown {
					return nil, fmt.Errorf("Next: %w", err)
				}
			}
			c.logger.Warn("failed to read message, retrying",
				slog.Any("error", err))
			continue
		}

		job, err := DecodeBatchJob(msg.Value)
		if err != nil {
			c.logger.Error("dropping undecodable batch job",
				slog.Any("error", err),
				slog.String("topic_partition", msg.TopicPartition.String()))
			if _, commitErr := c.consumer.CommitMessage(msg); commitErr != nil {
				c.logger.Warn("failed to commit skipped message",
					slog.Any("error", commitErr))
			}
			continue
		}

		return &Delivery{Job: job, msg: msg}, nil
	}
}

// Commit acknowledges a processed delivery.
func (c *KafkaConsumer) Commit(d *Delivery) error {
	if _, err := c.consumer.CommitMessage(d.msg); err != nil {
		return fmt.Errorf("Commit: job %s: %w", d.Job.JobID, err)
	}
	return nil
}

// Close leaves the consumer group cleanly.
func (c *KafkaConsumer) Close() error {
	return c.consumer.Close()
}
