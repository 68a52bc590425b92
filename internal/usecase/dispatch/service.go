// Package dispatch turns freshly ingested article IDs into scoring batch
// jobs on the work queue.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finsignal/internal/infra/queue"
	"finsignal/internal/observability/metrics"
)

// MaxBatchSize is the hard ceiling on article IDs per batch job. Bounded
// batches keep worker memory flat and limit the blast radius of an
// errored batch.
const MaxBatchSize = 20

// Publisher sends one batch job to the work queue.
type Publisher interface {
	Publish(ctx context.Context, job queue.BatchJob) error
}

// Service chunks article IDs and publishes them as batch jobs.
type Service struct {
	publisher Publisher
	logger    *slog.Logger

	// BatchSize is the number of IDs per job, capped at MaxBatchSize
	BatchSize int
}

// NewService creates a dispatcher with the default batch size.
func NewService(publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		publisher: publisher,
		logger:    logger,
		BatchSize: MaxBatchSize,
	}
}

// Dispatch publishes the given article IDs as batch jobs of at most
// BatchSize IDs each. A failed publish is logged and counted but does not
// abort the remaining chunks; the returned error joins all chunk failures.
// Returns the number of jobs successfully published.
func (s *Service) Dispatch(ctx context.Context, articleIDs []int64) (int, error) {
	if len(articleIDs) == 0 {
		return 0, nil
	}

	size := s.BatchSize
	if size <= 0 || size > MaxBatchSize {
		size = MaxBatchSize
	}

	published := 0
	var errs []error
	for _, chunk := range chunkIDs(articleIDs, size) {
		job := queue.NewBatchJob(chunk)
		if err := s.publisher.Publish(ctx, job); err != nil {
			s.logger.Error("batch publish failed",
				slog.String("job_id", job.JobID),
				slog.Int("article_count", len(chunk)),
				slog.Any("error", err))
			metrics.RecordBatchDispatched(false, 0)
			errs = append(errs, fmt.Errorf("job %s: %w", job.JobID, err))
			continue
		}

		metrics.RecordBatchDispatched(true, len(chunk))
		published++
	}

	s.logger.Info("dispatch complete",
		slog.Int("articles", len(articleIDs)),
		slog.Int("jobs_published", published),
		slog.Int("jobs_failed", len(errs)))

	if len(errs) > 0 {
		return published, fmt.Errorf("Dispatch: %w", errors.Join(errs...))
	}
	return published, nil
}

// chunkIDs splits ids into slices of at most size elements, preserving
// order.
func chunkIDs(ids []int64, size int) [][]int64 {
	chunks := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
