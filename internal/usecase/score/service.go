// Package score implements the batch scoring worker: fetch the unscored
// articles named by a batch job, score them in one model call, and persist
// results transactionally. Any failure marks the whole batch errored so a
// bad batch can never wedge the queue.
package score

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finsignal/internal/domain/entity"
	"finsignal/internal/infra/queue"
	"finsignal/internal/observability/metrics"
	"finsignal/internal/repository"
	"finsignal/internal/sentiment"
)

// Status is the outcome of one batch job.
type Status string

const (
	// StatusSuccess means every eligible article in the batch was scored
	// and persisted (zero eligible articles is still a success).
	StatusSuccess Status = "success"

	// StatusErrored means the batch failed and all its articles were
	// transitioned to the terminal errored state.
	StatusErrored Status = "errored"
)

// BatchResult reports one batch job's outcome to the consumer loop.
// The job is never retried either way; errored is a terminal state.
type BatchResult struct {
	JobID     string
	Processed int
	Errored   int
	Status    Status
	Err       error
}

// Service is the scoring worker.
type Service struct {
	articles   repository.ArticleRepository
	sentiments repository.SentimentRepository
	analyzer   sentiment.Analyzer
	logger     *slog.Logger
}

// NewService creates a scoring worker.
func NewService(
	articles repository.ArticleRepository,
	sentiments repository.SentimentRepository,
	analyzer sentiment.Analyzer,
	logger *slog.Logger,
) *Service {
	return &Service{
		articles:   articles,
		sentiments: sentiments,
		analyzer:   analyzer,
		logger:     logger,
	}
}

// HandleBatch processes one batch job end to end. Only articles still in
// the new state are scored, which makes queue redelivery harmless. On any
// failure every article named by the job is marked errored and the result
// reports StatusErrored; the caller must still acknowledge the job.
func (s *Service) HandleBatch(ctx context.Context, job queue.BatchJob) BatchResult {
	logger := s.logger.With(slog.String("job_id", job.JobID))

	articles, err := s.articles.FetchByIDsAndState(ctx, job.ArticleIDs, entity.StateNew)
	if err != nil {
		return s.failBatch(ctx, logger, job, fmt.Errorf("fetch batch: %w", err))
	}

	if len(articles) == 0 {
		logger.Info("batch already processed, nothing to score")
		metrics.RecordBatchScored(false, 0)
		return BatchResult{JobID: job.JobID, Status: StatusSuccess}
	}

	texts := make([]string, len(articles))
	for i, article := range articles {
		texts[i] = article.ScoringText()
	}

	start := time.Now()
	results, err := s.analyzer.ScoreBatch(ctx, texts)
	if err != nil {
		return s.failBatch(ctx, logger, job, fmt.Errorf("score batch: %w", err))
	}
	if len(results) != len(articles) {
		return s.failBatch(ctx, logger, job,
			fmt.Errorf("score batch: got %d results for %d articles", len(results), len(articles)))
	}

	modelVersion := s.analyzer.ModelVersion()
	metrics.RecordScoringDuration(modelVersion, time.Since(start))

	processedAt := time.Now().UTC()
	scores := make([]*entity.SentimentScore, len(articles))
	for i, article := range articles {
		score, err := entity.NewSentimentScore(
			article.ID, results[i].Score, results[i].Label, modelVersion, processedAt)
		if err != nil {
			return s.failBatch(ctx, logger, job, fmt.Errorf("build score for article %d: %w", article.ID, err))
		}
		scores[i] = score
	}

	if err := s.sentiments.SaveBatch(ctx, scores); err != nil {
		return s.failBatch(ctx, logger, job, fmt.Errorf("persist batch: %w", err))
	}

	for _, result := range results {
		metrics.RecordArticleScored(string(result.Label))
	}
	metrics.RecordBatchScored(false, 0)

	logger.Info("batch scored",
		slog.Int("processed", len(scores)),
		slog.Int("skipped", len(job.ArticleIDs)-len(articles)),
		slog.String("model_version", modelVersion))

	return BatchResult{
		JobID:     job.JobID,
		Processed: len(scores),
		Status:    StatusSuccess,
	}
}

// failBatch is the poison pill guard: every article the job names is moved
// to the terminal errored state so the job is never worth redelivering.
// The errored write runs in its own transaction, outside the failed one.
func (s *Service) failBatch(ctx context.Context, logger *slog.Logger, job queue.BatchJob, cause error) BatchResult {
	logger.Error("batch failed, marking all articles errored",
		slog.Int("article_count", len(job.ArticleIDs)),
		slog.Any("error", cause))

	if err := s.articles.MarkErrored(ctx, job.ArticleIDs); err != nil {
		logger.Error("failed to mark batch errored",
			slog.Any("error", err))
		cause = fmt.Errorf("%w (mark errored also failed: %v)", cause, err)
	}

	metrics.RecordBatchScored(true, len(job.ArticleIDs))

	return BatchResult{
		JobID:   job.JobID,
		Errored: len(job.ArticleIDs),
		Status:  StatusErrored,
		Err:     cause,
	}
}
