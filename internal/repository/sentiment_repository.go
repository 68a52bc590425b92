package repository

import (
	"context"

	"finsignal/internal/domain/entity"
)

// SentimentRepository persists scoring results.
type SentimentRepository interface {
	// SaveBatch bulk-inserts all score rows and transitions the
	// corresponding articles to Processed in one transaction. If any part
	// fails the whole transaction is rolled back: no partial scores, no
	// partial state transitions.
	SaveBatch(ctx context.Context, scores []*entity.SentimentScore) error
	// CountByArticleIDs returns the number of score rows bound to the given
	// articles. Used by operational checks and tests; the pipeline itself
	// enforces at most one current score per article per model version.
	CountByArticleIDs(ctx context.Context, ids []int64) (int64, error)
}
