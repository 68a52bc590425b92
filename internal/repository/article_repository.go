package repository

import (
	"context"

	"finsignal/internal/domain/entity"
)

// ArticleRepository is the persistence surface the pipeline consumes for
// articles. All bulk write operations are transactional with
// rollback-on-failure semantics.
type ArticleRepository interface {
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// FindByURL returns the article with the given URL, or (nil, nil) when
	// no such article exists. Used by the ingestion dedup pre-check.
	FindByURL(ctx context.Context, url string) (*entity.Article, error)
	// ExistsByURLBatch checks many URLs in one round trip, avoiding an N+1
	// query pattern during ingestion.
	ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error)
	// BulkInsert persists all articles in a single transaction and returns
	// the IDs of the rows actually created. Rows whose URL already exists
	// are silently skipped (the url uniqueness constraint is the final
	// authority on deduplication); they do not appear in the returned IDs
	// and do not fail the batch. On any other failure the whole batch is
	// rolled back and no IDs are returned.
	BulkInsert(ctx context.Context, articles []*entity.Article) ([]int64, error)
	// FetchByIDsAndState returns the articles whose ID is in ids AND whose
	// state matches, in one query. Used by the scoring worker as the
	// idempotence guard against queue redelivery.
	FetchByIDsAndState(ctx context.Context, ids []int64, state entity.ProcessingState) ([]*entity.Article, error)
	// MarkErrored transitions every given article to the terminal Errored
	// state in a single transaction. This is the poison-pill prevention
	// write and must succeed independently of the scoring transaction.
	MarkErrored(ctx context.Context, ids []int64) error
}
