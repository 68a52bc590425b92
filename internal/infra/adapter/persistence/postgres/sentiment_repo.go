package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"finsignal/internal/domain/entity"
	"finsignal/internal/repository"
)

type SentimentRepo struct {
	db *sql.DB
}

func NewSentimentRepo(db *sql.DB) repository.SentimentRepository {
	return &SentimentRepo{db: db}
}

// SaveBatch inserts all score rows and flips the scored articles to
// processed in one transaction. Any failure rolls back both writes so a
// batch is never half persisted.
func (repo *SentimentRepo) SaveBatch(ctx context.Context, scores []*entity.SentimentScore) error {
	defer observe("SaveBatch")()
	if len(scores) == 0 {
		return nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SaveBatch: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertQuery = `
INSERT INTO sentiment_scores (article_id, score, label, model_version, processed_at)
VALUES ($1, $2, $3, $4, $5)`

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("SaveBatch: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	articleIDs := make([]int64, 0, len(scores))
	for _, score := range scores {
		if _, err := stmt.ExecContext(ctx,
			score.ArticleID, score.Score, string(score.Label),
			score.ModelVersion, score.ProcessedAt); err != nil {
			return fmt.Errorf("SaveBatch: insert score for article %d: %w", score.ArticleID, err)
		}
		articleIDs = append(articleIDs, score.ArticleID)
	}

	const updateQuery = `UPDATE articles SET state = $1 WHERE id = ANY($2)`
	if _, err := tx.ExecContext(ctx, updateQuery,
		string(entity.StateProcessed), pq.Array(articleIDs)); err != nil {
		return fmt.Errorf("SaveBatch: mark processed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SaveBatch: commit: %w", err)
	}
	return nil
}

func (repo *SentimentRepo) CountByArticleIDs(ctx context.Context, ids []int64) (int64, error) {
	defer observe("CountByArticleIDs")()
	if len(ids) == 0 {
		return 0, nil
	}

	const query = `SELECT COUNT(*) FROM sentiment_scores WHERE article_id = ANY($1)`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, pq.Array(ids)).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByArticleIDs: %w", err)
	}
	return count, nil
}
