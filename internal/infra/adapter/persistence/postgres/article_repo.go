package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"finsignal/internal/domain/entity"
	"finsignal/internal/observability/metrics"
	"finsignal/internal/repository"
)

// observe times a query for the db duration histogram.
func observe(operation string) func() {
	start := time.Now()
	return func() { metrics.RecordDBQuery(operation, time.Since(start)) }
}

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

const articleColumns = `id, source, url, headline, body, ticker, published_at, created_at, state`

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	defer observe("Get")()
	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE id = $1`

	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("Get: article %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) FindByURL(ctx context.Context, url string) (*entity.Article, error) {
	defer observe("FindByURL")()
	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE url = $1`

	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByURL: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	defer observe("ExistsByURLBatch")()
	result := make(map[string]bool, len(urls))
	for _, url := range urls {
		result[url] = false
	}
	if len(urls) == 0 {
		return result, nil
	}

	const query = `SELECT url FROM articles WHERE url = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(urls))
	if err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("ExistsByURLBatch: Scan: %w", err)
		}
		result[url] = true
	}
	return result, rows.Err()
}

func (repo *ArticleRepo) BulkInsert(ctx context.Context, articles []*entity.Article) ([]int64, error) {
	defer observe("BulkInsert")()
	if len(articles) == 0 {
		return nil, nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("BulkInsert: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// ON CONFLICT DO NOTHING makes the url uniqueness constraint the final
	// authority on deduplication: a row that lost the race simply returns
	// no id and is skipped without failing the batch.
	const query = `
INSERT INTO articles (source, url, headline, body, ticker, published_at, state)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (url) DO NOTHING
RETURNING id`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("BulkInsert: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ids := make([]int64, 0, len(articles))
	for _, article := range articles {
		var id int64
		err := stmt.QueryRowContext(ctx,
			article.Source,
			article.URL,
			article.Headline,
			article.Body,
			nullableTicker(article.Ticker),
			article.PublishedAt,
			string(entity.StateNew),
		).Scan(&id)
		if err == sql.ErrNoRows {
			// duplicate url, skipped
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("BulkInsert: insert %s: %w", article.URL, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("BulkInsert: commit: %w", err)
	}
	return ids, nil
}

func (repo *ArticleRepo) FetchByIDsAndState(ctx context.Context, ids []int64, state entity.ProcessingState) ([]*entity.Article, error) {
	defer observe("FetchByIDsAndState")()
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE id = ANY($1) AND state = $2
ORDER BY id`

	rows, err := repo.db.QueryContext(ctx, query, pq.Array(ids), string(state))
	if err != nil {
		return nil, fmt.Errorf("FetchByIDsAndState: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, len(ids))
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("FetchByIDsAndState: Scan: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) MarkErrored(ctx context.Context, ids []int64) error {
	defer observe("MarkErrored")()
	if len(ids) == 0 {
		return nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("MarkErrored: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Processed and errored are terminal: only new articles may move to
	// errored, so a redelivered job can never un-process a scored article.
	const query = `UPDATE articles SET state = $1 WHERE id = ANY($2) AND state = $3`
	if _, err := tx.ExecContext(ctx, query,
		string(entity.StateErrored), pq.Array(ids), string(entity.StateNew)); err != nil {
		return fmt.Errorf("MarkErrored: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("MarkErrored: commit: %w", err)
	}
	return nil
}

// scanTarget covers both *sql.Row and *sql.Rows.
type scanTarget interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row scanTarget) (*entity.Article, error) {
	var article entity.Article
	var ticker sql.NullString
	var state string
	if err := row.Scan(&article.ID, &article.Source, &article.URL,
		&article.Headline, &article.Body, &ticker,
		&article.PublishedAt, &article.CreatedAt, &state); err != nil {
		return nil, err
	}
	if ticker.Valid {
		article.Ticker = ticker.String
	}
	article.State = entity.ProcessingState(state)
	return &article, nil
}

func nullableTicker(ticker string) sql.NullString {
	if ticker == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: ticker, Valid: true}
}
