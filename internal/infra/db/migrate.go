package db

import "database/sql"

// MigrateUp creates the pipeline schema. All statements are idempotent so
// the migration can run on every process start.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id           BIGSERIAL PRIMARY KEY,
    source       TEXT NOT NULL,
    url          TEXT NOT NULL UNIQUE,
    headline     TEXT NOT NULL,
    body         TEXT NOT NULL DEFAULT '',
    ticker       VARCHAR(10),
    published_at TIMESTAMPTZ NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    state        VARCHAR(10) NOT NULL DEFAULT 'new',
    CONSTRAINT chk_articles_state CHECK (state IN ('new', 'processed', 'errored'))
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS sentiment_scores (
    id            BIGSERIAL PRIMARY KEY,
    article_id    BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    score         DOUBLE PRECISION NOT NULL,
    label         VARCHAR(10) NOT NULL,
    model_version VARCHAR(50) NOT NULL,
    processed_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT chk_sentiment_label CHECK (label IN ('positive', 'negative', 'neutral')),
    CONSTRAINT chk_sentiment_score CHECK (score >= -1.0 AND score <= 1.0),
    UNIQUE (article_id, model_version)
)`); err != nil {
		return err
	}

	indexes := []string{
		// batch fetch of unscored work keys on state
		`CREATE INDEX IF NOT EXISTS idx_articles_state ON articles(state)`,
		// duplicate pre-check and conflict target
		`CREATE INDEX IF NOT EXISTS idx_articles_url ON articles(url)`,
		// recency queries
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		// ticker rollups
		`CREATE INDEX IF NOT EXISTS idx_articles_ticker ON articles(ticker) WHERE ticker IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_sentiment_scores_article_id ON sentiment_scores(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sentiment_scores_label ON sentiment_scores(label)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// MigrateDown drops the pipeline schema.
// Use with caution: this deletes all ingested and scored data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS sentiment_scores CASCADE`,
		`DROP TABLE IF EXISTS articles CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
