// Package metrics provides centralized Prometheus metrics for the pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics track feed fetching and article persistence
var (
	// ArticlesFetchedTotal counts feed entries seen per source
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Total number of feed entries fetched from sources",
		},
		[]string{"source"},
	)

	// ArticlesIngestedTotal counts newly persisted articles per source
	ArticlesIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_ingested_total",
			Help: "Total number of new articles persisted",
		},
		[]string{"source"},
	)

	// ArticlesWithTickerTotal counts ingested entries that resolved to a ticker
	ArticlesWithTickerTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_with_ticker_total",
			Help: "Total number of ingested entries with an extracted ticker symbol",
		},
		[]string{"source"},
	)

	// ArticlesDuplicateTotal counts entries skipped as already-seen URLs
	ArticlesDuplicateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_duplicate_total",
			Help: "Total number of feed entries skipped as duplicates",
		},
		[]string{"source"},
	)

	// FeedFetchDuration measures time to fetch and parse a feed
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// FeedFetchErrors counts errors during feed fetching
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed fetch errors",
		},
		[]string{"source", "error_type"},
	)
)

// Dispatch metrics track batch job publication
var (
	// BatchesDispatchedTotal counts batch jobs published to the work queue
	BatchesDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batches_dispatched_total",
			Help: "Total number of scoring batch jobs dispatched",
		},
		[]string{"status"},
	)

	// BatchSize measures the number of article IDs per dispatched batch
	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batch_size_articles",
			Help:    "Number of article IDs per dispatched batch",
			Buckets: []float64{1, 2, 5, 10, 15, 20},
		},
	)
)

// Scoring metrics track sentiment batch processing
var (
	// BatchesScoredTotal counts scoring batch outcomes
	BatchesScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batches_scored_total",
			Help: "Total number of scoring batches processed",
		},
		[]string{"status"}, // status: success, errored
	)

	// ArticlesScoredTotal counts articles scored by sentiment label
	ArticlesScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_scored_total",
			Help: "Total number of articles scored",
		},
		[]string{"label"},
	)

	// ArticlesErroredTotal counts articles marked errored by poison pill handling
	ArticlesErroredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_errored_total",
			Help: "Total number of articles marked errored",
		},
	)

	// ScoringDuration measures time to score a batch of articles
	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_duration_seconds",
			Help:    "Time taken to score a batch of articles",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"model"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "bulk_insert_articles").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
