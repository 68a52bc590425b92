package metrics

import "time"

// RecordFeedFetch records metrics for one feed fetch cycle against a source.
func RecordFeedFetch(source string, duration time.Duration, found, inserted, duplicated, withTicker int) {
	FeedFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	if found > 0 {
		ArticlesFetchedTotal.WithLabelValues(source).Add(float64(found))
	}
	if inserted > 0 {
		ArticlesIngestedTotal.WithLabelValues(source).Add(float64(inserted))
	}
	if duplicated > 0 {
		ArticlesDuplicateTotal.WithLabelValues(source).Add(float64(duplicated))
	}
	if withTicker > 0 {
		ArticlesWithTickerTotal.WithLabelValues(source).Add(float64(withTicker))
	}
}

// RecordFeedFetchError records an error during feed fetching.
// ErrorType should classify the failure (e.g., "fetch", "parse", "persist").
func RecordFeedFetchError(source, errorType string) {
	FeedFetchErrors.WithLabelValues(source, errorType).Inc()
}

// RecordBatchDispatched records the result of publishing one batch job.
func RecordBatchDispatched(success bool, size int) {
	status := "success"
	if !success {
		status = "failure"
	}
	BatchesDispatchedTotal.WithLabelValues(status).Inc()
	if success {
		BatchSize.Observe(float64(size))
	}
}

// RecordBatchScored records the outcome of one scoring batch.
// Errored batches also record the number of articles marked errored.
func RecordBatchScored(errored bool, articleCount int) {
	if errored {
		BatchesScoredTotal.WithLabelValues("errored").Inc()
		ArticlesErroredTotal.Add(float64(articleCount))
		return
	}
	BatchesScoredTotal.WithLabelValues("success").Inc()
}

// RecordArticleScored records one scored article by its sentiment label.
func RecordArticleScored(label string) {
	ArticlesScoredTotal.WithLabelValues(label).Inc()
}

// RecordScoringDuration records the time a model took to score a batch.
func RecordScoringDuration(model string, duration time.Duration) {
	ScoringDuration.WithLabelValues(model).Observe(duration.Seconds())
}
