package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordFeedFetch(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		found      int
		inserted   int
		duplicated int
		withTicker int
	}{
		{
			name:       "all new",
			source:     "reuters_business",
			found:      10,
			inserted:   10,
			withTicker: 3,
		},
		{
			name:       "mixed",
			source:     "investing_news",
			found:      10,
			inserted:   4,
			duplicated: 6,
		},
		{
			name:   "empty feed",
			source: "reuters_business",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFeedFetch(tt.source, 250*time.Millisecond, tt.found, tt.inserted, tt.duplicated, tt.withTicker)
			})
		})
	}
}

func TestRecordFeedFetchError(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordFeedFetchError("reuters_business", "fetch")
		RecordFeedFetchError("investing_news", "parse")
	})
}

func TestRecordBatchDispatched(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordBatchDispatched(true, 20)
		RecordBatchDispatched(true, 1)
		RecordBatchDispatched(false, 0)
	})
}

func TestRecordBatchScored(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordBatchScored(false, 16)
		RecordBatchScored(true, 16)
	})
}

func TestRecordArticleScored(t *testing.T) {
	for _, label := range []string{"positive", "negative", "neutral"} {
		assert.NotPanics(t, func() {
			RecordArticleScored(label)
		})
	}
}

func TestRecordScoringDuration(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordScoringDuration("vader-v1.0", 120*time.Millisecond)
	})
}

func TestRecordDBQuery(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDBQuery("bulk_insert_articles", 5*time.Millisecond)
	})
}

func TestUpdateDBConnectionStats(t *testing.T) {
	assert.NotPanics(t, func() {
		UpdateDBConnectionStats(4, 2)
	})
}
