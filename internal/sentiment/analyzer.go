// Package sentiment provides pluggable scoring capabilities that turn text
// into a sentiment score and label. Implementations are constructed once at
// worker startup and injected into the scoring service; they are treated as
// read-only at inference time and safe to reuse across sequential batches.
package sentiment

import (
	"context"
	"fmt"

	"finsignal/internal/domain/entity"
)

// Result is one scored text: a score bounded to [-1.0, 1.0] and the label the
// scoring capability derived from it. The capability is the sole authority on
// the score-to-label mapping.
type Result struct {
	Score float64
	Label entity.SentimentLabel
}

// Analyzer is the scoring capability consumed by the scoring worker.
type Analyzer interface {
	// ScoreBatch scores all texts in one call, returning results in the
	// same order and of the same length as the input so callers can map
	// results back to their items by position.
	ScoreBatch(ctx context.Context, texts []string) ([]Result, error)
	// ModelVersion identifies the model that produced the results; it is
	// recorded on every persisted score row.
	ModelVersion() string
}

// fallbackAnalyzer tries the primary capability and falls back to a
// deterministic secondary when the primary is unavailable, so the pipeline
// never blocks on model unavailability.
type fallbackAnalyzer struct {
	primary  Analyzer
	fallback Analyzer
	lastUsed string
}

// WithFallback wraps primary so that any scoring failure is retried once
// against fallback. The fallback must be deterministic and local (no I/O).
func WithFallback(primary, fallback Analyzer) Analyzer {
	return &fallbackAnalyzer{primary: primary, fallback: fallback}
}

func (a *fallbackAnalyzer) ScoreBatch(ctx context.Context, texts []string) ([]Result, error) {
	results, err := a.primary.ScoreBatch(ctx, texts)
	if err == nil {
		a.lastUsed = a.primary.ModelVersion()
		return results, nil
	}

	results, fbErr := a.fallback.ScoreBatch(ctx, texts)
	if fbErr != nil {
		return nil, fmt.Errorf("primary scorer: %v; fallback scorer: %w", err, fbErr)
	}
	a.lastUsed = a.fallback.ModelVersion()
	return results, nil
}

// ModelVersion reports the version of whichever capability produced the most
// recent batch, defaulting to the primary before any batch has run.
func (a *fallbackAnalyzer) ModelVersion() string {
	if a.lastUsed != "" {
		return a.lastUsed
	}
	return a.primary.ModelVersion()
}
