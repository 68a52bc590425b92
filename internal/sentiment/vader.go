package sentiment

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonreiter/govader"

	"finsignal/internal/domain/entity"
)

const (
	vaderModelVersion = "vader-v1.0"

	// positiveCutoff/negativeCutoff map VADER's compound score onto labels.
	// Scores inside (-0.20, 0.20) are considered neutral.
	positiveCutoff = 0.20
	negativeCutoff = -0.20

	// vaderChunkSize bounds how many texts are pushed through the analyzer
	// between scheduler yields on very large batches.
	vaderChunkSize = 16
)

// Vader scores text with the VADER lexicon. The underlying analyzer holds
// its lexicon in memory, is loaded once, and is read-only at inference time.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader constructs the analyzer and runs one warm-up inference so the
// first real batch does not pay the initialization cost.
func NewVader() *Vader {
	v := &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}

	start := time.Now()
	v.analyzer.PolarityScores("The market is showing positive trends.")
	slog.Info("vader analyzer loaded",
		slog.String("model_version", vaderModelVersion),
		slog.Duration("warmup", time.Since(start)))

	return v
}

// ScoreBatch scores all texts in input order. It only fails when the context
// is cancelled mid-batch.
func (v *Vader) ScoreBatch(ctx context.Context, texts []string) ([]Result, error) {
	results := make([]Result, 0, len(texts))
	for i, text := range texts {
		if i%vaderChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		compound := v.analyzer.PolarityScores(text).Compound
		results = append(results, Result{Score: compound, Label: labelFor(compound)})
	}
	return results, nil
}

// ModelVersion implements Analyzer.
func (v *Vader) ModelVersion() string {
	return vaderModelVersion
}

func labelFor(score float64) entity.SentimentLabel {
	switch {
	case score >= positiveCutoff:
		return entity.LabelPositive
	case score <= negativeCutoff:
		return entity.LabelNegative
	default:
		return entity.LabelNeutral
	}
}
