package sentiment

import (
	"context"
	"strings"

	"finsignal/internal/domain/entity"
)

const keywordModelVersion = "keyword-v1.0"

var positiveKeywords = []string{
	"growth", "profit", "gain", "increase", "rise", "up", "positive",
	"strong", "bull", "bullish", "buy", "upgrade", "outperform",
	"revenue", "earnings", "beat", "exceed", "high", "good",
}

var negativeKeywords = []string{
	"loss", "fall", "decline", "drop", "down", "negative", "weak",
	"bear", "bearish", "sell", "downgrade", "underperform",
	"deficit", "miss", "low", "bad", "poor", "crisis",
}

// Keyword is a deterministic keyword-count heuristic scorer. It needs no
// model, performs no I/O, and never fails, which makes it the fallback
// capability when a real model is unavailable.
type Keyword struct{}

// NewKeyword returns the keyword-count scorer.
func NewKeyword() *Keyword {
	return &Keyword{}
}

// ScoreBatch scores each text by comparing positive and negative keyword
// counts: more positive hits yields (0.6, positive), more negative hits
// yields (-0.6, negative), a tie yields (0, neutral).
func (k *Keyword) ScoreBatch(_ context.Context, texts []string) ([]Result, error) {
	results := make([]Result, 0, len(texts))
	for _, text := range texts {
		results = append(results, scoreKeywords(text))
	}
	return results, nil
}

// ModelVersion implements Analyzer.
func (k *Keyword) ModelVersion() string {
	return keywordModelVersion
}

func scoreKeywords(text string) Result {
	lower := strings.ToLower(text)

	var positives, negatives int
	for _, word := range positiveKeywords {
		if strings.Contains(lower, word) {
			positives++
		}
	}
	for _, word := range negativeKeywords {
		if strings.Contains(lower, word) {
			negatives++
		}
	}

	switch {
	case positives > negatives:
		return Result{Score: 0.6, Label: entity.LabelPositive}
	case negatives > positives:
		return Result{Score: -0.6, Label: entity.LabelNegative}
	default:
		return Result{Score: 0, Label: entity.LabelNeutral}
	}
}
