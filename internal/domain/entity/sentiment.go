package entity

import (
	"fmt"
	"time"
)

// SentimentLabel is the discrete classification emitted by a scoring capability.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNegative SentimentLabel = "negative"
	LabelNeutral  SentimentLabel = "neutral"
)

// Valid reports whether the label is one of the known sentiment classes.
func (l SentimentLabel) Valid() bool {
	switch l {
	case LabelPositive, LabelNegative, LabelNeutral:
		return true
	}
	return false
}

// SentimentScore is the scored result for a single article, produced once by
// the scoring worker and never mutated afterward. The scoring capability is
// the sole authority on the score-to-label mapping; the pipeline only
// validates the score bounds.
type SentimentScore struct {
	ID           int64
	ArticleID    int64
	Score        float64 // bounded to [-1.0, 1.0]
	Label        SentimentLabel
	ModelVersion string
	ProcessedAt  time.Time
}

// NewSentimentScore constructs a validated score row for an article.
func NewSentimentScore(articleID int64, score float64, label SentimentLabel, modelVersion string, processedAt time.Time) (*SentimentScore, error) {
	if articleID <= 0 {
		return nil, &ValidationError{Field: "article_id", Message: "article_id must be positive"}
	}
	if score < -1.0 || score > 1.0 {
		return nil, &ValidationError{
			Field:   "score",
			Message: fmt.Sprintf("score %.4f out of range [-1.0, 1.0]", score),
		}
	}
	if !label.Valid() {
		return nil, &ValidationError{Field: "label", Message: fmt.Sprintf("unknown label %q", label)}
	}
	if modelVersion == "" {
		return nil, &ValidationError{Field: "model_version", Message: "model_version is required"}
	}
	return &SentimentScore{
		ArticleID:    articleID,
		Score:        score,
		Label:        label,
		ModelVersion: modelVersion,
		ProcessedAt:  processedAt,
	}, nil
}
