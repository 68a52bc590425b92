// Package entity defines the core domain entities and validation logic for the
// application. It contains the fundamental business objects such as Article and
// SentimentScore, along with their validation rules and domain-specific errors.
package entity

import "time"

// ProcessingState describes where an article sits in the scoring pipeline.
// Transitions are New -> Processed or New -> Errored, and both terminal states
// are reached exactly once.
type ProcessingState string

const (
	StateNew       ProcessingState = "new"
	StateProcessed ProcessingState = "processed"
	StateErrored   ProcessingState = "errored"
)

// Valid reports whether the state is one of the known pipeline states.
func (s ProcessingState) Valid() bool {
	switch s {
	case StateNew, StateProcessed, StateErrored:
		return true
	}
	return false
}

// Terminal reports whether the state can no longer change.
func (s ProcessingState) Terminal() bool {
	return s == StateProcessed || s == StateErrored
}

// Article represents one ingested news item in the system.
// URL is globally unique and is the natural deduplication key: a second
// ingestion of the same URL must never create a second row.
type Article struct {
	ID          int64
	Source      string
	URL         string
	Headline    string
	Body        string
	Ticker      string // empty when no ticker could be extracted
	PublishedAt time.Time
	CreatedAt   time.Time
	State       ProcessingState
}

// Long enough for crypto pair symbols like BTC-USD.
const maxTickerLength = 10

// Validate checks the invariants an article must satisfy before persistence.
func (a *Article) Validate() error {
	if a.Source == "" {
		return &ValidationError{Field: "source", Message: "source is required"}
	}
	if err := ValidateURL(a.URL); err != nil {
		return err
	}
	if a.Headline == "" {
		return &ValidationError{Field: "headline", Message: "headline is required"}
	}
	if len(a.Ticker) > maxTickerLength {
		return &ValidationError{Field: "ticker", Message: "ticker is too long"}
	}
	if a.PublishedAt.IsZero() {
		return &ValidationError{Field: "published_at", Message: "published_at is required"}
	}
	if a.State != "" && !a.State.Valid() {
		return &ValidationError{Field: "state", Message: "unknown processing state"}
	}
	return nil
}

// ScoringText returns the text handed to the scoring capability:
// headline and body concatenated, matching what the ticker extractor saw.
func (a *Article) ScoringText() string {
	if a.Body == "" {
		return a.Headline
	}
	return a.Headline + " " + a.Body
}
