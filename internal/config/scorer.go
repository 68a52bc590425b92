package config

import (
	"fmt"
	"os"
)

// ScorerType selects the sentiment model backing the scoring worker.
type ScorerType string

const (
	// ScorerVader is the local lexicon-based model. Default.
	ScorerVader ScorerType = "vader"

	// ScorerOpenAI scores batches through the OpenAI chat API.
	ScorerOpenAI ScorerType = "openai"

	// ScorerKeyword is the coarse keyword fallback model.
	ScorerKeyword ScorerType = "keyword"
)

// LoadScorerType reads SCORER_TYPE from the environment. Unset means vader;
// an unknown value is an error so a typo cannot silently change models.
func LoadScorerType() (ScorerType, error) {
	raw := os.Getenv("SCORER_TYPE")
	if raw == "" {
		return ScorerVader, nil
	}

	st := ScorerType(raw)
	switch st {
	case ScorerVader, ScorerOpenAI, ScorerKeyword:
		return st, nil
	default:
		return "", fmt.Errorf("LoadScorerType: unknown SCORER_TYPE %q", raw)
	}
}
