package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScorerType(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		want    ScorerType
		wantErr bool
	}{
		{name: "unset defaults to vader", env: "", want: ScorerVader},
		{name: "vader", env: "vader", want: ScorerVader},
		{name: "openai", env: "openai", want: ScorerOpenAI},
		{name: "keyword", env: "keyword", want: ScorerKeyword},
		{name: "unknown", env: "finbert", wantErr: true},
		{name: "wrong case", env: "VADER", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCORER_TYPE", tt.env)

			got, err := LoadScorerType()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
