package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validArticle() Article {
	return Article{
		Source:      "reuters",
		URL:         "https://example.com/markets/apple-earnings",
		Headline:    "Apple beats earnings expectations",
		Body:        "Apple reported strong growth and record profits.",
		Ticker:      "AAPL",
		PublishedAt: time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC),
		State:       StateNew,
	}
}

func TestArticle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Article)
		wantErr bool
	}{
		{name: "valid", mutate: func(a *Article) {}},
		{name: "no ticker is valid", mutate: func(a *Article) { a.Ticker = "" }},
		{name: "empty state is valid", mutate: func(a *Article) { a.State = "" }},
		{name: "missing source", mutate: func(a *Article) { a.Source = "" }, wantErr: true},
		{name: "missing url", mutate: func(a *Article) { a.URL = "" }, wantErr: true},
		{name: "non-http url", mutate: func(a *Article) { a.URL = "ftp://example.com/x" }, wantErr: true},
		{name: "missing headline", mutate: func(a *Article) { a.Headline = "" }, wantErr: true},
		{name: "empty body is valid", mutate: func(a *Article) { a.Body = "" }},
		{name: "crypto pair ticker is valid", mutate: func(a *Article) { a.Ticker = "BTC-USD" }},
		{name: "ticker too long", mutate: func(a *Article) { a.Ticker = "WAYTOOLONGSYM" }, wantErr: true},
		{name: "zero published_at", mutate: func(a *Article) { a.PublishedAt = time.Time{} }, wantErr: true},
		{name: "unknown state", mutate: func(a *Article) { a.State = "pending" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArticle()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessingState_Terminal(t *testing.T) {
	assert.False(t, StateNew.Terminal())
	assert.True(t, StateProcessed.Terminal())
	assert.True(t, StateErrored.Terminal())
}

func TestProcessingState_Valid(t *testing.T) {
	assert.True(t, StateNew.Valid())
	assert.True(t, StateProcessed.Valid())
	assert.True(t, StateErrored.Valid())
	assert.False(t, ProcessingState("pending").Valid())
	assert.False(t, ProcessingState("").Valid())
}

func TestArticle_ScoringText(t *testing.T) {
	a := validArticle()
	got := a.ScoringText()
	assert.True(t, strings.HasPrefix(got, a.Headline))
	assert.True(t, strings.HasSuffix(got, a.Body))
}

func TestValidateURL_TooLong(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", maxURLLength)
	assert.Error(t, ValidateURL(long))
}
