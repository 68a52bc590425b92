package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSources(t *testing.T) {
	t.Parallel()

	sources := DefaultSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "reuters_business", sources[0].Name)
	assert.Equal(t, "investing_news", sources[1].Name)
	for _, src := range sources {
		assert.NotEmpty(t, src.URL)
	}
}

func TestLoadSources_Unset(t *testing.T) {
	t.Setenv("FEED_SOURCES_PATH", "")

	sources, err := LoadSources()
	require.NoError(t, err)
	assert.Equal(t, DefaultSources(), sources)
}

func TestLoadSources_FromFile(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: custom_feed
    url: https://example.com/rss
`)
	t.Setenv("FEED_SOURCES_PATH", path)

	sources, err := LoadSources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "custom_feed", sources[0].Name)
	assert.Equal(t, "https://example.com/rss", sources[0].URL)
}

func TestLoadSourcesFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty list", content: "sources: []"},
		{name: "missing name", content: "sources:\n  - url: https://example.com/rss"},
		{name: "invalid url", content: "sources:\n  - name: bad\n    url: ftp://example.com/rss"},
		{name: "private host", content: "sources:\n  - name: internal\n    url: http://192.168.1.1/rss"},
		{name: "not yaml", content: "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSourcesFile(t, tt.content)
			_, err := LoadSourcesFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadSourcesFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadSourcesFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
