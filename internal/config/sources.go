// Package config holds pipeline configuration: feed source definitions
// and scorer selection.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"finsignal/internal/domain/entity"
)

// FeedSource is one RSS feed to ingest.
type FeedSource struct {
	// Name identifies the source in logs, metrics, and stats
	Name string `yaml:"name"`

	// URL is the feed endpoint
	URL string `yaml:"url"`
}

// SourcesConfig is the on-disk shape of the feed source list.
type SourcesConfig struct {
	Sources []FeedSource `yaml:"sources"`
}

// DefaultSources returns the built-in feed list used when no sources
// file is configured.
func DefaultSources() []FeedSource {
	return []FeedSource{
		{Name: "reuters_business", URL: "https://feeds.reuters.com/reuters/businessNews"},
		{Name: "investing_news", URL: "https://www.investing.com/rss/news.rss"},
	}
}

// LoadSources loads feed sources from the YAML file at the
// FEED_SOURCES_PATH environment variable, falling back to the built-in
// defaults when the variable is unset. A configured but unreadable or
// invalid file is an error rather than a silent fallback.
func LoadSources() ([]FeedSource, error) {
	path := os.Getenv("FEED_SOURCES_PATH")
	if path == "" {
		return DefaultSources(), nil
	}
	return LoadSourcesFile(path)
}

// LoadSourcesFile loads and validates feed sources from a YAML file.
func LoadSourcesFile(path string) ([]FeedSource, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("LoadSourcesFile: read %s: %w", path, err)
	}

	var cfg SourcesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("LoadSourcesFile: parse %s: %w", path, err)
	}

	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("LoadSourcesFile: %s defines no sources", path)
	}

	for i, src := range cfg.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("LoadSourcesFile: source %d has no name", i)
		}
		if err := entity.ValidateURL(src.URL); err != nil {
			return nil, fmt.Errorf("LoadSourcesFile: source %s: %w", src.Name, err)
		}
	}

	return cfg.Sources, nil
}
