// Package scraper fetches RSS/Atom feeds with the gofeed library, wrapped
// in retry, circuit breaker, and rate limiting.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"finsignal/internal/resilience/circuitbreaker"
	"finsignal/internal/resilience/retry"
	"finsignal/internal/usecase/ingest"
)

const userAgent = "finsignal-ingestor/1.0"

// RSSFetcher implements ingest.FeedFetcher using gofeed.
// Each feed host gets its own circuit breaker so one dead host cannot
// block fetches from the others, and a shared rate limiter keeps the
// ingestor polite toward feed providers.
type RSSFetcher struct {
	client      *http.Client
	retryConfig retry.Config
	limiter     *rate.Limiter

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

// NewRSSFetcher creates an RSSFetcher with the given HTTP client.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RSSFetcher{
		client:      client,
		retryConfig: retry.FeedFetchConfig(),
		// 2 req/s with a small burst is enough for a handful of feeds
		limiter:  rate.NewLimiter(rate.Limit(2), 4),
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// Fetch retrieves and parses a feed from the given URL.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]ingest.FeedItem, error) {
	breaker, err := f.breakerFor(feedURL)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	var items []ingest.FeedItem
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}
		return breaker.Execute(func() error {
			fetched, err := f.doFetch(ctx, feedURL)
			if err != nil {
				return err
			}
			items = fetched
			return nil
		})
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return items, nil
}

// doFetch performs the actual fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]ingest.FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ingest.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, ingest.FeedItem{
			Title:       it.Title,
			URL:         it.Link,
			Content:     itemContent(it),
			PublishedAt: itemPublishedAt(it),
		})
	}
	return items, nil
}

// itemContent prefers the summary-style description, then the full content
// block, then the title, so the body text is never empty.
func itemContent(it *gofeed.Item) string {
	if it.Description != "" {
		return it.Description
	}
	if it.Content != "" {
		return it.Content
	}
	return it.Title
}

// itemPublishedAt falls back from published to updated to now, so an entry
// without usable timestamps still gets a stable ingestion time.
func itemPublishedAt(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return *it.PublishedParsed
	}
	if it.UpdatedParsed != nil {
		return *it.UpdatedParsed
	}
	return time.Now().UTC()
}

func (f *RSSFetcher) breakerFor(feedURL string) (*circuitbreaker.CircuitBreaker, error) {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return nil, err
	}
	host := parsed.Hostname()

	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := f.breakers[host]; ok {
		return cb, nil
	}
	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig(host))
	f.breakers[host] = cb
	return cb, nil
}
