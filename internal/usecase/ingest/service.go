// Package ingest implements the feed ingestion flow: fetch each configured
// RSS source, normalize entries into articles, drop already-seen URLs, and
// bulk persist what remains.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"finsignal/internal/config"
	"finsignal/internal/domain/entity"
	"finsignal/internal/observability/metrics"
	"finsignal/internal/repository"
	"finsignal/internal/ticker"
)

// FeedItem is one normalized entry from a fetched feed.
type FeedItem struct {
	Title       string
	URL         string
	Content     string
	PublishedAt time.Time
}

// FeedFetcher retrieves and parses a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]FeedItem, error)
}

// SourceStats reports one ingestion cycle against one source.
type SourceStats struct {
	Source     string
	Found      int
	Inserted   int
	WithTicker int
	Duplicates int
	Errors     int
}

// Stats aggregates one ingestion cycle across all sources.
type Stats struct {
	mu        sync.Mutex
	perSource []SourceStats

	SourcesOK     int
	SourcesFailed int
}

// Add records one source's outcome.
func (s *Stats) Add(stats SourceStats, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perSource = append(s.perSource, stats)
	if failed {
		s.SourcesFailed++
		return
	}
	s.SourcesOK++
}

// PerSource returns the recorded per-source stats.
func (s *Stats) PerSource() []SourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SourceStats(nil), s.perSource...)
}

// Totals sums the per-source counters.
func (s *Stats) Totals() SourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total SourceStats
	for _, src := range s.perSource {
		total.Found += src.Found
		total.Inserted += src.Inserted
		total.WithTicker += src.WithTicker
		total.Duplicates += src.Duplicates
		total.Errors += src.Errors
	}
	return total
}

// Service coordinates feed ingestion.
type Service struct {
	articles repository.ArticleRepository
	fetcher  FeedFetcher
	logger   *slog.Logger

	// MaxParallelSources bounds concurrent source fetches
	MaxParallelSources int
}

// NewService creates an ingestion service.
func NewService(articles repository.ArticleRepository, fetcher FeedFetcher, logger *slog.Logger) *Service {
	return &Service{
		articles:           articles,
		fetcher:            fetcher,
		logger:             logger,
		MaxParallelSources: 4,
	}
}

// IngestAll runs one ingestion cycle over all sources. A failing source is
// logged and counted but never aborts the cycle; the returned IDs are the
// newly created articles across all sources.
func (s *Service) IngestAll(ctx context.Context, sources []config.FeedSource) ([]int64, *Stats, error) {
	stats := &Stats{}

	var mu sync.Mutex
	var createdIDs []int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.MaxParallelSources)

	for _, source := range sources {
		source := source
		g.Go(func() error {
			ids, srcStats, err := s.Ingest(gctx, source)
			if err != nil {
				s.logger.Error("source ingestion failed",
					slog.String("source", source.Name),
					slog.Any("error", err))
				stats.Add(srcStats, true)
				// fault isolation: one broken source must not stop the rest
				return nil
			}

			stats.Add(srcStats, false)
			mu.Lock()
			createdIDs = append(createdIDs, ids...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, fmt.Errorf("IngestAll: %w", err)
	}

	totals := stats.Totals()
	s.logger.Info("ingestion cycle complete",
		slog.Int("sources_ok", stats.SourcesOK),
		slog.Int("sources_failed", stats.SourcesFailed),
		slog.Int("found", totals.Found),
		slog.Int("inserted", totals.Inserted),
		slog.Int("with_ticker", totals.WithTicker),
		slog.Int("duplicates", totals.Duplicates),
		slog.Int("errors", totals.Errors))

	return createdIDs, stats, nil
}

// Ingest runs one ingestion cycle against a single source and returns the
// IDs of newly created articles.
func (s *Service) Ingest(ctx context.Context, source config.FeedSource) ([]int64, SourceStats, error) {
	stats := SourceStats{Source: source.Name}
	start := time.Now()

	items, err := s.fetcher.Fetch(ctx, source.URL)
	if err != nil {
		metrics.RecordFeedFetchError(source.Name, "fetch")
		return nil, stats, fmt.Errorf("Ingest: fetch %s: %w", source.Name, err)
	}
	stats.Found = len(items)

	candidates := s.normalize(source.Name, items, &stats)
	candidates, inBatchDupes := dedupeByURL(candidates)
	stats.Duplicates += inBatchDupes

	fresh, err := s.filterExisting(ctx, candidates, &stats)
	if err != nil {
		metrics.RecordFeedFetchError(source.Name, "persist")
		return nil, stats, fmt.Errorf("Ingest: %s: %w", source.Name, err)
	}

	ids, err := s.articles.BulkInsert(ctx, fresh)
	if err != nil {
		metrics.RecordFeedFetchError(source.Name, "persist")
		return nil, stats, fmt.Errorf("Ingest: persist %s: %w", source.Name, err)
	}
	stats.Inserted = len(ids)
	// rows that lost the insert race are counted as duplicates too
	stats.Duplicates += len(fresh) - len(ids)

	metrics.RecordFeedFetch(source.Name, time.Since(start), stats.Found, stats.Inserted, stats.Duplicates, stats.WithTicker)

	s.logger.Info("source ingested",
		slog.String("source", source.Name),
		slog.Int("found", stats.Found),
		slog.Int("inserted", stats.Inserted),
		slog.Int("with_ticker", stats.WithTicker),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("errors", stats.Errors))

	return ids, stats, nil
}

// normalize converts feed items into validated articles. Entries that fail
// validation are skipped and counted, never fatal.
func (s *Service) normalize(sourceName string, items []FeedItem, stats *SourceStats) []*entity.Article {
	articles := make([]*entity.Article, 0, len(items))
	for _, item := range items {
		article, err := s.buildArticle(sourceName, item)
		if err != nil {
			stats.Errors++
			metrics.RecordFeedFetchError(sourceName, "parse")
			s.logger.Warn("skipping malformed feed entry",
				slog.String("source", sourceName),
				slog.String("url", item.URL),
				slog.Any("error", err))
			continue
		}
		if article.Ticker != "" {
			stats.WithTicker++
		}
		articles = append(articles, article)
	}
	return articles
}

func (s *Service) buildArticle(sourceName string, item FeedItem) (*entity.Article, error) {
	headline := strings.TrimSpace(item.Title)
	body := stripMarkup(item.Content)

	publishedAt := item.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	article := &entity.Article{
		Source:      sourceName,
		URL:         strings.TrimSpace(item.URL),
		Headline:    headline,
		Body:        body,
		Ticker:      ticker.Extract(headline + " " + body),
		PublishedAt: publishedAt,
		State:       entity.StateNew,
	}

	if err := article.Validate(); err != nil {
		return nil, err
	}
	return article, nil
}

// filterExisting drops articles whose URL is already persisted, updating
// the duplicate counter. The database constraint remains the final
// authority; this pre-check just avoids pointless insert attempts.
func (s *Service) filterExisting(ctx context.Context, articles []*entity.Article, stats *SourceStats) ([]*entity.Article, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(articles))
	for _, a := range articles {
		urls = append(urls, a.URL)
	}

	exists, err := s.articles.ExistsByURLBatch(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("filterExisting: %w", err)
	}

	fresh := make([]*entity.Article, 0, len(articles))
	for _, a := range articles {
		if exists[a.URL] {
			stats.Duplicates++
			continue
		}
		fresh = append(fresh, a)
	}
	return fresh, nil
}

// dedupeByURL removes repeated URLs within a single fetched feed, keeping
// the first occurrence.
func dedupeByURL(articles []*entity.Article) ([]*entity.Article, int) {
	seen := make(map[string]bool, len(articles))
	unique := make([]*entity.Article, 0, len(articles))
	dupes := 0
	for _, a := range articles {
		if seen[a.URL] {
			dupes++
			continue
		}
		seen[a.URL] = true
		unique = append(unique, a)
	}
	return unique, dupes
}

// stripMarkup reduces feed HTML to plain text.
func stripMarkup(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "<") {
		return trimmed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
