package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/subosito/gotenv"

	"finsignal/internal/config"
	pgRepo "finsignal/internal/infra/adapter/persistence/postgres"
	"finsignal/internal/infra/db"
	"finsignal/internal/infra/queue"
	"finsignal/internal/infra/scraper"
	workerPkg "finsignal/internal/infra/worker"
	"finsignal/internal/observability/logging"
	"finsignal/internal/usecase/dispatch"
	"finsignal/internal/usecase/ingest"
)

func main() {
	_ = gotenv.Load()
	logger := initLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go db.ReportPoolStats(ctx, database, 30*time.Second)

	jobMetrics := workerPkg.NewJobMetrics("ingestor")
	cfg, err := workerPkg.LoadIngestorConfigFromEnv(logger, jobMetrics)
	if err != nil {
		logger.Error("failed to load ingestor configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("ingestor configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("ingest_timeout", cfg.IngestTimeout),
		slog.Int("max_parallel_sources", cfg.MaxParallelSources),
		slog.Int("health_port", cfg.HealthPort),
		slog.Int("metrics_port", cfg.MetricsPort))

	sources, err := config.LoadSources()
	if err != nil {
		logger.Error("failed to load feed sources", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("feed sources loaded", slog.Int("count", len(sources)))

	publisher, err := queue.NewKafkaPublisher(queue.ConfigFromEnv(), logger)
	if err != nil {
		logger.Error("failed to create batch publisher", slog.Any("error", err))
		os.Exit(1)
	}
	defer publisher.Close()

	ingestSvc := ingest.NewService(pgRepo.NewArticleRepo(database), scraper.NewRSSFetcher(createHTTPClient()), logger)
	ingestSvc.MaxParallelSources = cfg.MaxParallelSources
	dispatchSvc := dispatch.NewService(publisher, logger)

	startMetricsServer(ctx, logger, cfg.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", cfg.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	startCronWorker(ctx, logger, ingestSvc, dispatchSvc, sources, cfg, jobMetrics, healthServer)
}

func initLogger() *slog.Logger {
	var logger *slog.Logger
	if os.Getenv("APP_ENV") == "dev" {
		logger = logging.NewTextLogger()
	} else {
		logger = logging.NewLogger()
	}
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and applies schema migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// createHTTPClient creates an HTTP client for feed fetching with timeouts
// and connection pooling. TLS 1.2+ is enforced.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

func startMetricsServer(ctx context.Context, logger *slog.Logger, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}()
}

// startCronWorker schedules the ingestion job and blocks until shutdown.
func startCronWorker(
	ctx context.Context,
	logger *slog.Logger,
	ingestSvc *ingest.Service,
	dispatchSvc *dispatch.Service,
	sources []config.FeedSource,
	cfg *workerPkg.IngestorConfig,
	metrics *workerPkg.JobMetrics,
	healthServer *workerPkg.HealthServer,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runIngestJob(logger, ingestSvc, dispatchSvc, sources, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("ingestor started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping scheduler")
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.IngestTimeout):
		logger.Warn("running job did not finish before shutdown deadline")
	}
}

// runIngestJob executes one ingest-and-dispatch cycle with a timeout.
func runIngestJob(
	logger *slog.Logger,
	ingestSvc *ingest.Service,
	dispatchSvc *dispatch.Service,
	sources []config.FeedSource,
	cfg *workerPkg.IngestorConfig,
	metrics *workerPkg.JobMetrics,
) {
	startTime := time.Now()
	logger.Info("ingest cycle started", slog.Int("sources", len(sources)))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.IngestTimeout)
	defer cancel()

	createdIDs, stats, err := ingestSvc.IngestAll(ctx, sources)
	if err != nil {
		logger.Error("ingest cycle failed", slog.Any("error", err))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	published, dispatchErr := dispatchSvc.Dispatch(ctx, createdIDs)
	if dispatchErr != nil {
		logger.Error("batch dispatch failed",
			slog.Int("published", published),
			slog.Any("error", dispatchErr))
		metrics.RecordJobRun("failure")
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
		return
	}

	totals := stats.Totals()
	metrics.RecordJobRun("success")
	metrics.RecordJobDuration(time.Since(startTime).Seconds())
	metrics.RecordItemsProcessed(totals.Inserted)
	metrics.RecordLastSuccess()

	logger.Info("ingest cycle completed",
		slog.Int("sources_ok", stats.SourcesOK),
		slog.Int("sources_failed", stats.SourcesFailed),
		slog.Int("found", totals.Found),
		slog.Int("inserted", totals.Inserted),
		slog.Int("duplicates", totals.Duplicates),
		slog.Int("errors", totals.Errors),
		slog.Int("batches_published", published),
		slog.Duration("duration", time.Since(startTime)),
	)
}
