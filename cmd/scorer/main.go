package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/subosito/gotenv"

	"finsignal/internal/config"
	pgRepo "finsignal/internal/infra/adapter/persistence/postgres"
	"finsignal/internal/infra/db"
	"finsignal/internal/infra/queue"
	workerPkg "finsignal/internal/infra/worker"
	"finsignal/internal/observability/logging"
	pkgconfig "finsignal/internal/pkg/config"
	"finsignal/internal/sentiment"
	"finsignal/internal/usecase/score"
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

	jobMetrics := workerPkg.NewJobMetrics("scorer")

	analyzer, err := createAnalyzer(logger)
	if err != nil {
		logger.Error("failed to create sentiment analyzer", slog.Any("error", err))
		os.Exit(1)
	}

	consumer, err := queue.NewKafkaConsumer(queue.ConfigFromEnv(), logger)
	if err != nil {
		logger.Error("failed to create batch consumer", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error("failed to close consumer", slog.Any("error", err))
		}
	}()

	svc := score.NewService(
		pgRepo.NewArticleRepo(database),
		pgRepo.NewSentimentRepo(database),
		analyzer,
		logger,
	)

	healthPort := loadPort(logger, "SCORER_HEALTH_PORT", 9093)
	metricsPort := loadPort(logger, "SCORER_METRICS_PORT", 9094)
	startMetricsServer(ctx, logger, metricsPort)

	healthAddr := fmt.Sprintf(":%d", healthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	healthServer.SetReady(true)
	logger.Info("scorer started", slog.String("model", analyzer.ModelVersion()))

	if err := runConsumerLoop(ctx, logger, consumer, svc, jobMetrics); err != nil {
		logger.Error("consumer loop failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("scorer shut down")
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
// Running migrations in both binaries keeps either safe to start first.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// createAnalyzer builds the scorer selected by SCORER_TYPE. Remote scorers
// fall back to the keyword scorer so a provider outage degrades scoring
// quality instead of erroring whole batches.
func createAnalyzer(logger *slog.Logger) (sentiment.Analyzer, error) {
	scorerType, err := config.LoadScorerType()
	if err != nil {
		return nil, err
	}

	switch scorerType {
	case config.ScorerVader:
		logger.Info("using VADER sentiment scorer")
		return sentiment.NewVader(), nil
	case config.ScorerOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required when SCORER_TYPE=openai")
		}
		logger.Info("using OpenAI sentiment scorer with keyword fallback")
		primary := sentiment.NewOpenAI(apiKey, sentiment.DefaultOpenAIConfig())
		return sentiment.WithFallback(primary, sentiment.NewKeyword()), nil
	case config.ScorerKeyword:
		logger.Info("using keyword sentiment scorer")
		return sentiment.NewKeyword(), nil
	default:
		return nil, fmt.Errorf("unsupported scorer type %q", scorerType)
	}
}

func loadPort(logger *slog.Logger, envVar string, fallback int) int {
	result := pkgconfig.LoadEnvInt(envVar, fallback, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1024, 65535)
	})
	for _, warning := range result.Warnings {
		logger.Warn("configuration fallback applied",
			slog.String("field", envVar),
			slog.String("warning", warning))
	}
	return result.Value.(int)
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

// runConsumerLoop pulls batch jobs until the context is cancelled. Every
// delivery is committed exactly once regardless of scoring outcome: failed
// batches are already marked errored, so redelivery would only churn.
func runConsumerLoop(
	ctx context.Context,
	logger *slog.Logger,
	consumer *queue.KafkaConsumer,
	svc *score.Service,
	metrics *workerPkg.JobMetrics,
) error {
	for {
		delivery, err := consumer.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		startTime := time.Now()
		result := svc.HandleBatch(ctx, delivery.Job)

		if result.Status == score.StatusSuccess {
			metrics.RecordJobRun("success")
			metrics.RecordItemsProcessed(result.Processed)
			metrics.RecordLastSuccess()
		} else {
			metrics.RecordJobRun("failure")
		}
		metrics.RecordJobDuration(time.Since(startTime).Seconds())

		if err := consumer.Commit(delivery); err != nil {
			logger.Error("failed to commit delivery",
				slog.String("job_id", delivery.Job.JobID),
				slog.Any("error", err))
		}
	}
}
