// Package worker holds the operational scaffolding shared by the pipeline
// processes: environment configuration, health endpoints, and job metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"finsignal/internal/pkg/config"
)

// IngestorConfig controls the ingestion process.
//
// Loading is fail-open: an invalid environment value falls back to the
// default with a warning, so a typo in deployment config degrades the
// schedule rather than taking the ingestor down.
type IngestorConfig struct {
	// CronSchedule drives the ingestion cycle.
	// Default: every five minutes.
	CronSchedule string

	// Timezone is the IANA timezone for cron evaluation. Default: UTC.
	Timezone string

	// IngestTimeout bounds one full ingestion cycle. Must fit inside the
	// cron cadence or cycles start overlapping. Default: 4 minutes.
	IngestTimeout time.Duration

	// MaxParallelSources bounds concurrent feed fetches. Default: 4.
	MaxParallelSources int

	// HealthPort serves the liveness/readiness endpoints. Default: 9091.
	HealthPort int

	// MetricsPort serves the Prometheus endpoint. Default: 9092.
	MetricsPort int
}

// DefaultIngestorConfig returns production-ready defaults.
func DefaultIngestorConfig() IngestorConfig {
	return IngestorConfig{
		CronSchedule:       "*/5 * * * *",
		Timezone:           "UTC",
		IngestTimeout:      4 * time.Minute,
		MaxParallelSources: 4,
		HealthPort:         9091,
		MetricsPort:        9092,
	}
}

// Validate checks every field, collecting all failures.
func (c *IngestorConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.IngestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("ingest timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.MaxParallelSources, 1, 32); err != nil {
		errs = append(errs, fmt.Errorf("max parallel sources: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadIngestorConfigFromEnv loads configuration from environment variables
// with validation and fallback to defaults.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "*/5 * * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "UTC")
//   - INGEST_TIMEOUT: duration string, e.g. "4m"
//   - MAX_PARALLEL_SOURCES: integer 1-32
//   - WORKER_HEALTH_PORT: integer 1024-65535
//   - WORKER_METRICS_PORT: integer 1024-65535
//
// Never returns an error: every field falls back independently.
func LoadIngestorConfigFromEnv(logger *slog.Logger, metrics *JobMetrics) (*IngestorConfig, error) {
	cfg := DefaultIngestorConfig()
	fallbackApplied := false

	applyFallback := func(field string, result config.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field)
		for _, warning := range result.Warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	applyFallback("cron_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	applyFallback("timezone", result)

	result = config.LoadEnvDuration("INGEST_TIMEOUT", cfg.IngestTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 10*time.Second, 1*time.Hour)
	})
	cfg.IngestTimeout = result.Value.(time.Duration)
	applyFallback("ingest_timeout", result)

	result = config.LoadEnvInt("MAX_PARALLEL_SOURCES", cfg.MaxParallelSources, func(v int) error {
		return config.ValidateIntRange(v, 1, 32)
	})
	cfg.MaxParallelSources = result.Value.(int)
	applyFallback("max_parallel_sources", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	applyFallback("health_port", result)

	result = config.LoadEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.MetricsPort = result.Value.(int)
	applyFallback("metrics_port", result)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
