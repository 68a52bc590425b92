package worker

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearIngestorEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CRON_SCHEDULE",
		"WORKER_TIMEZONE",
		"INGEST_TIMEOUT",
		"MAX_PARALLEL_SOURCES",
		"WORKER_HEALTH_PORT",
		"WORKER_METRICS_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultIngestorConfig(t *testing.T) {
	cfg := DefaultIngestorConfig()

	assert.Equal(t, "*/5 * * * *", cfg.CronSchedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 4*time.Minute, cfg.IngestTimeout)
	assert.Equal(t, 4, cfg.MaxParallelSources)
	assert.Equal(t, 9091, cfg.HealthPort)
	assert.Equal(t, 9092, cfg.MetricsPort)

	assert.NoError(t, cfg.Validate())
}

func TestIngestorConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*IngestorConfig)
	}{
		{name: "bad cron", mutate: func(c *IngestorConfig) { c.CronSchedule = "not cron" }},
		{name: "bad timezone", mutate: func(c *IngestorConfig) { c.Timezone = "Mars/Olympus" }},
		{name: "zero timeout", mutate: func(c *IngestorConfig) { c.IngestTimeout = 0 }},
		{name: "zero parallelism", mutate: func(c *IngestorConfig) { c.MaxParallelSources = 0 }},
		{name: "privileged health port", mutate: func(c *IngestorConfig) { c.HealthPort = 80 }},
		{name: "privileged metrics port", mutate: func(c *IngestorConfig) { c.MetricsPort = 22 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultIngestorConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadIngestorConfigFromEnv_Defaults(t *testing.T) {
	clearIngestorEnv(t)

	cfg, err := LoadIngestorConfigFromEnv(slog.Default(), NewJobMetrics("test_ingestor_defaults"))
	require.NoError(t, err)

	expected := DefaultIngestorConfig()
	assert.Equal(t, &expected, cfg)
}

func TestLoadIngestorConfigFromEnv_Overrides(t *testing.T) {
	clearIngestorEnv(t)
	t.Setenv("CRON_SCHEDULE", "0 * * * *")
	t.Setenv("WORKER_TIMEZONE", "America/New_York")
	t.Setenv("INGEST_TIMEOUT", "10m")
	t.Setenv("MAX_PARALLEL_SOURCES", "8")
	t.Setenv("WORKER_HEALTH_PORT", "8081")

	cfg, err := LoadIngestorConfigFromEnv(slog.Default(), NewJobMetrics("test_ingestor_overrides"))
	require.NoError(t, err)

	assert.Equal(t, "0 * * * *", cfg.CronSchedule)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, 10*time.Minute, cfg.IngestTimeout)
	assert.Equal(t, 8, cfg.MaxParallelSources)
	assert.Equal(t, 8081, cfg.HealthPort)
}

func TestLoadIngestorConfigFromEnv_InvalidFallsBack(t *testing.T) {
	clearIngestorEnv(t)
	t.Setenv("CRON_SCHEDULE", "every five minutes")
	t.Setenv("WORKER_TIMEZONE", "+09:00")
	t.Setenv("INGEST_TIMEOUT", "2h")   // above range
	t.Setenv("MAX_PARALLEL_SOURCES", "1000")

	cfg, err := LoadIngestorConfigFromEnv(slog.Default(), NewJobMetrics("test_ingestor_fallback"))
	require.NoError(t, err)

	defaults := DefaultIngestorConfig()
	assert.Equal(t, defaults.CronSchedule, cfg.CronSchedule)
	assert.Equal(t, defaults.Timezone, cfg.Timezone)
	assert.Equal(t, defaults.IngestTimeout, cfg.IngestTimeout)
	assert.Equal(t, defaults.MaxParallelSources, cfg.MaxParallelSources)
	assert.NoError(t, cfg.Validate())
}
