package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobMetrics(t *testing.T) {
	m := NewJobMetrics("test_worker_new")

	require.NotNil(t, m)
	assert.NotNil(t, m.ConfigMetrics)
	assert.NotNil(t, m.JobRunsTotal)
	assert.NotNil(t, m.JobDurationSeconds)
	assert.NotNil(t, m.JobItemsProcessedTotal)
	assert.NotNil(t, m.JobLastSuccessTimestamp)
}

func TestJobMetrics_Recorders(t *testing.T) {
	m := NewJobMetrics("test_worker_recorders")

	assert.NotPanics(t, func() {
		m.RecordJobRun("success")
		m.RecordJobRun("failure")
		m.RecordJobDuration(12.5)
		m.RecordItemsProcessed(42)
		m.RecordItemsProcessed(0)
		m.RecordLastSuccess()
	})
}

func TestJobMetrics_ConfigFallback(t *testing.T) {
	m := NewJobMetrics("test_worker_fallback")

	assert.NotPanics(t, func() {
		m.RecordFallback("cron_schedule")
		m.SetFallbackActive(true)
		m.SetFallbackActive(false)
	})
}
