package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"finsignal/internal/pkg/config"
)

// JobMetrics tracks scheduled job execution for one pipeline process,
// alongside the embedded configuration metrics. Metric names are prefixed
// with the component name passed to NewJobMetrics.
type JobMetrics struct {
	*config.ConfigMetrics

	// JobRunsTotal counts job runs by status (success/failure)
	JobRunsTotal *prometheus.CounterVec

	// JobDurationSeconds measures job execution duration
	JobDurationSeconds prometheus.Histogram

	// JobItemsProcessedTotal counts items handled across all runs
	JobItemsProcessedTotal prometheus.Counter

	// JobLastSuccessTimestamp records the last successful completion
	JobLastSuccessTimestamp prometheus.Gauge
}

// NewJobMetrics registers and returns job metrics for the named component
// (e.g. "ingestor", "scorer").
func NewJobMetrics(component string) *JobMetrics {
	return &JobMetrics{
		ConfigMetrics: config.NewConfigMetrics(component),

		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: component + "_job_runs_total",
			Help: "Total number of job runs by status (success/failure)",
		}, []string{"status"}),

		JobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    component + "_job_duration_seconds",
			Help:    "Duration of job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		JobItemsProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: component + "_job_items_processed_total",
			Help: "Total number of items processed across all job runs",
		}),

		JobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: component + "_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful job run",
		}),
	}
}

// RecordJobRun increments the run counter. Status is "success" or "failure".
func (m *JobMetrics) RecordJobRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one job's execution time in seconds.
func (m *JobMetrics) RecordJobDuration(seconds float64) {
	m.JobDurationSeconds.Observe(seconds)
}

// RecordItemsProcessed adds to the processed item counter.
func (m *JobMetrics) RecordItemsProcessed(count int) {
	m.JobItemsProcessedTotal.Add(float64(count))
}

// RecordLastSuccess records now as the last successful completion.
func (m *JobMetrics) RecordLastSuccess() {
	m.JobLastSuccessTimestamp.SetToCurrentTime()
}
