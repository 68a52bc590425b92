package db

import (
	"context"
	"database/sql"
	"time"

	"finsignal/internal/observability/metrics"
)

// ReportPoolStats publishes connection pool gauges at the given interval
// until the context is cancelled. Run it in its own goroutine.
func ReportPoolStats(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	}
}
