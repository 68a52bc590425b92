// Package db opens the PostgreSQL connection pool and owns the schema.
package db

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pkgconfig "finsignal/internal/pkg/config"
	"finsignal/internal/resilience/retry"
)

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Open creates and configures a new database connection pool.
// It reads DATABASE_URL from the environment and applies pool settings.
func Open() *sql.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal(err)
	}

	cfg := connectionConfigFromEnv()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := pingWithRetry(ctx, db); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	slog.Info("database connection established")
	return db
}

// pingWithRetry verifies connectivity, retrying transient failures so the
// process survives starting before the database accepts connections.
func pingWithRetry(ctx context.Context, db *sql.DB) error {
	return retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
}

// connectionConfigFromEnv reads pool settings from the environment,
// falling back to defaults on missing or invalid values.
func connectionConfigFromEnv() ConnectionConfig {
	defaults := DefaultConnectionConfig()

	positiveInt := func(v int) error { return pkgconfig.ValidateIntRange(v, 1, 1000) }

	cfg := ConnectionConfig{
		MaxOpenConns: pkgconfig.LoadEnvInt("DB_MAX_OPEN_CONNS", defaults.MaxOpenConns, positiveInt).Value.(int),
		MaxIdleConns: pkgconfig.LoadEnvInt("DB_MAX_IDLE_CONNS", defaults.MaxIdleConns, positiveInt).Value.(int),
		ConnMaxLifetime: pkgconfig.LoadEnvDuration(
			"DB_CONN_MAX_LIFETIME", defaults.ConnMaxLifetime, pkgconfig.ValidatePositiveDuration).Value.(time.Duration),
		ConnMaxIdleTime: pkgconfig.LoadEnvDuration(
			"DB_CONN_MAX_IDLE_TIME", defaults.ConnMaxIdleTime, pkgconfig.ValidatePositiveDuration).Value.(time.Duration),
	}

	return cfg
}
