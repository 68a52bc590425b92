package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
}

func TestNewLogger_DebugLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	logger := NewLogger()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled with LOG_LEVEL=debug")
	}
}

func TestNewTextLogger(t *testing.T) {
	logger := NewTextLogger()
	if logger == nil {
		t.Fatal("NewTextLogger() returned nil")
	}
}

func TestWithJobID(t *testing.T) {
	t.Parallel()

	base := NewLogger()

	if got := WithJobID(base, ""); got != base {
		t.Error("WithJobID with empty ID should return the base logger")
	}
	if got := WithJobID(base, "abc-123"); got == base {
		t.Error("WithJobID with an ID should return a derived logger")
	}
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	base := NewLogger()
	logger := WithFields(base, map[string]interface{}{
		"source": "reuters",
		"count":  3,
	})
	if logger == nil {
		t.Fatal("WithFields() returned nil")
	}
}

func TestLoggerContext(t *testing.T) {
	t.Parallel()

	logger := NewLogger()
	ctx := WithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext without a logger should fall back to default")
	}
}
