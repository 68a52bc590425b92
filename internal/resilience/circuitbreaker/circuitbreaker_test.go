package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestExecute_Success(t *testing.T) {
	t.Parallel()

	cb := New(DefaultConfig("test"))

	calls := 0
	err := cb.Execute(func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
}

func TestExecute_PropagatesError(t *testing.T) {
	t.Parallel()

	cb := New(DefaultConfig("test"))
	wantErr := errors.New("feed unavailable")

	err := cb.Execute(func() error {
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("Execute() error = %v, want %v", err, wantErr)
	}
}

func TestExecute_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Name:         "flaky-host",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
	cb := New(cfg)

	failure := errors.New("boom")
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return failure })
	}

	if !cb.IsOpen() {
		t.Fatalf("breaker not open after %d failures, state = %v", 3, cb.State())
	}

	calls := 0
	err := cb.Execute(func() error {
		calls++
		return nil
	})

	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Execute() while open error = %v, want ErrOpenState", err)
	}
	if calls != 0 {
		t.Errorf("fn called %d times while open, want 0", calls)
	}
}

func TestExecute_StaysClosedBelowMinRequests(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig("sparse")
	cfg.MinRequests = 10
	cb := New(cfg)

	for i := 0; i < 5; i++ {
		_ = cb.Execute(func() error { return errors.New("boom") })
	}

	if cb.IsOpen() {
		t.Error("breaker opened below minimum request count")
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	cb := New(FeedFetchConfig("reuters"))
	if cb.Name() != "reuters" {
		t.Errorf("Name() = %q, want %q", cb.Name(), "reuters")
	}
}
