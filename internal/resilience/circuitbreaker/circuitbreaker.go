// Package circuitbreaker wraps sony/gobreaker to protect outbound calls
// to feed hosts and scorer APIs from cascading failures.
package circuitbreaker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds circuit breaker configuration.
type Config struct {
	// Name identifies the protected dependency in logs and metrics
	Name string

	// MaxRequests is the number of requests allowed while half-open
	MaxRequests uint32

	// Interval is the cyclic period for clearing counts while closed
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing
	Timeout time.Duration

	// FailureRatio is the failure rate that trips the breaker
	FailureRatio float64

	// MinRequests is the minimum request count before the ratio applies
	MinRequests uint32
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  5,
	}
}

// FeedFetchConfig returns the configuration for RSS feed hosts.
// Feed hosts fail in bursts, so the breaker opens quickly and probes
// again after a short cooldown.
func FeedFetchConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  2,
		Interval:     60 * time.Second,
		Timeout:      20 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

// ScorerAPIConfig returns the configuration for remote scorer APIs.
// More tolerant thresholds since scoring failures fail a whole batch.
func ScorerAPIConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  3,
		Interval:     120 * time.Second,
		Timeout:      60 * time.Second,
		FailureRatio: 0.7,
		MinRequests:  5,
	}
}

// CircuitBreaker wraps gobreaker with structured logging on state changes.
type CircuitBreaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
}

// New creates a circuit breaker from the given configuration.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		cb:   gobreaker.NewCircuitBreaker(settings),
		name: cfg.Name,
	}
}

// Execute runs the given function through the circuit breaker.
// When the breaker is open it returns an error without calling fn.
func (c *CircuitBreaker) Execute(fn func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("circuit breaker %s: %w", c.name, err)
		}
		return err
	}
	return nil
}

// State returns the current state of the circuit breaker.
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// Name returns the breaker's name.
func (c *CircuitBreaker) Name() string {
	return c.name
}

// IsOpen reports whether the breaker is currently rejecting calls.
func (c *CircuitBreaker) IsOpen() bool {
	return c.cb.State() == gobreaker.StateOpen
}
