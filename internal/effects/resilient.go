package effects

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// ResilientDispatcher wraps a dispatcher with retry and a circuit breaker so
// a flaky broker degrades to dropped effects instead of stalling gameplay.
type ResilientDispatcher struct {
	inner          Dispatcher
	circuitBreaker circuitbreaker.CircuitBreaker[struct{}]
	retrier        retry.Retry[struct{}]
	logger         *slog.Logger
}

// ResilientConfig tunes the resilience wrapper.
type ResilientConfig struct {
	MaxAttempts  int           // retry attempts per dispatch (default 3)
	InitialDelay time.Duration // first retry backoff (default 100ms)
	Logger       *slog.Logger
}

// NewResilientDispatcher wraps inner with fortify retry and circuit breaking.
func NewResilientDispatcher(inner Dispatcher, cfg ResilientConfig) *ResilientDispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	initialDelay := cfg.InitialDelay
	if initialDelay <= 0 {
		initialDelay = 100 * time.Millisecond
	}

	d := &ResilientDispatcher{inner: inner, logger: logger}

	d.circuitBreaker = circuitbreaker.New[struct{}](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("effect dispatcher circuit state change",
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	d.retrier = retry.New[struct{}](retry.Config{
		MaxAttempts:   maxAttempts,
		InitialDelay:  initialDelay,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
	})

	return d
}

// Dispatch delivers the commands through the wrapped dispatcher. A dispatch
// that still fails after retries is logged and dropped: effects are
// presentation hints, not game state.
func (d *ResilientDispatcher) Dispatch(ctx context.Context, commands ...Command) error {
	_, err := d.circuitBreaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return d.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, d.inner.Dispatch(ctx, commands...)
		})
	})
	if err != nil {
		d.logger.Warn("dropping effects after dispatch failure",
			"commands", len(commands),
			"error", err,
		)
	}
	return nil
}
