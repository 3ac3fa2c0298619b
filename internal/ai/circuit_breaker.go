package ai

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"resumehub/internal/config"
	"resumehub/internal/logger"
)

// breakerProvider wraps a Provider with a circuit breaker so a failing
// backend stops receiving traffic until it recovers.
type breakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[*Completion]
}

// WithCircuitBreaker wraps a provider. Returns the provider unchanged
// when the breaker is disabled in config.
func WithCircuitBreaker(p Provider, cfg config.CircuitBreakerConfig) Provider {
	if !cfg.Enabled {
		return p
	}

	settings := gobreaker.Settings{
		Name:        "ai-" + p.Name(),
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
	}

	return &breakerProvider{
		inner: p,
		cb:    gobreaker.NewCircuitBreaker[*Completion](settings),
	}
}

func (b *breakerProvider) Name() string { return b.inner.Name() }

func (b *breakerProvider) Complete(ctx context.Context, req *Request) (*Completion, error) {
	return b.cb.Execute(func() (*Completion, error) {
		return b.inner.Complete(ctx, req)
	})
}

// Healthy reports whether the breaker is closed.
func (b *breakerProvider) Healthy() bool {
	return b.cb.State() == gobreaker.StateClosed
}
