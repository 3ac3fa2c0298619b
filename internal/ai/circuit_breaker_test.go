package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehub/internal/config"
)

func breakerConfig(enabled bool) config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          enabled,
		MaxRequests:      1,
		IntervalSeconds:  60,
		TimeoutSeconds:   30,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
}

func TestWithCircuitBreaker_DisabledReturnsProviderUnchanged(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{name: "openai"}
	wrapped := WithCircuitBreaker(p, breakerConfig(false))

	assert.Same(t, p, wrapped)
}

func TestWithCircuitBreaker_PassesThroughWhenClosed(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{name: "openai"}
	wrapped := WithCircuitBreaker(p, breakerConfig(true))

	assert.Equal(t, "openai", wrapped.Name())

	got, err := wrapped.Complete(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, "openai", got.Provider)
	assert.Equal(t, 1, p.calls)
}

func TestWithCircuitBreaker_OpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{name: "openai", err: errors.New("backend down")}
	wrapped := WithCircuitBreaker(p, breakerConfig(true))

	// Below MinRequests the breaker stays closed and failures reach the backend.
	_, err := wrapped.Complete(context.Background(), &Request{})
	require.EqualError(t, err, "backend down")

	_, err = wrapped.Complete(context.Background(), &Request{})
	require.EqualError(t, err, "backend down")

	// Two failures out of two requests trip the breaker, further calls
	// are rejected without touching the backend.
	_, err = wrapped.Complete(context.Background(), &Request{})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, p.calls)

	bp, ok := wrapped.(*breakerProvider)
	require.True(t, ok)
	assert.False(t, bp.Healthy())
}

func TestWithCircuitBreaker_HealthyWhileClosed(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{name: "qwen"}
	wrapped := WithCircuitBreaker(p, breakerConfig(true))

	bp, ok := wrapped.(*breakerProvider)
	require.True(t, ok)
	assert.True(t, bp.Healthy())
}
