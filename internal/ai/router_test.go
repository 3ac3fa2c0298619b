package ai

import (
	"context"
	"errors"
	"testing"

	"resumehub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeProvider struct {
	name  string
	err   error
	calls int
}

func (p *fakeProvider) Complete(ctx context.Context, req *Request) (*Completion, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &Completion{
		Content:  "response from " + p.name,
		Provider: p.name,
		Model:    "fake-model",
		Usage:    &TokenUsage{TotalTokens: 10},
	}, nil
}

func (p *fakeProvider) Name() string { return p.name }

func newTestRouter(routing map[string]string, providers ...*fakeProvider) *Router {
	m := make(map[string]Provider, len(providers))
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		m[p.name] = p
		names = append(names, p.name)
	}
	fallback := names[0]
	for _, n := range names {
		if n < fallback {
			fallback = n
		}
	}
	return &Router{
		providers: m,
		routing:   routing,
		fallback:  fallback,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
}

func TestNewRouter_NoProviders(t *testing.T) {
	_, err := NewRouter(config.AIConfig{})
	assert.Error(t, err)
}

func TestNewRouter_SkipsProvidersWithoutKeys(t *testing.T) {
	cfg := config.AIConfig{}
	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.Model = "gpt-4o-mini"

	r, err := NewRouter(cfg)
	require.NoError(t, err)

	assert.Len(t, r.providers, 1)
	assert.Contains(t, r.providers, "openai")
}

func TestProviderFor_Routing(t *testing.T) {
	openai := &fakeProvider{name: "openai"}
	qwen := &fakeProvider{name: "qwen"}
	r := newTestRouter(map[string]string{
		TaskChatResponse: "qwen",
		TaskATSScoring:   "openai",
	}, openai, qwen)

	assert.Equal(t, "qwen", r.ProviderFor(TaskChatResponse).Name())
	assert.Equal(t, "openai", r.ProviderFor(TaskATSScoring).Name())
}

func TestProviderFor_FallbackForUnroutedTask(t *testing.T) {
	openai := &fakeProvider{name: "openai"}
	qwen := &fakeProvider{name: "qwen"}
	r := newTestRouter(nil, qwen, openai)

	// Без маршрута берется первый провайдер в алфавитном порядке
	assert.Equal(t, "openai", r.ProviderFor("unknown_task").Name())
}

func TestProviderFor_RoutedProviderMissing(t *testing.T) {
	openai := &fakeProvider{name: "openai"}
	r := newTestRouter(map[string]string{TaskChatResponse: "qwen"}, openai)

	assert.Equal(t, "openai", r.ProviderFor(TaskChatResponse).Name())
}

func TestComplete_RoutesToPrimary(t *testing.T) {
	openai := &fakeProvider{name: "openai"}
	qwen := &fakeProvider{name: "qwen"}
	r := newTestRouter(map[string]string{TaskChatResponse: "qwen"}, openai, qwen)

	c, err := r.Complete(context.Background(), &Request{
		TaskType: TaskChatResponse,
		Messages: []Message{{Role: "user", Content: "hi"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "qwen", c.Provider)
	assert.Equal(t, 1, qwen.calls)
	assert.Equal(t, 0, openai.calls)
}

func TestComplete_FallsBackOnFailure(t *testing.T) {
	failing := &fakeProvider{name: "qwen", err: errors.New("upstream down")}
	healthy := &fakeProvider{name: "openai"}
	r := newTestRouter(map[string]string{TaskChatResponse: "qwen"}, failing, healthy)

	c, err := r.Complete(context.Background(), &Request{TaskType: TaskChatResponse})

	require.NoError(t, err)
	assert.Equal(t, "openai", c.Provider)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, healthy.calls)
}

func TestComplete_AllProvidersFail(t *testing.T) {
	a := &fakeProvider{name: "openai", err: errors.New("down")}
	b := &fakeProvider{name: "qwen", err: errors.New("also down")}
	r := newTestRouter(nil, a, b)

	_, err := r.Complete(context.Background(), &Request{TaskType: TaskChatResponse})

	assert.Error(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestComplete_CancelledContext(t *testing.T) {
	p := &fakeProvider{name: "openai", err: context.Canceled}
	r := newTestRouter(nil, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Complete(ctx, &Request{TaskType: TaskChatResponse})
	assert.Error(t, err)
}
