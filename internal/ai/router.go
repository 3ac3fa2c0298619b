package ai

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"resumehub/internal/config"
	"resumehub/internal/logger"
	"resumehub/pkg/apperrors"
)

// Router dispatches completion requests to providers based on task
// type, with rate limiting and fallback to any healthy provider.
type Router struct {
	providers map[string]Provider
	routing   map[string]string
	fallback  string
	limiter   *rate.Limiter
}

// NewRouter builds a router from config. Providers whose API key is
// missing are skipped; at least one provider must be configured.
func NewRouter(cfg config.AIConfig) (*Router, error) {
	providers := make(map[string]Provider)

	register := func(name string, p Provider, err error) {
		if err != nil {
			logger.Warn("AI provider not configured", "provider", name, "reason", err.Error())
			return
		}
		providers[name] = WithCircuitBreaker(p, cfg.CircuitBreaker)
	}

	if cfg.OpenAI.APIKey != "" {
		p, err := NewOpenAIProvider(cfg.OpenAI)
		register("openai", p, err)
	}
	if cfg.Anthropic.APIKey != "" {
		p, err := NewAnthropicProvider(cfg.Anthropic)
		register("anthropic", p, err)
	}
	if cfg.Qwen.APIKey != "" {
		p, err := NewQwenProvider(cfg.Qwen)
		register("qwen", p, err)
	}

	if len(providers) == 0 {
		return nil, apperrors.ErrNoProviderConfigured
	}

	rps := cfg.RateLimit.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 10
	}

	// Deterministic fallback order
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Router{
		providers: providers,
		routing:   cfg.Routing,
		fallback:  names[0],
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// ProviderFor returns the provider that handles the given task type.
func (r *Router) ProviderFor(taskType string) Provider {
	if name, ok := r.routing[taskType]; ok {
		if p, ok := r.providers[name]; ok {
			return p
		}
	}
	return r.providers[r.fallback]
}

// Complete routes the request to the configured provider. On provider
// failure the request is retried once with a different provider if one
// is available.
func (r *Router) Complete(ctx context.Context, req *Request) (*Completion, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRateLimited, "ai", "AI request rate limit wait cancelled", 429)
	}

	primary := r.ProviderFor(req.TaskType)

	start := time.Now()
	completion, err := primary.Complete(ctx, req)
	logCompletion(primary.Name(), req.TaskType, start, completion, err)
	if err == nil {
		return completion, nil
	}
	if ctx.Err() != nil {
		return nil, apperrors.ExternalServiceError("ai", err)
	}

	for name, p := range r.providers {
		if name == primary.Name() {
			continue
		}
		start = time.Now()
		completion, ferr := p.Complete(ctx, req)
		logCompletion(name, req.TaskType, start, completion, ferr)
		if ferr == nil {
			return completion, nil
		}
	}

	return nil, apperrors.ExternalServiceError("ai", err)
}

func logCompletion(provider, taskType string, start time.Time, c *Completion, err error) {
	tokens := 0
	if c != nil && c.Usage != nil {
		tokens = c.Usage.TotalTokens
	}
	logger.AILog(provider, taskType, time.Since(start), tokens, err)
}
