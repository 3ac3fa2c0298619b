package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"resumehub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAIProvider) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewOpenAIProvider(config.ProviderConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	return server, provider
}

func TestNewOpenAIProvider_Validation(t *testing.T) {
	_, err := NewOpenAIProvider(config.ProviderConfig{Model: "gpt-4o-mini"})
	assert.Error(t, err, "api key is required")

	_, err = NewOpenAIProvider(config.ProviderConfig{APIKey: "sk-test"})
	assert.Error(t, err, "model is required")
}

func TestOpenAIComplete(t *testing.T) {
	var gotAuth string
	var gotBody openAIRequest

	_, provider := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini-2024",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello there"}},
			},
			"usage": map[string]int{"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8},
		})
	})

	c, err := provider.Complete(context.Background(), &Request{
		TaskType:    TaskChatResponse,
		Messages:    []Message{{Role: "user", Content: "hi"}},
		MaxTokens:   100,
		Temperature: 0.7,
		JSONMode:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "hello there", c.Content)
	assert.Equal(t, "gpt-4o-mini-2024", c.Model)
	assert.Equal(t, "openai", c.Provider)
	assert.Equal(t, 8, c.Usage.TotalTokens)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	assert.Equal(t, 100, gotBody.MaxTokens)
	require.NotNil(t, gotBody.ResponseFormat)
	assert.Equal(t, "json_object", gotBody.ResponseFormat.Type)
}

func TestOpenAIComplete_APIError(t *testing.T) {
	_, provider := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded", "type": "rate_limit_error"},
		})
	})

	_, err := provider.Complete(context.Background(), &Request{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIComplete_EmptyChoices(t *testing.T) {
	_, provider := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"model": "m", "choices": []any{}})
	})

	_, err := provider.Complete(context.Background(), &Request{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}

func TestNewQwenProvider_Name(t *testing.T) {
	p, err := NewQwenProvider(config.ProviderConfig{APIKey: "key", Model: "qwen-plus"})

	require.NoError(t, err)
	assert.Equal(t, "qwen", p.Name())
}
