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

func newAnthropicTestServer(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewAnthropicProvider(config.ProviderConfig{
		APIKey:  "sk-ant-test",
		Model:   "claude-sonnet-4-20250514",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	return provider
}

func TestAnthropicComplete_SystemMessageLifted(t *testing.T) {
	var gotBody anthropicRequest
	var gotAPIKey, gotVersion string

	provider := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"model": "claude-sonnet-4-20250514",
			"content": []map[string]string{
				{"type": "text", "text": "part one "},
				{"type": "text", "text": "part two"},
			},
			"usage": map[string]int{"input_tokens": 12, "output_tokens": 4},
		})
	})

	c, err := provider.Complete(context.Background(), &Request{
		Messages: []Message{
			{Role: "system", Content: "you are a resume coach"},
			{Role: "user", Content: "review my resume"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "part one part two", c.Content)
	assert.Equal(t, "anthropic", c.Provider)
	assert.Equal(t, 16, c.Usage.TotalTokens)

	assert.Equal(t, "sk-ant-test", gotAPIKey)
	assert.Equal(t, anthropicVersion, gotVersion)

	// System message goes to the top-level field, not into messages
	assert.Equal(t, "you are a resume coach", gotBody.System)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, 1024, gotBody.MaxTokens, "default max_tokens applied")
}

func TestAnthropicComplete_APIError(t *testing.T) {
	provider := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "authentication_error", "message": "invalid api key"},
		})
	})

	_, err := provider.Complete(context.Background(), &Request{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestAnthropicComplete_EmptyContent(t *testing.T) {
	provider := newAnthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"model": "m", "content": []any{}})
	})

	_, err := provider.Complete(context.Background(), &Request{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty content")
}
