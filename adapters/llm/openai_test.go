package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCompletionStub(t *testing.T, reply string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
}

func TestOpenAIProvider_GenerateText(t *testing.T) {
	var captured map[string]any
	server := chatCompletionStub(t, "a storm is coming", &captured)
	defer server.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
	})
	require.NoError(t, err)

	got, err := provider.GenerateText(context.Background(), "describe the sky", "")
	require.NoError(t, err)
	assert.Equal(t, "a storm is coming", got)
	assert.Equal(t, "gpt-4o-mini", captured["model"], "the config model should fill an empty request model")
}

func TestOpenAIProvider_RequestModelOverridesConfig(t *testing.T) {
	var captured map[string]any
	server := chatCompletionStub(t, "ok", &captured)
	defer server.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini"})
	require.NoError(t, err)

	_, err = provider.GenerateText(context.Background(), "p", "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", captured["model"])
}

func TestOpenAIProvider_HTTPErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, Model: "m"})
	require.NoError(t, err)

	_, err = provider.GenerateText(context.Background(), "p", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIProvider_MissingKeyRejected(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{})
	require.Error(t, err)
}

func TestOpenAIProvider_MissingModelRejected(t *testing.T) {
	server := chatCompletionStub(t, "x", nil)
	defer server.Close()

	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = provider.GenerateText(context.Background(), "p", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model")
}

func TestOpenAIProvider_HonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	provider, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, Model: "m"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = provider.GenerateText(ctx, "p", "")
	require.Error(t, err)
}
