package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicServer(t *testing.T, handler http.HandlerFunc) *Anthropic {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAnthropic(AnthropicConfig{
		APIKey:  "test-key",
		Model:   "claude-test",
		BaseURL: srv.URL + "/",
		Params:  DefaultGenerationParams(),
	})
}

func TestAnthropicGenerateText(t *testing.T) {
	var body map[string]any
	a := newAnthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": " Stay hydrated. "}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 4}
		}`))
	})

	text, err := a.GenerateText(context.Background(), "advice?", 256)
	require.NoError(t, err)
	assert.Equal(t, "Stay hydrated.", text)

	assert.Equal(t, "claude-test", body["model"])
	assert.EqualValues(t, 256, body["max_tokens"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	assert.NotContains(t, body, "top_p")
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 1)
}

func TestAnthropicAuthError(t *testing.T) {
	a := newAnthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	_, err := a.GenerateText(context.Background(), "p", 10)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestAnthropicOverloaded(t *testing.T) {
	a := newAnthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	})

	_, err := a.GenerateText(context.Background(), "p", 10)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.True(t, IsRetriable(err))
}

func TestAnthropicMissingKey(t *testing.T) {
	a := NewAnthropic(AnthropicConfig{Model: "claude-test"})
	_, err := a.GenerateText(context.Background(), "p", 10)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
