package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/commitformat/internal/ai"
	domainErrors "github.com/thomas-vilte/commitformat/internal/errors"
)

func newServer(t *testing.T, status int, body string, inspect func(r *http.Request, payload map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if inspect != nil {
			inspect(r, payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const okBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"type\":\"feat\"}"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 40, "completion_tokens": 8, "total_tokens": 48}
}`

func TestNewCompleter(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := NewCompleter(OpenAI, Options{})
		assert.ErrorIs(t, err, domainErrors.ErrAPIKeyMissing)
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		c, err := NewCompleter(Ollama, Options{})
		require.NoError(t, err)
		assert.Equal(t, "ollama", c.ProviderName())
		assert.Equal(t, "llama3.1", c.ModelName())
	})

	t.Run("model override", func(t *testing.T) {
		c, err := NewCompleter(Mistral, Options{APIKey: "k", Model: "mistral-large-latest"})
		require.NoError(t, err)
		assert.Equal(t, "mistral-large-latest", c.ModelName())
	})
}

func TestCompleter_Complete(t *testing.T) {
	srv := newServer(t, http.StatusOK, okBody, func(r *http.Request, payload map[string]any) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "gpt-4o-mini", payload["model"])
		messages := payload["messages"].([]any)
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])
		assert.Equal(t, "the diff", messages[1].(map[string]any)["content"])
		format := payload["response_format"].(map[string]any)
		assert.Equal(t, "json_object", format["type"])
	})

	c, err := NewCompleter(OpenAI, Options{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), ai.Prompt{System: "rules", User: "the diff", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"feat"}`, resp.Text)
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 48, resp.Usage.TotalTokens)
}

func TestCompleter_Errors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		srv := newServer(t, http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`, nil)
		c, err := NewCompleter(OpenAI, Options{APIKey: "bad", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), ai.Prompt{User: "x"})
		assert.ErrorIs(t, err, domainErrors.ErrAPIKeyInvalid)
	})

	t.Run("no choices", func(t *testing.T) {
		srv := newServer(t, http.StatusOK, `{"id":"x","choices":[],"usage":{}}`, nil)
		c, err := NewCompleter(Ollama, Options{BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), ai.Prompt{User: "x"})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidAIOutput)
	})
}
