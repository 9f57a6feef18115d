package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestCompleter(t *testing.T, handler http.HandlerFunc) *OpenAICompleter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	completer, err := NewOpenAICompleter(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return completer
}

func TestOpenAICompleterReturnsFirstChoice(t *testing.T) {
	var (
		received map[string]interface{}
		path     string
	)
	completer := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&received)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  {\"ok\": true}  "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
		}`))
	})

	text, err := completer.Complete(context.Background(), "score this")
	require.NoError(t, err)
	require.Equal(t, `{"ok": true}`, text)
	require.Equal(t, "/v1/chat/completions", path)
	require.Equal(t, "gpt-4o-mini", received["model"])

	messages, ok := received["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	last := messages[1].(map[string]interface{})
	require.Equal(t, "score this", last["content"])
}

func TestOpenAICompleterWrapsServerErrors(t *testing.T) {
	completer := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	})

	_, err := completer.Complete(context.Background(), "prompt")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrGateway))

	var gatewayErr *GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	require.Equal(t, "openai", gatewayErr.Provider)
}

func TestOpenAICompleterRejectsEmptyChoices(t *testing.T) {
	completer := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "choices": []}`))
	})

	_, err := completer.Complete(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrGateway)
	require.Contains(t, err.Error(), "no choices")
}

func TestNewCompletersRequireAPIKey(t *testing.T) {
	_, err := NewOpenAICompleter(OpenAIConfig{})
	require.Error(t, err)

	_, err = NewGeminiCompleter(context.Background(), GeminiConfig{})
	require.Error(t, err)
}
