package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclantax/content-pipeline/pkg/config"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
	})
	return string(body)
}

func chatServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestOpenAICompleter(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		validateFunc func(t *testing.T, out string, err error, req map[string]any)
	}{
		{
			name:   "success strips quotes",
			status: http.StatusOK,
			body:   chatResponse("  \"Hey grownups, taxes are due!\" "),
			validateFunc: func(t *testing.T, out string, err error, req map[string]any) {
				require.NoError(t, err)
				assert.Equal(t, "Hey grownups, taxes are due!", out)
				assert.Equal(t, "gpt-test", req["model"])
				msgs, ok := req["messages"].([]any)
				require.True(t, ok)
				assert.Len(t, msgs, 2)
			},
		},
		{
			name:   "empty content",
			status: http.StatusOK,
			body:   chatResponse(""),
			validateFunc: func(t *testing.T, out string, err error, _ map[string]any) {
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeUpstreamRejected))
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`,
			validateFunc: func(t *testing.T, out string, err error, _ map[string]any) {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeUpstreamRejected))
				assert.False(t, apperrors.IsRetryable(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := map[string]any{}
			server := chatServer(t, tt.status, tt.body, &req)
			defer server.Close()

			c, err := NewOpenAICompleter("sk-test", "gpt-test", server.URL+"/", 0)
			require.NoError(t, err)

			out, err := c.Complete(context.Background(), "system", "user")
			tt.validateFunc(t, out, err, req)
		})
	}
}

func TestGroqCompleter(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := chatServer(t, http.StatusOK, chatResponse("Baby says file early"), nil)
		defer server.Close()

		c, err := NewGroqCompleter("gsk-test", "llama-test", server.URL+"/", 0)
		require.NoError(t, err)
		out, err := c.Complete(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Equal(t, "Baby says file early", out)
		assert.Equal(t, "groq", c.Name())
	})

	t.Run("bad request", func(t *testing.T) {
		server := chatServer(t, http.StatusBadRequest, `{"error":{"message":"bad request","type":"invalid_request_error"}}`, nil)
		defer server.Close()

		c, err := NewGroqCompleter("gsk-test", "", server.URL+"/", 0)
		require.NoError(t, err)
		_, err = c.Complete(context.Background(), "system", "user")
		assert.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	c, err := New(config.LLMConfig{Provider: "openai", OpenAIAPIKey: "sk"})
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	c, err = New(config.LLMConfig{Provider: "groq", GroqAPIKey: "gsk"})
	require.NoError(t, err)
	assert.Equal(t, "groq", c.Name())

	_, err = New(config.LLMConfig{Provider: "groq"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeConfigMissing))

	_, err = New(config.LLMConfig{Provider: "anthropic"})
	assert.Error(t, err)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "hi", clean(" \"hi\" "))
	assert.Equal(t, "\"", clean("\""))
	assert.Equal(t, "a \"b\"", clean("a \"b\""))
}
