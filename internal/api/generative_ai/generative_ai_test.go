package generativeAI

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

func TestNewTextGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := NewTextGenerator(ctx, GeneratorConfig{Provider: ProviderGemini})
		assert.ErrorIs(t, err, ErrMissingAPIKey)

		_, err = NewTextGenerator(ctx, GeneratorConfig{Provider: ProviderOpenAI})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewTextGenerator(ctx, GeneratorConfig{Provider: "carrier-pigeon", APIKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported generation provider")
	})

	t.Run("openai defaults model", func(t *testing.T) {
		gen, err := NewTextGenerator(ctx, GeneratorConfig{Provider: "OpenAI", APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultOpenAIModel, gen.Model())
	})
}

func newChatServer(t *testing.T, status int, content string, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if gotPrompt != nil && len(body.Messages) > 0 {
			*gotPrompt = body.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestOpenAIClient_GenerateContent(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var prompt string
		srv := newChatServer(t, http.StatusOK, "Day 1: Louvre", &prompt)
		defer srv.Close()

		client, err := NewOpenAIClient("test-key", srv.URL+"/v1", "test-model", 0.5)
		require.NoError(t, err)

		txt, err := client.GenerateContent(ctx, "plan Paris")
		require.NoError(t, err)
		assert.Equal(t, "Day 1: Louvre", txt)
		assert.Equal(t, "plan Paris", prompt)
		assert.Equal(t, "test-model", client.Model())
	})

	t.Run("empty completion", func(t *testing.T) {
		srv := newChatServer(t, http.StatusOK, "   ", nil)
		defer srv.Close()

		client, err := NewOpenAIClient("test-key", srv.URL+"/v1", "test-model", 0.5)
		require.NoError(t, err)

		_, err = client.GenerateContent(ctx, "plan Paris")
		assert.ErrorIs(t, err, types.ErrEmptyResponse)
	})

	t.Run("service error", func(t *testing.T) {
		srv := newChatServer(t, http.StatusTooManyRequests, "", nil)
		defer srv.Close()

		client, err := NewOpenAIClient("test-key", srv.URL+"/v1", "test-model", 0.5)
		require.NoError(t, err)

		_, err = client.GenerateContent(ctx, "plan Paris")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create chat completion")
	})
}

type slowGenerator struct{}

func (slowGenerator) GenerateContent(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (slowGenerator) Model() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	gen := WithTimeout(slowGenerator{}, 10*time.Millisecond)
	assert.Equal(t, "slow", gen.Model())

	_, err := gen.GenerateContent(context.Background(), "hi")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
