package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g, err := NewOpenAIGenerator(srv.URL+"/v1/", "test-model", "sk-test", 5*time.Second)
	require.NoError(t, err)
	return g
}

func TestOpenAIGenerator_Success(t *testing.T) {
	var got chatRequest
	g := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	})

	text, err := g.GenerateText(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hi"},
	}, Options{Temperature: 0.2, MaxTokens: 512})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.2, *got.Temperature, 1e-9)
	assert.Equal(t, 512, got.MaxTokens)
}

func TestOpenAIGenerator_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		header     map[string]string
		wantStatus int
		wantText   string
		rateLimit  time.Duration
	}{
		{name: "server error", status: 502, body: "bad gateway", wantStatus: 502, wantText: "bad gateway"},
		{name: "auth error", status: 401, body: `{"error":"invalid key"}`, wantStatus: 401, wantText: "invalid key"},
		{name: "empty choices", status: 200, body: `{"choices":[]}`, wantStatus: 200, wantText: "empty completion"},
		{name: "blank content", status: 200, body: `{"choices":[{"message":{"content":"  "}}]}`, wantStatus: 200, wantText: "empty completion"},
		{name: "malformed body", status: 200, body: `{"choices":`, wantStatus: 200, wantText: "decode response"},
		{name: "rate limited", status: 429, header: map[string]string{"Retry-After": "7"}, wantStatus: 429, rateLimit: 7 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := g.GenerateText(context.Background(), []Message{{Role: RoleUser, Content: "x"}}, Options{})
			require.Error(t, err)

			var up *UpstreamError
			require.True(t, errors.As(err, &up), "want *UpstreamError, got %T", err)
			assert.Equal(t, "openai", up.Provider)
			assert.Equal(t, tt.wantStatus, up.StatusCode)
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}

			var rl *RateLimitError
			if tt.rateLimit > 0 {
				require.True(t, errors.As(err, &rl))
				assert.Equal(t, tt.rateLimit, rl.RetryAfter)
			} else {
				assert.False(t, errors.As(err, &rl))
			}
		})
	}
}

func TestOpenAIGenerator_ContextCancelled(t *testing.T) {
	g := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateText(ctx, []Message{{Role: RoleUser, Content: "x"}}, Options{})
	var up *UpstreamError
	require.True(t, errors.As(err, &up))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewOpenAIGenerator_Defaults(t *testing.T) {
	_, err := NewOpenAIGenerator("", "", "", 0)
	require.Error(t, err)

	g, err := NewOpenAIGenerator("", "", "key", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", g.endpoint())
	assert.Equal(t, defaultOpenAIModel, g.Model)
	assert.Equal(t, 60*time.Second, g.Client.Timeout)
}
