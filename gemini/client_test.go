package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscope/market-pipeline/config"
)

func newTestConfig(serverURL string) config.GeminiConfig {
	cfg := config.DefaultGeminiConfig()
	cfg.OverrideURL = serverURL
	cfg.APIKey = "test-key"
	return cfg
}

func TestGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Bitcoin")

		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "Market looks bearish."}]}}]}`))
	}))
	defer server.Close()

	client := NewClient(newTestConfig(server.URL))

	text, err := client.GenerateText(context.Background(), "Analyze Bitcoin prices")
	require.NoError(t, err)
	assert.Equal(t, "Market looks bearish.", text)
}

func TestGenerateText_MissingCredential(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	tests := []string{"", "YOUR_API_KEY", "CHANGEME"}
	for _, key := range tests {
		cfg := newTestConfig(server.URL)
		cfg.APIKey = key
		client := NewClient(cfg)

		_, err := client.GenerateText(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrMissingCredential)
	}

	// Fail-fast means the provider is never contacted
	assert.Zero(t, requests)
}

func TestGenerateText_UnexpectedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates": []}`},
		{"candidates field missing", `{}`},
		{"empty parts", `{"candidates": [{"content": {"parts": []}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(newTestConfig(server.URL))

			_, err := client.GenerateText(context.Background(), "prompt")
			assert.ErrorIs(t, err, ErrUnexpectedShape)
		})
	}
}

func TestGenerateText_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient(newTestConfig(server.URL))

	_, err := client.GenerateText(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestGenerateText_UpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(newTestConfig(server.URL))

	_, err := client.GenerateText(context.Background(), "prompt")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestFirstText(t *testing.T) {
	resp := GenerateResponse{
		Candidates: []Candidate{
			{Content: Content{Parts: []Part{{Text: "first"}, {Text: "second"}}}},
		},
	}
	text, ok := resp.FirstText()
	assert.True(t, ok)
	assert.Equal(t, "first", text)
}
