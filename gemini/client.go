package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/coinscope/market-pipeline/config"
	"github.com/coinscope/market-pipeline/metrics"
)

const (
	// PUBLIC_URL is the base URL for the generative-text API
	PUBLIC_URL = "https://generativelanguage.googleapis.com"

	GENERATE_PATH_TEMPLATE = "/v1beta/models/%s:generateContent"
)

var (
	// ErrMissingCredential is returned before any network call when no usable
	// API key is configured
	ErrMissingCredential = errors.New("missing or placeholder API credential")

	// ErrUnexpectedShape is returned when the response decodes but carries no
	// usable candidate text
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrMalformedPayload marks responses that could not be decoded at all
	ErrMalformedPayload = errors.New("malformed provider payload")
)

// StatusError reports a non-success HTTP status from the text provider
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("text provider request failed with status %d: %s", e.StatusCode, e.Body)
}

// TextGenerator defines the single operation the analysis service depends on
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Client is the HTTP client for the generative-text provider
type Client struct {
	config        config.GeminiConfig
	httpClient    *http.Client
	metricsWriter *metrics.MetricsWriter
}

// NewClient creates a text provider client from config
func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		config:        cfg,
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceGemini),
	}
}

// GenerateText submits the prompt and returns the first candidate's text.
// A missing or placeholder credential fails fast without touching the network.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !c.config.HasValidKey() {
		return "", ErrMissingCredential
	}

	payload, err := json.Marshal(NewTextRequest(prompt))
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s"+GENERATE_PATH_TEMPLATE, c.baseURL(), c.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.metricsWriter.RecordRequest("error")
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metricsWriter.RecordRequest("error")
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.metricsWriter.RecordRequest("error")
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var generateResp GenerateResponse
	if err := json.Unmarshal(body, &generateResp); err != nil {
		c.metricsWriter.RecordRequest("error")
		log.Printf("Gemini: Error parsing response: %v", err)
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	text, ok := generateResp.FirstText()
	if !ok {
		c.metricsWriter.RecordRequest("error")
		return "", ErrUnexpectedShape
	}

	c.metricsWriter.RecordRequest("success")
	return text, nil
}

func (c *Client) baseURL() string {
	if c.config.OverrideURL != "" {
		return c.config.OverrideURL
	}
	return PUBLIC_URL
}
