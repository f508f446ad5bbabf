package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/coinscope/market-pipeline/config"
	"github.com/coinscope/market-pipeline/metrics"
)

// ErrMalformedPayload marks provider responses that could not be decoded
var ErrMalformedPayload = errors.New("malformed provider payload")

// APIClient defines the provider operations the fetcher depends on
//
// Implementations must honor context cancellation on every call.
type APIClient interface {
	FetchCoinDetail(ctx context.Context, coinID, currencyID string) (*CoinDetail, error)
	FetchMarketChart(ctx context.Context, coinID, currencyID string, days int) (*MarketChart, error)
	Healthy() bool
}

// Client is the HTTP client for the price-data provider
type Client struct {
	config          config.CoingeckoConfig
	httpClient      *HTTPClientWithRetries
	apiKey          string
	successfulFetch atomic.Bool
}

// NewClient creates a provider client from config
func NewClient(cfg config.CoingeckoConfig) *Client {
	retryOpts := DefaultRetryOptions()
	retryOpts.LogPrefix = "CoinGecko"
	if cfg.MaxRetries > 0 {
		retryOpts.MaxRetries = cfg.MaxRetries
	}
	if cfg.ConnectionTimeout > 0 {
		retryOpts.ConnectionTimeout = cfg.ConnectionTimeout
	}
	if cfg.RequestTimeout > 0 {
		retryOpts.RequestTimeout = cfg.RequestTimeout
	}

	metricsWriter := metrics.NewMetricsWriter(metrics.ServiceCoingecko)
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RateLimitPerMinute)/60.0), max(cfg.Burst, 1))

	return &Client{
		config:     cfg,
		httpClient: NewHTTPClientWithRetries(retryOpts, metricsWriter, limiter),
		apiKey:     os.Getenv(cfg.APIKeyEnv),
	}
}

// Healthy reports whether the client has completed at least one successful fetch
func (c *Client) Healthy() bool {
	return c.successfulFetch.Load()
}

func (c *Client) baseURL() string {
	if c.config.OverridePublicURL != "" {
		return c.config.OverridePublicURL
	}
	return PUBLIC_URL
}

// FetchCoinDetail fetches the coin snapshot with market metadata only
func (c *Client) FetchCoinDetail(ctx context.Context, coinID, currencyID string) (*CoinDetail, error) {
	if coinID == "" {
		return nil, fmt.Errorf("coin ID is required")
	}

	apiPath := fmt.Sprintf(COIN_DETAIL_PATH_TEMPLATE, coinID)
	request, err := NewRequestBuilder(c.baseURL(), apiPath).
		WithMarketDataOnly().
		WithApiKey(c.apiKey).
		Build(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.httpClient.ExecuteRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	var detail CoinDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		log.Printf("CoinGecko: Error parsing coin detail response: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	c.successfulFetch.Store(true)
	return &detail, nil
}

// FetchMarketChart fetches the historical price series for a coin
func (c *Client) FetchMarketChart(ctx context.Context, coinID, currencyID string, days int) (*MarketChart, error) {
	if coinID == "" {
		return nil, fmt.Errorf("coin ID is required")
	}

	apiPath := fmt.Sprintf(MARKET_CHART_PATH_TEMPLATE, coinID)
	request, err := NewRequestBuilder(c.baseURL(), apiPath).
		WithCurrency(currencyID).
		WithDays(days).
		WithApiKey(c.apiKey).
		Build(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.httpClient.ExecuteRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	var chart MarketChart
	if err := json.Unmarshal(body, &chart); err != nil {
		log.Printf("CoinGecko: Error parsing market chart response: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	c.successfulFetch.Store(true)
	return &chart, nil
}
