package coingecko

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestBuilder_BuildURL(t *testing.T) {
	rb := NewRequestBuilder("https://api.example.com", "/api/v3/coins/bitcoin/market_chart").
		WithCurrency("usd").
		WithDays(7)

	u, err := url.Parse(rb.BuildURL())
	require.NoError(t, err)

	assert.Equal(t, "api.example.com", u.Host)
	assert.Equal(t, "/api/v3/coins/bitcoin/market_chart", u.Path)
	assert.Equal(t, "usd", u.Query().Get("vs_currency"))
	assert.Equal(t, "7", u.Query().Get("days"))
}

func TestRequestBuilder_MarketDataOnly(t *testing.T) {
	rb := NewRequestBuilder("https://api.example.com", "/api/v3/coins/bitcoin").
		WithMarketDataOnly()

	u, err := url.Parse(rb.BuildURL())
	require.NoError(t, err)

	query := u.Query()
	assert.Equal(t, "true", query.Get("market_data"))
	assert.Equal(t, "false", query.Get("localization"))
	assert.Equal(t, "false", query.Get("tickers"))
	assert.Equal(t, "false", query.Get("community_data"))
	assert.Equal(t, "false", query.Get("developer_data"))
}

func TestRequestBuilder_ApiKey(t *testing.T) {
	withKey := NewRequestBuilder("https://api.example.com", "/api/v3/coins/bitcoin").
		WithApiKey("demo-key")
	u, err := url.Parse(withKey.BuildURL())
	require.NoError(t, err)
	assert.Equal(t, "demo-key", u.Query().Get("x_cg_demo_api_key"))

	withoutKey := NewRequestBuilder("https://api.example.com", "/api/v3/coins/bitcoin")
	u, err = url.Parse(withoutKey.BuildURL())
	require.NoError(t, err)
	assert.Empty(t, u.Query().Get("x_cg_demo_api_key"))
}

func TestRequestBuilder_TrailingSlashes(t *testing.T) {
	rb := NewRequestBuilder("https://api.example.com/", "/api/v3/ping")
	u, err := url.Parse(rb.BuildURL())
	require.NoError(t, err)
	assert.Equal(t, "/api/v3/ping", u.Path)
}

func TestRequestBuilder_Build(t *testing.T) {
	req, err := NewRequestBuilder("https://api.example.com", "/api/v3/ping").
		Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Contains(t, req.Header.Get("User-Agent"), "Market-Pipeline")
}
