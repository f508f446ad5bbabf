package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// PUBLIC_URL is the base URL for the public API
	PUBLIC_URL = "https://api.coingecko.com"

	COIN_DETAIL_PATH_TEMPLATE  = "/api/v3/coins/%s"
	MARKET_CHART_PATH_TEMPLATE = "/api/v3/coins/%s/market_chart"
)

// buildURL safely combines a base URL with a path
func buildURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	trimmedPath := strings.TrimLeft(path, "/")

	return baseURL + "/" + trimmedPath
}

// RequestBuilder implements the Builder pattern for provider API requests
type RequestBuilder struct {
	baseURL   string
	apiPath   string
	params    map[string]string
	apiKey    string
	userAgent string
	headers   map[string]string
}

// NewRequestBuilder creates a new request builder for a provider endpoint
func NewRequestBuilder(baseURL, apiPath string) *RequestBuilder {
	rb := &RequestBuilder{
		baseURL:   baseURL,
		apiPath:   apiPath,
		params:    make(map[string]string),
		headers:   make(map[string]string),
		userAgent: "Mozilla/5.0 Market-Pipeline",
	}

	rb.headers["Accept"] = "application/json"

	return rb
}

// With adds a custom parameter to the URL query
func (rb *RequestBuilder) With(key, value string) *RequestBuilder {
	rb.params[key] = value
	return rb
}

// WithCurrency adds the vs_currency parameter
func (rb *RequestBuilder) WithCurrency(currency string) *RequestBuilder {
	if currency != "" {
		rb.params["vs_currency"] = currency
	}
	return rb
}

// WithDays adds the days parameter
func (rb *RequestBuilder) WithDays(days int) *RequestBuilder {
	if days > 0 {
		rb.params["days"] = fmt.Sprintf("%d", days)
	}
	return rb
}

// WithMarketDataOnly requests market metadata and strips localization,
// tickers, community and developer payloads from the response
func (rb *RequestBuilder) WithMarketDataOnly() *RequestBuilder {
	rb.params["localization"] = "false"
	rb.params["tickers"] = "false"
	rb.params["market_data"] = "true"
	rb.params["community_data"] = "false"
	rb.params["developer_data"] = "false"
	return rb
}

// WithApiKey sets an optional demo API key
func (rb *RequestBuilder) WithApiKey(apiKey string) *RequestBuilder {
	rb.apiKey = apiKey
	return rb
}

// WithUserAgent sets the User-Agent header
func (rb *RequestBuilder) WithUserAgent(userAgent string) *RequestBuilder {
	rb.userAgent = userAgent
	return rb
}

// BuildURL builds the complete URL for the request
func (rb *RequestBuilder) BuildURL() string {
	fullPath := buildURL(rb.baseURL, rb.apiPath)

	query := url.Values{}
	for key, value := range rb.params {
		query.Add(key, value)
	}

	if rb.apiKey != "" {
		query.Add("x_cg_demo_api_key", rb.apiKey)
	}

	finalURL := fullPath
	if queryString := query.Encode(); queryString != "" {
		finalURL = fmt.Sprintf("%s?%s", finalURL, queryString)
	}

	return finalURL
}

// Build creates an http.Request bound to the given context
func (rb *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rb.BuildURL(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", rb.userAgent)
	for key, value := range rb.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
