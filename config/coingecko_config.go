package config

import "time"

// CoingeckoConfig defines configuration for the price-data provider client
type CoingeckoConfig struct {
	// OverridePublicURL replaces the default public API base URL (used in tests)
	OverridePublicURL string `yaml:"override_public_url"`

	// APIKeyEnv names the environment variable holding an optional demo API key
	APIKeyEnv string `yaml:"api_key_env"`

	// ConnectionTimeout bounds connection establishment
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`

	// RequestTimeout bounds the whole request including reading the response
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxRetries is the number of attempts for retryable failures
	MaxRetries int `yaml:"max_retries"`

	// RateLimitPerMinute and Burst configure the client-side rate limiter
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	Burst              int `yaml:"burst"`
}

// DefaultCoingeckoConfig returns defaults matching the public API limits
func DefaultCoingeckoConfig() CoingeckoConfig {
	return CoingeckoConfig{
		APIKeyEnv:          "COINGECKO_API_KEY",
		ConnectionTimeout:  10 * time.Second,
		RequestTimeout:     30 * time.Second,
		MaxRetries:         3,
		RateLimitPerMinute: 30,
		Burst:              2,
	}
}
