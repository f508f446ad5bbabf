package config

import "time"

// TickerConfig defines configuration for the live price stream
type TickerConfig struct {
	// Enabled toggles the websocket ticker entirely
	Enabled bool `yaml:"enabled"`

	// OverrideWSURL replaces the default websocket URL (used in tests)
	OverrideWSURL string `yaml:"override_ws_url"`

	// ReconnectDelay is the wait before re-dialing a dropped stream
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// DefaultTickerConfig returns defaults for the live price stream
func DefaultTickerConfig() TickerConfig {
	return TickerConfig{
		Enabled:        true,
		ReconnectDelay: 5 * time.Second,
	}
}

// RefreshConfig defines configuration for periodic selection refresh
type RefreshConfig struct {
	// Enabled toggles the periodic re-fetch of the current selection
	Enabled bool `yaml:"enabled"`

	// Interval between automatic re-fetches
	Interval time.Duration `yaml:"interval"`
}

// DefaultRefreshConfig returns defaults for periodic refresh
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Enabled:  true,
		Interval: time.Minute,
	}
}
