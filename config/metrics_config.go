package config

// MetricsConfig defines configuration for the Prometheus exposition endpoint
type MetricsConfig struct {
	// Enabled toggles the /metrics HTTP listener
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the exposition endpoint binds to
	ListenAddress string `yaml:"listen_address"`
}

// DefaultMetricsConfig returns defaults for metrics exposition
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:       false,
		ListenAddress: "localhost:9090",
	}
}
