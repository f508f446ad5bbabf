package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the pipeline
type Config struct {
	Coingecko CoingeckoConfig `yaml:"coingecko"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Ticker    TickerConfig    `yaml:"ticker"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LoadConfig reads configuration from a YAML file and the environment.
// A .env file next to the binary is loaded first when present so that
// credentials never have to live in the YAML file itself.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Config: no .env file loaded: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	config.Gemini.APIKey = resolveGeminiKey(&config.Gemini)

	return config, nil
}

// DefaultConfig returns a config with all defaults applied
func DefaultConfig() *Config {
	return &Config{
		Coingecko: DefaultCoingeckoConfig(),
		Gemini:    DefaultGeminiConfig(),
		Ticker:    DefaultTickerConfig(),
		Refresh:   DefaultRefreshConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// resolveGeminiKey picks the credential from the configured environment
// variable, falling back to a key file when one is configured
func resolveGeminiKey(cfg *GeminiConfig) string {
	if key := os.Getenv(cfg.APIKeyEnv); key != "" {
		return key
	}

	if cfg.APIKeyFile != "" {
		data, err := os.ReadFile(cfg.APIKeyFile)
		if err != nil {
			log.Printf("Config: error reading Gemini key file %s: %v", cfg.APIKeyFile, err)
			return ""
		}
		return trimKey(string(data))
	}

	return ""
}
