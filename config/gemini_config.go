package config

import (
	"strings"
	"time"
)

// Placeholder values that must never be submitted as a real credential
var placeholderKeys = map[string]struct{}{
	"YOUR_API_KEY":     {},
	"CHANGEME":         {},
	"REPLACE_WITH_KEY": {},
}

// GeminiConfig defines configuration for the generative-text provider client
type GeminiConfig struct {
	// OverrideURL replaces the default API base URL (used in tests)
	OverrideURL string `yaml:"override_url"`

	// Model is the generative model identifier
	Model string `yaml:"model"`

	// APIKeyEnv names the environment variable holding the credential
	APIKeyEnv string `yaml:"api_key_env"`

	// APIKeyFile is an optional fallback file holding the credential
	APIKeyFile string `yaml:"api_key_file"`

	// RequestTimeout bounds the generateContent call
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// PromptCacheTTL controls dedupe of identical prompts; 0 disables it
	PromptCacheTTL time.Duration `yaml:"prompt_cache_ttl"`

	// APIKey is the resolved credential, never read from YAML
	APIKey string `yaml:"-"`
}

// DefaultGeminiConfig returns defaults for the Gemini client
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Model:          "gemini-1.5-flash",
		APIKeyEnv:      "GEMINI_API_KEY",
		RequestTimeout: 30 * time.Second,
		PromptCacheTTL: time.Minute,
	}
}

// HasValidKey reports whether a usable credential was resolved.
// Placeholder values count as missing so they are never submitted.
func (c *GeminiConfig) HasValidKey() bool {
	if c.APIKey == "" {
		return false
	}
	_, placeholder := placeholderKeys[c.APIKey]
	return !placeholder
}

func trimKey(s string) string {
	return strings.TrimSpace(s)
}
