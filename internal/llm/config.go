package llm

import (
	"fmt"
	"time"
)

// Config holds all LLM provider configuration.
//
// Credentials are carried explicitly here; nothing in this package reads
// the process environment. See internal/config for the env and file layers.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "anthropic", "openai", "openrouter", "mock"
	Provider string

	// Timeout bounds a single backend call. Zero means no local timeout;
	// the caller's context still applies.
	Timeout time.Duration

	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey     string
	HeavyModel string // Default: "gemini-pro"
	LightModel string // Default: "gemini-flash"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey     string
	HeavyModel string // Default: "claude-sonnet"
	LightModel string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey     string
	HeavyModel string // Default: "gpt-4o"
	LightModel string // Default: "gpt-4o-mini"
	BaseURL    string // Optional. Override for compatible APIs.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey     string
	HeavyModel string // Default: "google/gemini-2.5-pro"
	LightModel string // Default: "google/gemini-2.5-flash"
	BaseURL    string // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			HeavyModel: "gemini-pro",
			LightModel: "gemini-flash",
		},
		Anthropic: AnthropicConfig{
			HeavyModel: "claude-sonnet",
			LightModel: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			HeavyModel: "gpt-4o",
			LightModel: "gpt-4o-mini",
		},
		OpenRouter: OpenRouterConfig{
			HeavyModel: "google/gemini-2.5-pro",
			LightModel: "google/gemini-2.5-flash",
		},
	}
}

// Validate checks that the selected provider is known. A missing API key is
// not a configuration error: it surfaces as a failure on the first request.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "anthropic", "openai", "openrouter", "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

// APIKey returns the credential for the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case "gemini":
		return c.Gemini.APIKey
	case "anthropic":
		return c.Anthropic.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "openrouter":
		return c.OpenRouter.APIKey
	}
	return ""
}

// HasCredential reports whether the selected provider can authenticate.
func (c Config) HasCredential() bool {
	return c.Provider == "mock" || c.APIKey() != ""
}

// Models returns the heavy and light model names for the selected provider.
func (c Config) Models() (heavy, light string) {
	switch c.Provider {
	case "gemini":
		return c.Gemini.HeavyModel, c.Gemini.LightModel
	case "anthropic":
		return c.Anthropic.HeavyModel, c.Anthropic.LightModel
	case "openai":
		return c.OpenAI.HeavyModel, c.OpenAI.LightModel
	case "openrouter":
		return c.OpenRouter.HeavyModel, c.OpenRouter.LightModel
	}
	return "mock", "mock"
}
