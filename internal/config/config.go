// Package config loads GeniusPrep settings from an optional YAML file and
// the process environment, in that order, over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/geniusprep/internal/llm"
)

// Config is the full application configuration.
type Config struct {
	LLM   LLMConfig   `yaml:"llm"`
	DB    string      `yaml:"db"`
	Log   LogConfig   `yaml:"log"`
	Media MediaConfig `yaml:"media"`
}

// LLMConfig selects the backend and its credentials.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	// Timeout is a Go duration string; empty means no local timeout.
	Timeout string `yaml:"timeout"`
	// HeavyModel and LightModel override the selected provider's defaults.
	HeavyModel string `yaml:"heavy_model"`
	LightModel string `yaml:"light_model"`

	Gemini     ProviderConfig `yaml:"gemini"`
	Anthropic  ProviderConfig `yaml:"anthropic"`
	OpenAI     ProviderConfig `yaml:"openai"`
	OpenRouter ProviderConfig `yaml:"openrouter"`
}

// ProviderConfig holds one provider's settings.
type ProviderConfig struct {
	APIKey     string `yaml:"api_key"`
	HeavyModel string `yaml:"heavy_model"`
	LightModel string `yaml:"light_model"`
	BaseURL    string `yaml:"base_url"`
}

// LogConfig controls the application log.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MediaConfig bounds attached files.
type MediaConfig struct {
	// MaxBytes caps attachments. Zero means no cap.
	MaxBytes int64 `yaml:"max_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	d := llm.DefaultConfig()
	return &Config{
		LLM: LLMConfig{
			Provider: d.Provider,
			Gemini: ProviderConfig{
				HeavyModel: d.Gemini.HeavyModel,
				LightModel: d.Gemini.LightModel,
			},
			Anthropic: ProviderConfig{
				HeavyModel: d.Anthropic.HeavyModel,
				LightModel: d.Anthropic.LightModel,
			},
			OpenAI: ProviderConfig{
				HeavyModel: d.OpenAI.HeavyModel,
				LightModel: d.OpenAI.LightModel,
			},
			OpenRouter: ProviderConfig{
				HeavyModel: d.OpenRouter.HeavyModel,
				LightModel: d.OpenRouter.LightModel,
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/geniusprep/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "geniusprep", "config.yaml"), nil
}

// Load reads path, if it exists, and applies environment overrides. An
// empty path loads only defaults and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	setFromEnv(&c.LLM.Provider, "GENIUSPREP_LLM_PROVIDER")
	setFromEnv(&c.LLM.Timeout, "GENIUSPREP_LLM_TIMEOUT")
	setFromEnv(&c.LLM.HeavyModel, "GENIUSPREP_HEAVY_MODEL")
	setFromEnv(&c.LLM.LightModel, "GENIUSPREP_LIGHT_MODEL")

	// The web build read its key from GEMINI_API_KEY or API_KEY. The generic
	// API_KEY only fills a Gemini key that nothing else has set.
	setFromEnv(&c.LLM.Gemini.APIKey, "GEMINI_API_KEY", "GENIUSPREP_GEMINI_API_KEY")
	if c.LLM.Gemini.APIKey == "" {
		setFromEnv(&c.LLM.Gemini.APIKey, "API_KEY")
	}
	setFromEnv(&c.LLM.Anthropic.APIKey, "GENIUSPREP_ANTHROPIC_API_KEY")
	setFromEnv(&c.LLM.OpenAI.APIKey, "GENIUSPREP_OPENAI_API_KEY")
	setFromEnv(&c.LLM.OpenAI.BaseURL, "GENIUSPREP_OPENAI_BASE_URL")
	setFromEnv(&c.LLM.OpenRouter.APIKey, "GENIUSPREP_OPENROUTER_API_KEY")

	setFromEnv(&c.DB, "GENIUSPREP_DB")
	setFromEnv(&c.Log.Level, "GENIUSPREP_LOG_LEVEL")
	setFromEnv(&c.Log.File, "GENIUSPREP_LOG_FILE")
}

// setFromEnv assigns the last non-empty variable among keys to dst.
func setFromEnv(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
}

// Validate checks the provider name, log level and timeout. A missing API
// key is not an error here.
func (c *Config) Validate() error {
	if _, err := c.LLMConfig(); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.Media.MaxBytes < 0 {
		return fmt.Errorf("media.max_bytes must not be negative")
	}
	return nil
}

// LLMConfig converts the settings into an llm.Config.
func (c *Config) LLMConfig() (llm.Config, error) {
	out := llm.Config{
		Provider: c.LLM.Provider,
		Gemini: llm.GeminiConfig{
			APIKey:     c.LLM.Gemini.APIKey,
			HeavyModel: c.LLM.Gemini.HeavyModel,
			LightModel: c.LLM.Gemini.LightModel,
		},
		Anthropic: llm.AnthropicConfig{
			APIKey:     c.LLM.Anthropic.APIKey,
			HeavyModel: c.LLM.Anthropic.HeavyModel,
			LightModel: c.LLM.Anthropic.LightModel,
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:     c.LLM.OpenAI.APIKey,
			HeavyModel: c.LLM.OpenAI.HeavyModel,
			LightModel: c.LLM.OpenAI.LightModel,
			BaseURL:    c.LLM.OpenAI.BaseURL,
		},
		OpenRouter: llm.OpenRouterConfig{
			APIKey:     c.LLM.OpenRouter.APIKey,
			HeavyModel: c.LLM.OpenRouter.HeavyModel,
			LightModel: c.LLM.OpenRouter.LightModel,
			BaseURL:    c.LLM.OpenRouter.BaseURL,
		},
	}

	if c.LLM.Timeout != "" {
		d, err := time.ParseDuration(c.LLM.Timeout)
		if err != nil || d < 0 {
			return llm.Config{}, fmt.Errorf("invalid llm.timeout %q", c.LLM.Timeout)
		}
		out.Timeout = d
	}

	if err := out.Validate(); err != nil {
		return llm.Config{}, err
	}

	heavy, light := selected(&out)
	if c.LLM.HeavyModel != "" {
		*heavy = c.LLM.HeavyModel
	}
	if c.LLM.LightModel != "" {
		*light = c.LLM.LightModel
	}
	return out, nil
}

// selected returns the model fields of the chosen provider.
func selected(cfg *llm.Config) (heavy, light *string) {
	switch cfg.Provider {
	case "anthropic":
		return &cfg.Anthropic.HeavyModel, &cfg.Anthropic.LightModel
	case "openai":
		return &cfg.OpenAI.HeavyModel, &cfg.OpenAI.LightModel
	case "openrouter":
		return &cfg.OpenRouter.HeavyModel, &cfg.OpenRouter.LightModel
	case "gemini":
		return &cfg.Gemini.HeavyModel, &cfg.Gemini.LightModel
	}
	var h, l string
	return &h, &l
}
