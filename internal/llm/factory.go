package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/geniusprep/internal/store"
)

// NewProvider creates a Provider for one model of the configured backend.
// It returns the provider wrapped with logging middleware. eventRepo and
// log may be nil.
//
// A provider configured without an API key is still returned; it fails every
// Generate call with ErrMissingCredential.
func NewProvider(ctx context.Context, cfg Config, model string, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}
	if !cfg.HasCredential() {
		return WithLogging(newUnconfigured(cfg.Provider, model), eventRepo, log), nil
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini.APIKey, model)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic.APIKey, model)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI, model)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter, model)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, eventRepo, log), nil
}
