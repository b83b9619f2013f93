package dispatch

import (
	"context"
	"time"

	"github.com/abhisek/geniusprep/internal/llm"
)

// timeoutProvider bounds every call with a fixed deadline.
type timeoutProvider struct {
	llm.Provider
	timeout time.Duration
}

func withTimeout(p llm.Provider, cfg llm.Config) llm.Provider {
	return &timeoutProvider{Provider: p, timeout: cfg.Timeout}
}

func (t *timeoutProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
