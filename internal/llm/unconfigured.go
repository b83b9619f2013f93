package llm

import (
	"context"
	"fmt"
)

// unconfiguredProvider stands in for a provider whose API key is missing so
// the app can start and report the problem on first use.
type unconfiguredProvider struct {
	name  string
	model string
}

func newUnconfigured(name, model string) *unconfiguredProvider {
	return &unconfiguredProvider{name: name, model: model}
}

func (p *unconfiguredProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, &ErrProviderUnavailable{
		Err: fmt.Errorf("%s: %w", p.name, ErrMissingCredential),
	}
}

func (p *unconfiguredProvider) ModelID() string {
	return p.model
}
