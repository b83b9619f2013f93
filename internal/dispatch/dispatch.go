// Package dispatch sends prompt descriptors to the backend model tier that
// serves each feature.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/prompt"
	"github.com/abhisek/geniusprep/internal/store"
	"github.com/abhisek/geniusprep/internal/study"
)

// Tier selects which configured model serves a feature.
type Tier int

const (
	TierHeavy Tier = iota
	TierLight
)

func (t Tier) String() string {
	if t == TierLight {
		return "light"
	}
	return "heavy"
}

// ExplainThinkingBudget is the reasoning budget granted to image explanation.
const ExplainThinkingBudget = 2048

type route struct {
	tier           Tier
	thinkingBudget int
}

var routes = map[study.Feature]route{
	study.FeatureStudyPlan:    {tier: TierHeavy},
	study.FeatureExplainImage: {tier: TierHeavy, thinkingBudget: ExplainThinkingBudget},
	study.FeatureNoteCleanup:  {tier: TierHeavy},
	study.FeatureQuiz:         {tier: TierLight},
}

// TierFor returns the tier a feature is routed to.
func TierFor(f study.Feature) (Tier, bool) {
	r, ok := routes[f]
	return r.tier, ok
}

// RawResult is the unparsed backend output for one request.
type RawResult struct {
	Text       string
	Structured bool
	Model      string
	RequestID  string
}

// BackendError wraps every failure of a dispatched call.
type BackendError struct {
	Feature study.Feature
	Model   string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s via %s: %v", e.Feature, e.Model, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Dispatcher routes descriptors to a heavy or light provider. It makes
// exactly one backend call per Dispatch and never retries.
type Dispatcher struct {
	heavy llm.Provider
	light llm.Provider
	log   *zap.Logger
	newID func() string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// WithRequestIDs overrides request id generation.
func WithRequestIDs(fn func() string) Option {
	return func(d *Dispatcher) { d.newID = fn }
}

// New creates a Dispatcher over explicit providers.
func New(heavy, light llm.Provider, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		heavy: heavy,
		light: light,
		log:   zap.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromConfig builds both tiers from configuration. A missing credential
// does not fail here; the first Dispatch reports it.
func NewFromConfig(ctx context.Context, cfg llm.Config, repo store.EventRepo, log *zap.Logger, opts ...Option) (*Dispatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	heavyModel, lightModel := cfg.Models()

	heavy, err := llm.NewProvider(ctx, cfg, heavyModel, repo, log)
	if err != nil {
		return nil, fmt.Errorf("heavy tier: %w", err)
	}
	light, err := llm.NewProvider(ctx, cfg, lightModel, repo, log)
	if err != nil {
		return nil, fmt.Errorf("light tier: %w", err)
	}

	if cfg.Timeout > 0 {
		heavy = withTimeout(heavy, cfg)
		light = withTimeout(light, cfg)
	}

	opts = append([]Option{WithLogger(log)}, opts...)
	return New(heavy, light, opts...), nil
}

// Dispatch sends the descriptor's request to its tier. Any failure is
// returned as *BackendError; a result is never partial.
func (d *Dispatcher) Dispatch(ctx context.Context, desc prompt.Descriptor) (RawResult, error) {
	r, ok := routes[desc.Feature]
	if !ok {
		return RawResult{}, &BackendError{
			Feature: desc.Feature,
			Err:     fmt.Errorf("no route for feature %q", desc.Feature),
		}
	}

	provider := d.heavy
	if r.tier == TierLight {
		provider = d.light
	}
	model := provider.ModelID()

	req := desc.Request
	if r.thinkingBudget > 0 && req.ThinkingBudget == 0 {
		req.ThinkingBudget = r.thinkingBudget
	}

	requestID := d.newID()
	ctx = llm.WithPurpose(ctx, string(desc.Feature))
	ctx = llm.WithRequestID(ctx, requestID)

	d.log.Debug("dispatch",
		zap.String("feature", string(desc.Feature)),
		zap.Stringer("tier", r.tier),
		zap.String("model", model),
		zap.String("request_id", requestID),
	)

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return RawResult{}, &BackendError{Feature: desc.Feature, Model: model, Err: err}
	}
	if resp == nil {
		return RawResult{}, &BackendError{
			Feature: desc.Feature,
			Model:   model,
			Err:     &llm.ErrInvalidResponse{Err: errors.New("empty response")},
		}
	}
	if resp.Model != "" {
		model = resp.Model
	}

	return RawResult{
		Text:       resp.Text(),
		Structured: req.Schema != nil,
		Model:      model,
		RequestID:  requestID,
	}, nil
}
