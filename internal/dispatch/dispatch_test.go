package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/media"
	"github.com/abhisek/geniusprep/internal/prompt"
	"github.com/abhisek/geniusprep/internal/study"
)

var testImage = media.Payload{Data: "aGVsbG8=", MIMEType: "image/png", Size: 5}

// mustDescriptor takes a builder's (Descriptor, error) pair directly and
// returns a function that fails t on the error.
func mustDescriptor(d prompt.Descriptor, err error) func(*testing.T) prompt.Descriptor {
	return func(t *testing.T) prompt.Descriptor {
		t.Helper()
		require.NoError(t, err)
		return d
	}
}

func TestDispatchRoutesByTier(t *testing.T) {
	heavy := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`[]`)},
		llm.MockResponse{Content: json.RawMessage(`# Notes`)},
		llm.MockResponse{Content: json.RawMessage(`An explanation`)},
	)
	light := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`[]`)})
	d := New(heavy, light)
	ctx := context.Background()

	_, err := d.Dispatch(ctx, mustDescriptor(prompt.StudyPlan("JEE", 7))(t))
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, mustDescriptor(prompt.NoteCleanup(testImage))(t))
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, mustDescriptor(prompt.ImageExplanation(testImage, ""))(t))
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, mustDescriptor(prompt.Quiz("Optics", study.DifficultyHard))(t))
	require.NoError(t, err)

	assert.Equal(t, 3, heavy.CallCount())
	assert.Equal(t, 1, light.CallCount())
}

func TestDispatchThinkingBudgetOnlyForExplain(t *testing.T) {
	heavy := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`ok`)},
		llm.MockResponse{Content: json.RawMessage(`ok`)},
	)
	d := New(heavy, llm.NewMockProvider())

	_, err := d.Dispatch(context.Background(), mustDescriptor(prompt.ImageExplanation(testImage, ""))(t))
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), mustDescriptor(prompt.NoteCleanup(testImage))(t))
	require.NoError(t, err)

	assert.Equal(t, ExplainThinkingBudget, heavy.Calls[0].ThinkingBudget)
	assert.Zero(t, heavy.Calls[1].ThinkingBudget)
}

func TestDispatchResult(t *testing.T) {
	light := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`[{"question":"q"}]`)})
	d := New(llm.NewMockProvider(), light, WithRequestIDs(func() string { return "req-1" }))

	res, err := d.Dispatch(context.Background(), mustDescriptor(prompt.Quiz("Optics", study.DifficultyEasy))(t))
	require.NoError(t, err)

	assert.Equal(t, RawResult{
		Text:       `[{"question":"q"}]`,
		Structured: true,
		Model:      "mock",
		RequestID:  "req-1",
	}, res)
}

func TestDispatchFreeTextIsNotStructured(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`# Clean notes`)})
	d := New(heavy, llm.NewMockProvider())

	res, err := d.Dispatch(context.Background(), mustDescriptor(prompt.NoteCleanup(testImage))(t))
	require.NoError(t, err)
	assert.False(t, res.Structured)
	assert.Equal(t, "# Clean notes", res.Text)
	assert.NotEmpty(t, res.RequestID)
}

func TestDispatchWrapsBackendFailure(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}})
	d := New(heavy, llm.NewMockProvider())

	_, err := d.Dispatch(context.Background(), mustDescriptor(prompt.StudyPlan("NEET", 3))(t))

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, study.FeatureStudyPlan, be.Feature)
	assert.Equal(t, "mock", be.Model)

	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

type nilProvider struct{}

func (nilProvider) Generate(context.Context, llm.Request) (*llm.Response, error) { return nil, nil }
func (nilProvider) ModelID() string                                               { return "nil" }

func TestDispatchNilResponse(t *testing.T) {
	d := New(nilProvider{}, nilProvider{})

	_, err := d.Dispatch(context.Background(), mustDescriptor(prompt.StudyPlan("NEET", 3))(t))

	var be *BackendError
	require.ErrorAs(t, err, &be)
	var inv *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestDispatchUnknownFeature(t *testing.T) {
	d := New(llm.NewMockProvider(), llm.NewMockProvider())

	_, err := d.Dispatch(context.Background(), prompt.Descriptor{Feature: "tutor"})

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, study.Feature("tutor"), be.Feature)
}

func TestDispatchCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	heavy := llm.NewMockProvider(llm.MockResponse{Wait: release})
	d := New(heavy, llm.NewMockProvider())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Dispatch(ctx, mustDescriptor(prompt.StudyPlan("NEET", 3))(t))
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, context.Canceled)
}

type ctxProvider struct {
	purpose   string
	requestID string
}

func (p *ctxProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.purpose = llm.PurposeFrom(ctx)
	p.requestID = llm.RequestIDFrom(ctx)
	return &llm.Response{Content: json.RawMessage(`[]`)}, nil
}
func (p *ctxProvider) ModelID() string { return "ctx" }

func TestDispatchLabelsContext(t *testing.T) {
	light := &ctxProvider{}
	d := New(&ctxProvider{}, light, WithRequestIDs(func() string { return "abc" }))

	res, err := d.Dispatch(context.Background(), mustDescriptor(prompt.Quiz("Optics", study.DifficultyMedium))(t))
	require.NoError(t, err)

	assert.Equal(t, "quiz", light.purpose)
	assert.Equal(t, "abc", light.requestID)
	assert.Equal(t, "ctx", res.Model)
}

func TestNewFromConfigMissingCredential(t *testing.T) {
	cfg := llm.DefaultConfig()

	d, err := NewFromConfig(context.Background(), cfg, nil, nil)
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), mustDescriptor(prompt.Quiz("Optics", study.DifficultyMedium))(t))
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
	assert.Equal(t, "gemini-flash", be.Model)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (slowProvider) ModelID() string { return "slow" }

func TestTimeoutProvider(t *testing.T) {
	p := withTimeout(slowProvider{}, llm.Config{Timeout: 10 * time.Millisecond})

	_, err := p.Generate(context.Background(), llm.Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "slow", p.ModelID())
}

func TestTierFor(t *testing.T) {
	tier, ok := TierFor(study.FeatureQuiz)
	require.True(t, ok)
	assert.Equal(t, TierLight, tier)
	assert.Equal(t, "light", tier.String())

	tier, ok = TierFor(study.FeatureExplainImage)
	require.True(t, ok)
	assert.Equal(t, TierHeavy, tier)

	_, ok = TierFor("tutor")
	assert.False(t, ok)
}
