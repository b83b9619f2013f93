package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/geniusprep/internal/store"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *recordingRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByPurpose(context.Context) ([]store.LLMUsageStats, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByModel(context.Context) ([]store.LLMModelUsage, error) {
	return nil, nil
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	core, logs := observer.New(zapcore.InfoLevel)
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`[]`),
		Usage:   Usage{InputTokens: 7, OutputTokens: 3},
	})

	p := WithLogging(mock, repo, zap.New(core))
	ctx := WithRequestID(WithPurpose(context.Background(), "quiz"), "req-9")
	if _, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Purpose != "quiz" || ev.RequestID != "req-9" || ev.Provider != "mock" || !ev.Success {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.InputTokens != 7 || ev.OutputTokens != 3 || ev.ResponseBody != "[]" {
		t.Fatalf("unexpected usage/body: %+v", ev)
	}

	if logs.FilterMessage("llm request").Len() != 1 {
		t.Fatalf("expected one info line, got %v", logs.All())
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	core, logs := observer.New(zapcore.InfoLevel)
	wantErr := &ErrRateLimit{}
	p := WithLogging(NewMockProvider(MockResponse{Err: wantErr}), repo, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit to pass through, got %v", err)
	}
	if repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("expected failed event with message, got %+v", repo.events[0])
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatalf("expected one warn line, got %v", logs.All())
	}
}

func TestLoggingProvider_RepoErrorDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`"ok"`)}), repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("expected request to succeed, got %v", err)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`"ok"`)}), nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestSerializeRequest_ElidesMedia(t *testing.T) {
	out := serializeRequest(Request{
		System: "sys",
		Messages: []Message{{
			Role:    RoleUser,
			Content: "Explain.",
			Media:   []Media{{MIMEType: "image/png", Data: "aGVsbG8=", Size: 5}},
		}},
		Schema: &Schema{Name: "plan", Definition: map[string]any{"type": "array"}},
	})

	if strings.Contains(out, "aGVsbG8=") {
		t.Fatalf("expected media data elided, got:\n%s", out)
	}
	for _, want := range []string{"[system]", "<image/png, 5 bytes>", "Explain.", "[schema: plan]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
