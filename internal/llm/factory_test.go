package llm

import (
	"context"
	"errors"
	"testing"
)

func TestNewProvider_MissingCredentialFailsOnFirstCall(t *testing.T) {
	cfg := DefaultConfig()

	p, err := NewProvider(context.Background(), cfg, "gemini-flash", nil, nil)
	if err != nil {
		t.Fatalf("expected construction to succeed, got %v", err)
	}
	if p.ModelID() != "gemini-flash" {
		t.Fatalf("expected 'gemini-flash', got %q", p.ModelID())
	}

	_, err = p.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "bogus"}, "x", nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, "", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*MockProvider); !ok {
		t.Fatalf("expected *MockProvider, got %T", p)
	}
}

func TestNewProvider_WithCredential(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "anthropic"
	cfg.Anthropic.APIKey = "sk-test"

	p, err := NewProvider(context.Background(), cfg, "claude-haiku", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*LoggingProvider); !ok {
		t.Fatalf("expected logging decorator, got %T", p)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Fatalf("unexpected model %q", p.ModelID())
	}
}

func TestUnconfiguredProvider_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newUnconfigured("gemini", "gemini-pro").Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
