package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geniusprep/internal/coach"
	"github.com/abhisek/geniusprep/internal/dispatch"
	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/router"
	"github.com/abhisek/geniusprep/internal/screens/home"
	"github.com/abhisek/geniusprep/internal/screens/placeholder"
)

func testModel() AppModel {
	svc := coach.New(dispatch.New(llm.NewMockProvider(), llm.NewMockProvider()), nil)
	m := newAppModel(Options{Home: home.Deps{Service: svc}, Status: "gemini-2.5-flash"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(AppModel)
}

func TestAppModel_FooterHints(t *testing.T) {
	m := testModel()
	if got := m.footerHints(m.router.Active()); got[0].Key != "↑↓" {
		t.Errorf("expected home hints, got %+v", got)
	}

	m.router.Update(router.PushScreenMsg{Screen: placeholder.New("AI Tutor")})
	if got := m.footerHints(m.router.Active()); got[0].Key != "Esc" {
		t.Errorf("expected back hint on pushed screen, got %+v", got)
	}
}

func TestAppModel_EscPops(t *testing.T) {
	m := testModel()
	m.router.Update(router.PushScreenMsg{Screen: placeholder.New("AI Tutor")})
	if m.router.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", m.router.Depth())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	m.Update(cmd())
	if m.router.Depth() != 1 {
		t.Errorf("expected depth 1 after esc, got %d", m.router.Depth())
	}

	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("expected esc on home to do nothing")
	}
}
