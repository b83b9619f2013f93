package home

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geniusprep/internal/coach"
	"github.com/abhisek/geniusprep/internal/dispatch"
	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/router"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newHome(missingKey bool) *HomeScreen {
	svc := coach.New(dispatch.New(llm.NewMockProvider(), llm.NewMockProvider()), nil)
	return New(Deps{Service: svc, MissingKey: missingKey})
}

func pushedTitle(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	return msg.Screen.Title()
}

func TestHomeScreen_MenuPushesScreens(t *testing.T) {
	want := []string{"Exam Planner", "Scan Board", "Paper Generator", "Explain", "AI Tutor"}

	for i, title := range want {
		h := newHome(false)
		for range i {
			h.Update(specialKey(tea.KeyDown))
		}
		_, cmd := h.Update(specialKey(tea.KeyEnter))
		if got := pushedTitle(t, cmd); got != title {
			t.Errorf("item %d: expected %q, got %q", i, title, got)
		}
	}
}

func TestHomeScreen_ExitQuits(t *testing.T) {
	h := newHome(false)
	for range 5 {
		h.Update(specialKey(tea.KeyDown))
	}
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestHomeScreen_KeyBanner(t *testing.T) {
	if strings.Contains(newHome(false).View(100, 30), "No API key") {
		t.Error("expected no banner when a key is set")
	}
	if !strings.Contains(newHome(true).View(100, 30), "No API key") {
		t.Error("expected banner when no key is set")
	}
}
