package imagescreen

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geniusprep/internal/coach"
	"github.com/abhisek/geniusprep/internal/controller"
	"github.com/abhisek/geniusprep/internal/dispatch"
	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/normalize"
	"github.com/abhisek/geniusprep/internal/ui/markdown"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func upload(t *testing.T, s *ImageScreen, path string) {
	t.Helper()
	for _, r := range path {
		s.Update(keyPress(r))
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command after upload")
	}
	for _, msg := range drain(cmd) {
		s.Update(msg)
	}
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newService(heavy *llm.MockProvider) *coach.Service {
	return coach.New(dispatch.New(heavy, llm.NewMockProvider()), nil)
}

func testOptions() Options {
	return Options{Markdown: markdown.New("notty")}
}

func TestScanBoard_Transcribes(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("# Thermodynamics\n\n- First law")})
	s := NewScanBoard(context.Background(), newService(heavy), testOptions())
	s.Init()

	upload(t, s, writeImage(t))

	st := s.ctrl.State()
	if st.Phase != controller.Succeeded {
		t.Fatalf("expected succeeded, got %s (%v)", st.Phase, st.Err)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Thermodynamics") || !strings.Contains(view, "First law") {
		t.Errorf("expected transcription in view, got:\n%s", view)
	}
	if !strings.Contains(view, "board.png") {
		t.Error("expected file name in view")
	}
}

func TestScanBoard_EmptyResultFallsBack(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("  ")})
	s := NewScanBoard(context.Background(), newService(heavy), testOptions())
	s.Init()

	upload(t, s, writeImage(t))

	if got := s.ctrl.State().Text; got != normalize.NotesFallback {
		t.Errorf("expected fallback text, got %q", got)
	}
}

func TestExplain_BackendFailure(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("offline")}})
	s := NewExplain(context.Background(), newService(heavy), "", testOptions())
	s.Init()

	if s.Title() != "Explain" {
		t.Errorf("expected title 'Explain', got %q", s.Title())
	}
	upload(t, s, writeImage(t))

	if !strings.Contains(s.View(100, 40), controller.ExplainFailedMessage) {
		t.Error("expected failure message in view")
	}
}

func TestExplain_MissingFile(t *testing.T) {
	heavy := llm.NewMockProvider()
	s := NewExplain(context.Background(), newService(heavy), "", testOptions())
	s.Init()

	upload(t, s, filepath.Join(t.TempDir(), "nope.jpg"))

	if s.ctrl.State().Phase != controller.Failed {
		t.Fatal("expected failed phase")
	}
	if heavy.CallCount() != 0 {
		t.Error("expected no backend call for unreadable file")
	}
}

func TestImageScreen_EmptyPathDoesNothing(t *testing.T) {
	s := NewScanBoard(context.Background(), newService(llm.NewMockProvider()), testOptions())
	s.Init()
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("expected no command without a path")
	}
}

func TestImageScreen_EmptyPathKeepsPreviousResult(t *testing.T) {
	heavy := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("# Optics\n\n- Snell's law")})
	s := NewScanBoard(context.Background(), newService(heavy), testOptions())
	s.Init()

	upload(t, s, writeImage(t))
	if s.ctrl.State().Phase != controller.Succeeded {
		t.Fatalf("expected succeeded, got %s", s.ctrl.State().Phase)
	}

	for _, value := range []string{"", "   "} {
		s.path.SetValue(value)
		if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
			t.Errorf("expected no command for path %q", value)
		}
		st := s.ctrl.State()
		if st.Phase != controller.Succeeded || !strings.Contains(st.Text, "Optics") {
			t.Errorf("path %q replaced the previous result: %+v", value, st)
		}
	}
	if heavy.CallCount() != 1 {
		t.Errorf("expected one backend call, got %d", heavy.CallCount())
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	tests := []struct {
		in, want string
	}{
		{"~/notes.jpg", filepath.Join(home, "notes.jpg")},
		{"'/tmp/a b.png'", "/tmp/a b.png"},
		{"  /tmp/x.png ", "/tmp/x.png"},
		{"relative.png", "relative.png"},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
