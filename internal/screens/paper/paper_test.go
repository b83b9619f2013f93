package paper

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geniusprep/internal/coach"
	"github.com/abhisek/geniusprep/internal/controller"
	"github.com/abhisek/geniusprep/internal/dispatch"
	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/study"
)

const fiveQuestions = `[
	{"question":"Where does photosynthesis occur?","options":["Mitochondria","Chloroplast","Nucleus","Ribosome"],"correctAnswer":"Chloroplast","explanation":"Chlorophyll lives in chloroplasts."},
	{"question":"Gas released?","options":["CO2","O2","N2","H2"],"correctAnswer":"O2","explanation":"Water is split."},
	{"question":"Pigment?","options":["Chlorophyll","Melanin","Keratin","Haem"],"correctAnswer":"Chlorophyll","explanation":"Green pigment."},
	{"question":"Light reactions site?","options":["Stroma","Thylakoid","Cytosol","Vacuole"],"correctAnswer":"Thylakoid","explanation":"Membranes."},
	{"question":"Calvin cycle product?","options":["G3P","ATP","NADPH","O2"],"correctAnswer":"G3P","explanation":"Sugar precursor."}
]`

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

func generate(t *testing.T, s *PaperScreen, topic string) {
	t.Helper()
	for _, r := range topic {
		s.Update(keyPress(r))
	}
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command after submit")
	}
	for _, msg := range drain(cmd) {
		s.Update(msg)
	}
}

func newTestScreen(responses ...llm.MockResponse) (*PaperScreen, *llm.MockProvider) {
	light := llm.NewMockProvider(responses...)
	svc := coach.New(dispatch.New(llm.NewMockProvider(), light), nil)
	return New(context.Background(), svc), light
}

func TestPaperScreen_DifficultyCycles(t *testing.T) {
	s, _ := newTestScreen()
	s.Init()

	if got := s.ctrl.State().Difficulty; got != study.DifficultyMedium {
		t.Fatalf("expected Medium default, got %s", got)
	}
	s.Update(specialKey(tea.KeyTab))
	if got := s.ctrl.State().Difficulty; got != study.DifficultyHard {
		t.Errorf("expected Hard, got %s", got)
	}
	s.Update(specialKey(tea.KeyTab))
	if got := s.ctrl.State().Difficulty; got != study.DifficultyEasy {
		t.Errorf("expected Easy, got %s", got)
	}
}

func TestPaperScreen_AnswerAndReveal(t *testing.T) {
	s, light := newTestScreen(llm.MockResponse{Content: json.RawMessage(fiveQuestions)})
	s.Init()
	s.Update(specialKey(tea.KeyTab))
	s.Update(specialKey(tea.KeyTab)) // Easy

	generate(t, s, "Photosynthesis")

	call, _ := light.LastCall()
	if !strings.Contains(call.Messages[0].Content, "Difficulty: Easy") {
		t.Errorf("unexpected prompt: %q", call.Messages[0].Content)
	}
	if !s.answering() {
		t.Fatal("expected answering mode after quiz loads")
	}

	// Pick "Chloroplast" for question 1.
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyEnter))
	if got := s.ctrl.State().Selected[0]; got != "Chloroplast" {
		t.Fatalf("expected Chloroplast selected, got %q", got)
	}

	// "s" reveals rather than typing into the topic.
	s.Update(keyPress('s'))
	st := s.ctrl.State()
	if !st.ShowResults {
		t.Fatal("expected results shown")
	}
	if s.topic.Value() != "Photosynthesis" {
		t.Errorf("expected topic unchanged, got %q", s.topic.Value())
	}

	// Selections are frozen after reveal.
	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyEnter))
	if got := s.ctrl.State().Selected[0]; got != "Chloroplast" {
		t.Errorf("expected selection frozen, got %q", got)
	}

	view := s.View(100, 40)
	if !strings.Contains(view, "Score 1/5") {
		t.Errorf("expected score in view, got:\n%s", view)
	}
	if !strings.Contains(view, "Chlorophyll lives in chloroplasts.") {
		t.Error("expected explanation after reveal")
	}
}

func TestPaperScreen_QuestionNavigation(t *testing.T) {
	s, _ := newTestScreen(llm.MockResponse{Content: json.RawMessage(fiveQuestions)})
	s.Init()
	generate(t, s, "Photosynthesis")

	s.Update(specialKey(tea.KeyRight))
	s.Update(specialKey(tea.KeyEnter))
	if got := s.ctrl.State().Selected[1]; got != "CO2" {
		t.Errorf("expected first option of question 2, got %q", got)
	}
	for range 10 {
		s.Update(specialKey(tea.KeyRight))
	}
	if s.question != 4 {
		t.Errorf("expected last question, got %d", s.question)
	}
}

func TestPaperScreen_NewQuizReturnsToForm(t *testing.T) {
	s, _ := newTestScreen(llm.MockResponse{Content: json.RawMessage(fiveQuestions)})
	s.Init()
	generate(t, s, "Optics")

	s.Update(keyPress('n'))
	if s.answering() {
		t.Fatal("expected form mode after n")
	}
	s.Update(keyPress('s'))
	if got := s.topic.Value(); got != "Opticss" {
		t.Errorf("expected s typed into topic, got %q", got)
	}
}

func TestPaperScreen_Failure(t *testing.T) {
	s, _ := newTestScreen(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	s.Init()
	generate(t, s, "Optics")

	if s.ctrl.State().Phase != controller.Failed {
		t.Fatal("expected failed phase")
	}
	if !strings.Contains(s.View(100, 40), controller.QuizFailedMessage) {
		t.Error("expected failure message in view")
	}
}
