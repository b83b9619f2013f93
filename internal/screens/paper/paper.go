// Package paper is the paper generator screen: a short multiple-choice
// quiz on a topic, answered in place and revealed all at once.
package paper

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geniusprep/internal/controller"
	"github.com/abhisek/geniusprep/internal/normalize"
	"github.com/abhisek/geniusprep/internal/screen"
	"github.com/abhisek/geniusprep/internal/study"
	"github.com/abhisek/geniusprep/internal/ui/components"
	"github.com/abhisek/geniusprep/internal/ui/layout"
	"github.com/abhisek/geniusprep/internal/ui/theme"
)

// quizDoneMsg is sent when the quiz call has settled.
type quizDoneMsg struct{}

// PaperScreen drives a controller.QuizController.
type PaperScreen struct {
	ctrl    *controller.QuizController
	topic   components.TextInput
	spinner spinner.Model

	// editing is true while the topic form has the keyboard.
	editing  bool
	question int
	cursor   int
}

var (
	_ screen.Screen          = (*PaperScreen)(nil)
	_ screen.KeyHintProvider = (*PaperScreen)(nil)
	_ screen.Closer          = (*PaperScreen)(nil)
)

// New creates the paper generator screen.
func New(ctx context.Context, svc controller.QuizService) *PaperScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &PaperScreen{
		ctrl:    controller.NewQuizController(svc, controller.WithContext(ctx)),
		topic:   components.NewTextInput("Topic", "e.g. Photosynthesis", false, 200),
		spinner: sp,
		editing: true,
	}
}

func (p *PaperScreen) Init() tea.Cmd {
	return p.topic.Focus()
}

func (p *PaperScreen) Title() string {
	return "Paper Generator"
}

// Close cancels an in-flight quiz request.
func (p *PaperScreen) Close() {
	p.ctrl.Close()
}

func (p *PaperScreen) answering() bool {
	st := p.ctrl.State()
	return !p.editing && st.Phase == controller.Succeeded && len(st.Questions) > 0
}

func (p *PaperScreen) KeyHints() []layout.KeyHint {
	if !p.answering() {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Difficulty"},
			{Key: "Enter", Description: "Generate"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if p.ctrl.State().ShowResults {
		return []layout.KeyHint{
			{Key: "←→", Description: "Question"},
			{Key: "N", Description: "New quiz"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Option"},
		{Key: "←→", Description: "Question"},
		{Key: "Enter", Description: "Choose"},
		{Key: "S", Description: "Submit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PaperScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizDoneMsg:
		if st := p.ctrl.State(); st.Phase == controller.Succeeded && len(st.Questions) > 0 {
			p.editing = false
			p.topic.Blur()
		}
		return p, nil

	case spinner.TickMsg:
		if p.ctrl.State().Phase != controller.Pending {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		if p.answering() {
			return p, p.handleAnswerKey(msg.String())
		}
		switch msg.String() {
		case "tab":
			p.cycleDifficulty()
			return p, nil
		case "enter":
			return p, p.submit()
		}
	}

	if !p.editing {
		return p, nil
	}
	var cmd tea.Cmd
	p.topic, cmd = p.topic.Update(msg)
	return p, cmd
}

func (p *PaperScreen) handleAnswerKey(key string) tea.Cmd {
	st := p.ctrl.State()
	options := st.Questions[p.question].Options

	switch key {
	case "up", "k":
		p.cursor = max(p.cursor-1, 0)
	case "down", "j":
		p.cursor = min(p.cursor+1, len(options)-1)
	case "left", "h", "shift+tab":
		p.moveQuestion(-1, len(st.Questions))
	case "right", "l", "tab":
		p.moveQuestion(1, len(st.Questions))
	case "enter", "space":
		if p.cursor >= 0 && p.cursor < len(options) {
			p.ctrl.Select(p.question, options[p.cursor])
		}
	case "s":
		p.ctrl.Reveal()
	case "n":
		p.editing = true
		return p.topic.Focus()
	}
	return nil
}

func (p *PaperScreen) moveQuestion(delta, n int) {
	p.question = min(max(p.question+delta, 0), n-1)
	p.cursor = 0
}

func (p *PaperScreen) cycleDifficulty() {
	current := p.ctrl.State().Difficulty
	for i, d := range study.Difficulties {
		if d == current {
			p.ctrl.SetDifficulty(study.Difficulties[(i+1)%len(study.Difficulties)])
			return
		}
	}
}

func (p *PaperScreen) submit() tea.Cmd {
	p.ctrl.SetTopic(p.topic.Value())
	run, ok := p.ctrl.Submit()
	if !ok {
		return nil
	}
	p.question, p.cursor = 0, 0
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		run()
		return quizDoneMsg{}
	})
}

func (p *PaperScreen) View(width, height int) string {
	st := p.ctrl.State()

	sections := []string{
		theme.Title.Render("Practice paper"),
		theme.Subtitle.Render("Five questions on any topic, checked when you submit."),
		"",
		p.topic.View(),
		renderDifficulty(st.Difficulty),
		"",
	}

	switch st.Phase {
	case controller.Pending:
		sections = append(sections, p.spinner.View()+" "+theme.Hint.Render("Setting your paper..."))
	case controller.Failed:
		sections = append(sections, theme.ErrorText.Render(st.Error))
	case controller.Succeeded:
		sections = append(sections, p.renderQuiz(st))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(strings.Join(sections, "\n"))
}

func renderDifficulty(current study.Difficulty) string {
	parts := make([]string, 0, len(study.Difficulties))
	for _, d := range study.Difficulties {
		if d == current {
			parts = append(parts, theme.Selected.Render("["+d.Label()+"]"))
		} else {
			parts = append(parts, theme.Muted.Render(" "+d.Label()+" "))
		}
	}
	return theme.Label.Render("Difficulty") + "  " + strings.Join(parts, " ")
}

func (p *PaperScreen) renderQuiz(st controller.QuizState) string {
	if len(st.Questions) == 0 {
		if st.Status == normalize.StatusDegraded {
			return theme.Warning.Render("The questions could not be read. Try generating again.")
		}
		return theme.Hint.Render("No questions were returned.")
	}

	q := min(p.question, len(st.Questions)-1)
	status := fmt.Sprintf("Question %d of %d  ·  %d answered", q+1, len(st.Questions), len(st.Selected))
	if st.ShowResults {
		correct, total := p.ctrl.Score()
		status = fmt.Sprintf("Question %d of %d  ·  Score %d/%d", q+1, len(st.Questions), correct, total)
	}

	cursor := p.cursor
	if p.editing {
		cursor = -1
	}
	mc := components.MultiChoice{
		Number:   q + 1,
		Question: st.Questions[q],
		Cursor:   cursor,
		Chosen:   st.Selected[q],
		Revealed: st.ShowResults,
	}

	out := theme.Hint.Render(status) + "\n\n" + mc.View()
	if st.Dropped > 0 {
		out += "\n" + theme.Hint.Render(fmt.Sprintf("%d malformed question(s) were skipped.", st.Dropped))
	}
	return out
}
