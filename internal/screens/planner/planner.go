// Package planner is the exam planner screen: syllabus and day count in,
// a day-by-day study plan out.
package planner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geniusprep/internal/controller"
	"github.com/abhisek/geniusprep/internal/screen"
	"github.com/abhisek/geniusprep/internal/ui/components"
	"github.com/abhisek/geniusprep/internal/ui/layout"
	"github.com/abhisek/geniusprep/internal/ui/theme"
)

// planDoneMsg is sent when the plan call has settled.
type planDoneMsg struct{}

const (
	focusSyllabus = iota
	focusDays
)

// PlannerScreen drives a controller.PlanController.
type PlannerScreen struct {
	ctrl     *controller.PlanController
	syllabus components.TextInput
	days     components.TextInput
	focus    int
	spinner  spinner.Model
}

var (
	_ screen.Screen          = (*PlannerScreen)(nil)
	_ screen.KeyHintProvider = (*PlannerScreen)(nil)
	_ screen.Closer          = (*PlannerScreen)(nil)
)

// New creates the planner screen. Its calls end when ctx ends or the
// screen is popped.
func New(ctx context.Context, svc controller.PlanService) *PlannerScreen {
	syllabus := components.NewTextInput("Syllabus or exam", "e.g. JEE Physics: Kinematics, Laws of Motion", false, 500)
	days := components.NewTextInput("Days", "7", true, 2)
	days.SetValue(strconv.Itoa(controller.DefaultDays))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &PlannerScreen{
		ctrl:     controller.NewPlanController(svc, controller.WithContext(ctx)),
		syllabus: syllabus,
		days:     days,
		spinner:  sp,
	}
}

func (p *PlannerScreen) Init() tea.Cmd {
	return p.syllabus.Focus()
}

func (p *PlannerScreen) Title() string {
	return "Exam Planner"
}

// Close cancels an in-flight plan request.
func (p *PlannerScreen) Close() {
	p.ctrl.Close()
}

func (p *PlannerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Generate plan"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PlannerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case planDoneMsg:
		return p, nil

	case spinner.TickMsg:
		if p.ctrl.State().Phase != controller.Pending {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			return p, p.toggleFocus()
		case "enter":
			return p, p.submit()
		}
	}

	var cmd tea.Cmd
	if p.focus == focusSyllabus {
		p.syllabus, cmd = p.syllabus.Update(msg)
	} else {
		p.days, cmd = p.days.Update(msg)
	}
	return p, cmd
}

func (p *PlannerScreen) toggleFocus() tea.Cmd {
	if p.focus == focusSyllabus {
		p.focus = focusDays
		p.syllabus.Blur()
		return p.days.Focus()
	}
	p.focus = focusSyllabus
	p.days.Blur()
	return p.syllabus.Focus()
}

func (p *PlannerScreen) submit() tea.Cmd {
	p.ctrl.SetSyllabus(p.syllabus.Value())
	if n, err := p.days.NumericValue(); err == nil {
		p.ctrl.SetDays(n)
	}
	p.days.SetValue(strconv.Itoa(p.ctrl.State().Days))

	run, ok := p.ctrl.Submit()
	if !ok {
		return nil
	}
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		run()
		return planDoneMsg{}
	})
}

func (p *PlannerScreen) View(width, height int) string {
	st := p.ctrl.State()
	cw := min(width-4, 90)

	var sections []string
	sections = append(sections,
		theme.Title.Render("Plan your preparation"),
		theme.Subtitle.Render("Describe the syllabus and how many days you have."),
		"",
		p.syllabus.View(),
		p.days.View(),
		components.NewButton("Generate plan", st.Phase != controller.Pending).View(),
		"",
	)

	switch st.Phase {
	case controller.Pending:
		sections = append(sections, p.spinner.View()+" "+theme.Hint.Render("Drafting your study plan..."))
	case controller.Failed:
		sections = append(sections, theme.ErrorText.Render(st.Error))
	}
	if len(st.Plan.Items) > 0 || st.Phase == controller.Succeeded {
		sections = append(sections, renderPlan(st, cw))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(strings.Join(sections, "\n"))
}

func renderPlan(st controller.PlanState, width int) string {
	if len(st.Plan.Items) == 0 {
		if st.Plan.Degraded() {
			return theme.Warning.Render("The plan could not be read. Try again or rephrase the syllabus.")
		}
		return theme.Hint.Render("No plan was returned.")
	}

	var b strings.Builder
	for _, day := range st.Plan.Items {
		b.WriteString(theme.Label.Render(fmt.Sprintf("Day %d", day.Day)))
		b.WriteString("  ")
		b.WriteString(theme.Body.Bold(true).Render(day.Topic))
		b.WriteString("\n")
		for _, a := range day.Activities {
			b.WriteString(theme.Body.Render("   • " + a))
			b.WriteString("\n")
		}
	}
	if st.Plan.Dropped > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d malformed day(s) were skipped.", st.Plan.Dropped)))
	}
	return theme.Card.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}
