package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/geniusprep/internal/controller"
	"github.com/abhisek/geniusprep/internal/router"
	"github.com/abhisek/geniusprep/internal/screen"
	"github.com/abhisek/geniusprep/internal/screens/imagescreen"
	"github.com/abhisek/geniusprep/internal/screens/paper"
	"github.com/abhisek/geniusprep/internal/screens/placeholder"
	"github.com/abhisek/geniusprep/internal/screens/planner"
	"github.com/abhisek/geniusprep/internal/ui/components"
)

// Service is everything the feature screens need from the backend.
type Service interface {
	controller.PlanService
	controller.QuizService
	controller.NotesService
	controller.ExplainService
}

// Deps are the dependencies handed to the feature screens.
type Deps struct {
	// Ctx bounds every request started from the TUI.
	Ctx     context.Context
	Service Service
	// ExplainInstruction overrides the default explanation prompt.
	ExplainInstruction string
	Image              imagescreen.Options
	// MissingKey shows a banner that AI features will fail.
	MissingKey bool
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu       components.Menu
	missingKey bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	svc := deps.Service

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: build()}
			}
		}
	}

	items := []components.MenuItem{
		{
			Label:       "EXAM PLANNER",
			Description: "Day-by-day study plan",
			Action:      push(func() screen.Screen { return planner.New(ctx, svc) }),
		},
		{
			Label:       "SCAN BOARD",
			Description: "Notes photo to Markdown",
			Action:      push(func() screen.Screen { return imagescreen.NewScanBoard(ctx, svc, deps.Image) }),
		},
		{
			Label:       "PAPER GENERATOR",
			Description: "Five-question practice quiz",
			Action:      push(func() screen.Screen { return paper.New(ctx, svc) }),
		},
		{
			Label:       "EXPLAIN IMAGE",
			Description: "Step-by-step explanation",
			Action: push(func() screen.Screen {
				return imagescreen.NewExplain(ctx, svc, deps.ExplainInstruction, deps.Image)
			}),
		},
		{
			Label:       "AI TUTOR",
			Description: "Coming soon",
			Action:      push(func() screen.Screen { return placeholder.New("AI Tutor") }),
		},
		{
			Label:  "EXIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{
		menu:       components.NewMenu(items),
		missingKey: deps.MissingKey,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)
	compact := height < 22 || width < 100

	sections := []string{renderTitle(cw, compact)}
	if h.missingKey {
		sections = append(sections, renderKeyBanner(cw))
	}
	sections = append(sections, renderMenu(h.menu, cw))

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
