// Package imagescreen hosts the two screens that send a single image to
// the model: the scan board (note cleanup) and image explanation.
package imagescreen

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geniusprep/internal/controller"
	"github.com/abhisek/geniusprep/internal/screen"
	"github.com/abhisek/geniusprep/internal/ui/components"
	"github.com/abhisek/geniusprep/internal/ui/layout"
	"github.com/abhisek/geniusprep/internal/ui/markdown"
	"github.com/abhisek/geniusprep/internal/ui/theme"
)

// doneMsg is sent when the image call has settled.
type doneMsg struct{}

// wording holds the screen-specific text.
type wording struct {
	title    string
	heading  string
	subtitle string
	working  string
}

// ImageScreen drives a controller.ImageController.
type ImageScreen struct {
	ctrl    *controller.ImageController
	text    wording
	path    components.TextInput
	spinner spinner.Model
	md      *markdown.Renderer
	offset  int
}

var (
	_ screen.Screen          = (*ImageScreen)(nil)
	_ screen.KeyHintProvider = (*ImageScreen)(nil)
	_ screen.Closer          = (*ImageScreen)(nil)
)

// Options are shared by both image screens.
type Options struct {
	// MaxBytes caps attached files. Zero means no cap.
	MaxBytes int64
	// Markdown renders results; nil uses the dark glamour style.
	Markdown *markdown.Renderer
}

// NewScanBoard creates the note cleanup screen.
func NewScanBoard(ctx context.Context, svc controller.NotesService, opts Options) *ImageScreen {
	c := controller.NewNotesController(svc, controller.WithContext(ctx))
	return newScreen(c, opts, wording{
		title:    "Scan Board",
		heading:  "Digitize handwritten notes",
		subtitle: "Give the path of a photo of your notes or the board.",
		working:  "Transcribing notes...",
	})
}

// NewExplain creates the image explanation screen. An empty instruction
// uses the default explanation prompt.
func NewExplain(ctx context.Context, svc controller.ExplainService, instruction string, opts Options) *ImageScreen {
	c := controller.NewExplainController(svc, instruction, controller.WithContext(ctx))
	return newScreen(c, opts, wording{
		title:    "Explain",
		heading:  "Explain a diagram or problem",
		subtitle: "Give the path of an image of a concept, diagram or equation.",
		working:  "Analyzing image...",
	})
}

func newScreen(c *controller.ImageController, opts Options, text wording) *ImageScreen {
	c.SetMaxBytes(opts.MaxBytes)
	md := opts.Markdown
	if md == nil {
		md = markdown.New("dark")
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &ImageScreen{
		ctrl:    c,
		text:    text,
		path:    components.NewTextInput("Image file", "~/Pictures/board.jpg", false, 0),
		spinner: sp,
		md:      md,
	}
}

func (s *ImageScreen) Init() tea.Cmd {
	return s.path.Focus()
}

func (s *ImageScreen) Title() string {
	return s.text.title
}

// Close cancels an in-flight encode or request.
func (s *ImageScreen) Close() {
	s.ctrl.Close()
}

func (s *ImageScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Upload"}}
	if s.ctrl.State().Text != "" {
		hints = append(hints, layout.KeyHint{Key: "PgUp/PgDn", Description: "Scroll"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *ImageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		s.offset = 0
		return s, nil

	case spinner.TickMsg:
		if s.ctrl.State().Phase != controller.Pending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "pgdown":
			s.offset += 5
			return s, nil
		case "pgup":
			s.offset = max(s.offset-5, 0)
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.path, cmd = s.path.Update(msg)
	return s, cmd
}

func (s *ImageScreen) submit() tea.Cmd {
	// An empty path must not replace the last result with an attach error.
	if strings.TrimSpace(s.path.Value()) == "" {
		return nil
	}
	if !s.ctrl.Attach(expandHome(s.path.Value())) {
		return nil
	}
	run, ok := s.ctrl.Submit()
	if !ok {
		return nil
	}
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		run()
		return doneMsg{}
	})
}

func (s *ImageScreen) View(width, height int) string {
	st := s.ctrl.State()
	cw := max(min(width-4, 100), 20)

	top := []string{
		theme.Title.Render(s.text.heading),
		theme.Subtitle.Render(s.text.subtitle),
		"",
		s.path.View(),
		"",
	}

	switch {
	case st.Phase == controller.Pending && st.Step == controller.StepEncoding:
		label := "Reading " + st.Name
		if st.Progress.Total > 0 {
			top = append(top, components.NewProgressBar(label, st.Progress.Fraction(), true, cw).View())
		} else {
			top = append(top, s.spinner.View()+" "+theme.Hint.Render(label))
		}
	case st.Phase == controller.Pending:
		top = append(top, s.spinner.View()+" "+theme.Hint.Render(s.text.working))
	case st.Phase == controller.Failed:
		top = append(top, theme.ErrorText.Render(st.Error))
	}

	header := strings.Join(top, "\n")
	if st.Phase != controller.Succeeded {
		return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 2).Render(header)
	}

	avail := max(height-lipgloss.Height(header)-2, 1)
	body := s.md.Render(st.Text, cw)
	lines := strings.Split(body, "\n")
	s.offset = min(s.offset, max(len(lines)-avail, 0))
	end := min(s.offset+avail, len(lines))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(header + "\n" + theme.Label.Render(st.Name) + "\n" + strings.Join(lines[s.offset:end], "\n"))
}
