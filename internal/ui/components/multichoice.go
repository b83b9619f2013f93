package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/geniusprep/internal/study"
	"github.com/abhisek/geniusprep/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice renders one quiz question. Cursor is the highlighted option
// (-1 for none), Chosen the recorded answer and Revealed switches to the
// marked view with the explanation.
type MultiChoice struct {
	Number   int
	Question study.QuizQuestion
	Cursor   int
	Chosen   string
	Revealed bool
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", m.Number, m.Question.Question)))
	b.WriteString("\n")

	for i, opt := range m.Question.Options {
		label := fmt.Sprint(i + 1)
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		if i == m.Cursor && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("  %s%s)  %s", prefix, label, opt)

		style := theme.Unselected
		switch {
		case m.Revealed && opt == m.Question.CorrectAnswer:
			style = theme.Correct
		case m.Revealed && opt == m.Chosen:
			style = theme.Incorrect
		case m.Revealed:
			style = theme.Muted
		case opt == m.Chosen:
			style = theme.Chosen
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if m.Revealed {
		verdict := theme.Incorrect.Render("✗ Not answered")
		switch {
		case m.Question.IsCorrect(m.Chosen):
			verdict = theme.Correct.Render("✓ Correct")
		case m.Chosen != "":
			verdict = theme.Incorrect.Render("✗ Incorrect")
		}
		b.WriteString("     " + verdict + "\n")
		if m.Question.Explanation != "" {
			b.WriteString("     " + theme.Hint.Render(m.Question.Explanation) + "\n")
		}
	}

	return b.String()
}
