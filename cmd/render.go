package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/geniusprep/internal/controller"
	"github.com/abhisek/geniusprep/internal/normalize"
	"github.com/abhisek/geniusprep/internal/study"
	"github.com/abhisek/geniusprep/internal/ui/markdown"
)

var optionLetters = "ABCDEFGH"

// printMarkdown writes md styled for the terminal, or as-is with --plain.
func printMarkdown(cmd *cobra.Command, md string) {
	out := cmd.OutOrStdout()
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		fmt.Fprintln(out, md)
		return
	}
	fmt.Fprintln(out, markdown.New("").Render(md, markdown.DefaultWidth))
}

func planMarkdown(st controller.PlanState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %d-day study plan\n\n", st.Days)
	fmt.Fprintf(&b, "_%s_\n\n", strings.TrimSpace(st.Syllabus))

	if len(st.Plan.Items) == 0 {
		if st.Plan.Degraded() {
			b.WriteString("The plan could not be read. Try again or rephrase the syllabus.\n")
		} else {
			b.WriteString("No plan was returned.\n")
		}
		return b.String()
	}

	for _, day := range st.Plan.Items {
		fmt.Fprintf(&b, "## Day %d: %s\n\n", day.Day, day.Topic)
		for _, a := range day.Activities {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")
	}
	if st.Plan.Dropped > 0 {
		fmt.Fprintf(&b, "_%d malformed day(s) were skipped._\n", st.Plan.Dropped)
	}
	return b.String()
}

func quizMarkdown(st controller.QuizState, answers bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(st.Topic))
	fmt.Fprintf(&b, "_Difficulty: %s_\n\n", st.Difficulty.Label())

	if len(st.Questions) == 0 {
		if st.Status == normalize.StatusDegraded {
			b.WriteString("The questions could not be read. Try generating again.\n")
		} else {
			b.WriteString("No questions were returned.\n")
		}
		return b.String()
	}

	for i, q := range st.Questions {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "- **%s)** %s\n", optionLabel(j), opt)
		}
		b.WriteString("\n")
	}

	if answers {
		b.WriteString("---\n\n## Answers\n\n")
		for i, q := range st.Questions {
			fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, answerLabel(q), q.Explanation)
		}
	}
	if st.Dropped > 0 {
		fmt.Fprintf(&b, "\n_%d malformed question(s) were skipped._\n", st.Dropped)
	}
	return b.String()
}

func optionLabel(i int) string {
	if i < len(optionLetters) {
		return optionLetters[i : i+1]
	}
	return fmt.Sprint(i + 1)
}

// answerLabel prefixes the correct answer with its option letter when the
// answer is one of the options.
func answerLabel(q study.QuizQuestion) string {
	for i, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return optionLabel(i) + ") " + opt
		}
	}
	return q.CorrectAnswer
}

// progressPrinter reports image encoding progress on w.
type progressPrinter struct {
	w    io.Writer
	ctrl *controller.ImageController
	step controller.Step
}

func (p *progressPrinter) notify() {
	st := p.ctrl.State()
	switch st.Step {
	case controller.StepEncoding:
		if st.Progress.Total > 0 {
			fmt.Fprintf(p.w, "\rReading %s %3.0f%%", st.Name, st.Progress.Fraction()*100)
		}
	case controller.StepDispatching:
		if p.step != controller.StepDispatching {
			fmt.Fprintf(p.w, "\rReading %s done\nWaiting for the model...\n", st.Name)
		}
	default:
		if p.step == controller.StepEncoding {
			fmt.Fprintln(p.w)
		}
	}
	p.step = st.Step
}
