package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/geniusprep/internal/controller"
	"github.com/abhisek/geniusprep/internal/study"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <topic>",
	Short: "Generate a five-question practice paper",
	Example: `  geniusprep quiz Photosynthesis --difficulty easy
  geniusprep quiz "Rotational dynamics" -D hard --no-answers`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("difficulty")
		noAnswers, _ := cmd.Flags().GetBool("no-answers")

		difficulty, err := study.ParseDifficulty(level)
		if err != nil {
			return err
		}

		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		c := controller.NewQuizController(rt.coach, controller.WithContext(cmd.Context()))
		defer c.Close()
		c.SetTopic(strings.Join(args, " "))
		c.SetDifficulty(difficulty)

		run, ok := c.Submit()
		if !ok {
			return errors.New("topic must not be empty")
		}
		run()

		st := c.State()
		if st.Phase == controller.Failed {
			return rt.featureError(st.Error, st.Err)
		}
		printMarkdown(cmd, quizMarkdown(st, !noAnswers))
		return nil
	},
}

func init() {
	quizCmd.Flags().StringP("difficulty", "D", "medium", "Difficulty: easy, medium or hard")
	quizCmd.Flags().Bool("no-answers", false, "Leave out the answer key")
	quizCmd.Flags().Bool("plain", false, "Print Markdown without terminal styling")
}
