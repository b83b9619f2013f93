package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/geniusprep/internal/controller"
)

var planCmd = &cobra.Command{
	Use:   "plan <syllabus>",
	Short: "Generate a day-by-day study plan",
	Example: `  geniusprep plan "JEE Physics: Kinematics, Laws of Motion" --days 14
  geniusprep plan "NEET Biology" --plain > plan.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		c := controller.NewPlanController(rt.coach, controller.WithContext(cmd.Context()))
		defer c.Close()
		c.SetSyllabus(strings.Join(args, " "))
		c.SetDays(days)
		if days != c.State().Days {
			rt.log.Warn("days clamped", zap.Int("requested", days), zap.Int("used", c.State().Days))
		}

		run, ok := c.Submit()
		if !ok {
			return errors.New("syllabus must not be empty")
		}
		run()

		st := c.State()
		if st.Phase == controller.Failed {
			return rt.featureError(st.Error, st.Err)
		}
		printMarkdown(cmd, planMarkdown(st))
		return nil
	},
}

func init() {
	planCmd.Flags().IntP("days", "d", controller.DefaultDays, "Number of days (1-60)")
	planCmd.Flags().Bool("plain", false, "Print Markdown without terminal styling")
}
