package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abhisek/geniusprep/internal/controller"
)

var scanCmd = &cobra.Command{
	Use:     "scan <image>",
	Short:   "Transcribe a photo of handwritten notes into Markdown",
	Example: `  geniusprep scan board.jpg --plain > notes.md`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImage(cmd, args[0], func(rt *runtime, opts []controller.Option) *controller.ImageController {
			return controller.NewNotesController(rt.coach, opts...)
		})
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <image>",
	Short: "Explain a diagram, concept or equation from an image",
	Example: `  geniusprep explain circuit.png
  geniusprep explain integral.jpg --prompt "Solve this step by step"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instruction, _ := cmd.Flags().GetString("prompt")
		return runImage(cmd, args[0], func(rt *runtime, opts []controller.Option) *controller.ImageController {
			return controller.NewExplainController(rt.coach, instruction, opts...)
		})
	},
}

type imageControllerFunc func(rt *runtime, opts []controller.Option) *controller.ImageController

func runImage(cmd *cobra.Command, path string, build imageControllerFunc) error {
	rt, err := newRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	progress := &progressPrinter{w: cmd.ErrOrStderr()}
	c := build(rt, []controller.Option{
		controller.WithContext(cmd.Context()),
		controller.WithNotify(func() { progress.notify() }),
	})
	defer c.Close()
	progress.ctrl = c

	c.SetMaxBytes(rt.cfg.Media.MaxBytes)
	c.Attach(path)
	run, ok := c.Submit()
	if !ok {
		return errors.New("image path must not be empty")
	}
	run()

	st := c.State()
	if st.Phase == controller.Failed {
		return rt.featureError(st.Error, st.Err)
	}
	printMarkdown(cmd, st.Text)
	return nil
}

func init() {
	explainCmd.Flags().StringP("prompt", "p", "", "Instruction sent with the image (default: explain simply)")
	for _, c := range []*cobra.Command{scanCmd, explainCmd} {
		c.Flags().Bool("plain", false, "Print Markdown without terminal styling")
	}
}
