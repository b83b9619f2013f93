package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/geniusprep/internal/app"
	"github.com/abhisek/geniusprep/internal/screens/home"
	"github.com/abhisek/geniusprep/internal/screens/imagescreen"
)

// runTUI builds dependencies and launches the TUI.
func runTUI(cmd *cobra.Command) error {
	rt, err := newRuntime(cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.Run(cmd.Context(), app.Options{
		Home: home.Deps{
			Service:    rt.coach,
			Image:      imagescreen.Options{MaxBytes: rt.cfg.Media.MaxBytes},
			MissingKey: !rt.llm.HasCredential(),
		},
		Status: rt.status(),
		Log:    rt.log,
	})
}
