package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/geniusprep/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "geniusprep",
	Short: "AI study companion for competitive exams",
	Long: "GeniusPrep: terminal study assistant for JEE, NEET and UPSC aspirants.\n\n" +
		"Build study plans, generate practice papers, digitize handwritten notes\n" +
		"and get explanations of diagrams. Set GEMINI_API_KEY (or configure another\n" +
		"provider in the config file) before using the AI features.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel in-flight
// requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite request log (overrides GENIUSPREP_DB env var)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/geniusprep/config.yaml)")
	pf.BoolP("verbose", "v", false, "Debug logging; one-shot commands also log to stderr")
	pf.Bool("no-log-db", false, "Do not record LLM requests in the request log")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then the configured path, then GENIUSPREP_DB and the default
// XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
