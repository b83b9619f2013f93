package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/geniusprep/internal/coach"
	"github.com/abhisek/geniusprep/internal/config"
	"github.com/abhisek/geniusprep/internal/dispatch"
	"github.com/abhisek/geniusprep/internal/llm"
	"github.com/abhisek/geniusprep/internal/logging"
	"github.com/abhisek/geniusprep/internal/store"
)

// runtime holds everything a command needs to talk to the backend.
type runtime struct {
	cfg     *config.Config
	llm     llm.Config
	log     *zap.Logger
	coach   *coach.Service
	verbose bool
	closers []func()
}

// newRuntime loads configuration and wires logging, the request log, the
// dispatcher and the coach. console routes verbose logs to stderr, which
// the TUI must not do.
func newRuntime(cmd *cobra.Command, console bool) (*runtime, error) {
	rt := &runtime{}
	if err := rt.init(cmd, console); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) init(cmd *cobra.Command, console bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return err
	}
	rt.cfg, rt.llm = cfg, llmCfg
	rt.verbose, _ = cmd.Flags().GetBool("verbose")

	logOpts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if logOpts.File == "" {
		if logOpts.File, err = logging.DefaultPath(); err != nil {
			return err
		}
	}
	if rt.verbose {
		logOpts.Level = "debug"
		if console {
			logOpts.Console = cmd.ErrOrStderr()
		}
	}
	log, closeLog, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	rt.log = log
	rt.closers = append(rt.closers, closeLog)

	var repo store.EventRepo
	if noLog, _ := cmd.Flags().GetBool("no-log-db"); !noLog {
		dbPath, err := resolveDBPath(cmd, cfg.DB)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		rt.closers = append(rt.closers, func() { st.Close() })
		repo = st.EventRepo()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := dispatch.NewFromConfig(ctx, llmCfg, repo, log)
	if err != nil {
		return fmt.Errorf("init LLM backend: %w", err)
	}
	rt.coach = coach.New(d, log)

	if !llmCfg.HasCredential() {
		log.Warn("no API key configured", zap.String("provider", llmCfg.Provider))
	}
	return nil
}

// Close releases the store and flushes logs, in reverse order of opening.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

// status is the short backend description shown in the TUI header.
func (rt *runtime) status() string {
	if !rt.llm.HasCredential() {
		return "⚠ no API key"
	}
	_, light := rt.llm.Models()
	return rt.llm.Provider + " · " + light
}

// featureError turns a failed controller state into a command error. The
// underlying cause is only shown with --verbose.
func (rt *runtime) featureError(message string, err error) error {
	if rt.verbose && err != nil {
		return fmt.Errorf("%s: %w", message, err)
	}
	if errors.Is(err, llm.ErrMissingCredential) {
		return fmt.Errorf("%s (no API key configured for %s)", message, rt.llm.Provider)
	}
	return errors.New(message)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
