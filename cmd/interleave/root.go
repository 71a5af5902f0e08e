package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/internal/config"
	"github.com/aretw0/interleave/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "interleave",
	Short: "Interleave analyzes communicating state machines",
	Long: `Interleave explores every interleaving of a set of message passing
processes and reports mutual exclusion segments, invariants and the
transitions that may run concurrently.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd)

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = logging.NewWithWriter(cmd.ErrOrStderr(), level, cfg.LogJSON)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", "", "Directory containing model files (INTERLEAVE_MODELS_DIR)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (INTERLEAVE_LOG_LEVEL)")
	flags.Bool("log-json", false, "Log as JSON (INTERLEAVE_LOG_JSON)")
	flags.Int("max-states", 0, "Bound on explored global states (INTERLEAVE_MAX_STATES)")
	flags.Int("max-iterations", 0, "Bound on every fixpoint loop (INTERLEAVE_MAX_ITERATIONS)")
	flags.Duration("timeout", 0, "Deadline of a single analysis (INTERLEAVE_TIMEOUT)")
}

// applyFlags overrides the environment with explicitly set flags.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.ModelsDir, _ = flags.GetString("dir")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	if flags.Changed("max-states") {
		cfg.MaxStates, _ = flags.GetInt("max-states")
	}
	if flags.Changed("max-iterations") {
		cfg.MaxIterations, _ = flags.GetInt("max-iterations")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
}

// analyzeOptions turns the configuration into analysis options.
func analyzeOptions(extra ...interleave.Option) []interleave.Option {
	opts := []interleave.Option{
		interleave.WithLogger(logger),
		interleave.WithMaxStates(cfg.MaxStates),
		interleave.WithMaxIterations(cfg.MaxIterations),
	}
	return append(opts, extra...)
}
