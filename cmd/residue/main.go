package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"residue/internal/config"
	"residue/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	cfg     = config.DefaultConfig()
	loggers = logging.NewLoggers(nil, config.LoggingConfig{})
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "residue",
	Short: "Decimal residue-class automata",
	Long: `residue decides whether decimal numerals are congruent to r modulo d by
running the automaton R(d, r, c) one digit at a time.

Reading digit x moves R(d, r, c) to R(d, r, (10c + x) mod d); a numeral is
accepted when the final carry c equals r.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		cfg = loaded

		root, err := logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		loggers = logging.NewLoggers(root, cfg.Logging)
		loggers.Get(logging.CategoryBoot).Debug("Config loaded",
			zap.String("path", configPath),
			zap.Int64("modulus", cfg.Automaton.Modulus),
			zap.Int64("target", cfg.Automaton.Target))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = loggers.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "residue.yaml", "Path to config file")

	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "Read numerals from file instead of stdin")
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "Re-run whenever --file changes")
	tableCmd.Flags().Int64VarP(&tableTarget, "target", "r", 0, "Highlight the accepting carry for this residue")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(
		matchCmd,
		stepCmd,
		tableCmd,
		checkCmd,
		factsCmd,
		reachableCmd,
		configCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// parseInts parses each argument as a base-10 int64, naming the argument in
// the error.
func parseInts(names []string, args []string) ([]int64, error) {
	out := make([]int64, len(names))
	for i, name := range names {
		n, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, args[i], err)
		}
		out[i] = n
	}
	return out, nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// noneOrModulusAndTarget accepts either no arguments, falling back to the
// config file, or exactly D and R.
func noneOrModulusAndTarget(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
	}
	return nil
}

// modulusAndTarget returns D and R from args when given, otherwise from config.
func modulusAndTarget(args []string) (int64, int64, []string, error) {
	if len(args) >= 2 {
		v, err := parseInts([]string{"modulus", "residue"}, args)
		if err != nil {
			return 0, 0, nil, err
		}
		return v[0], v[1], args[2:], nil
	}
	return cfg.Automaton.Modulus, cfg.Automaton.Target, args, nil
}
