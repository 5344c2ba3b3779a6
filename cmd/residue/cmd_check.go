package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"residue/internal/batch"
	"residue/internal/logging"
	"residue/internal/watch"
)

var (
	checkFile  string
	checkWatch bool
)

// checkCmd classifies a list of numerals concurrently
var checkCmd = &cobra.Command{
	Use:   "check [D R]",
	Short: "Classify newline-separated numerals from a file or stdin",
	Long: `Reads one numeral per line and reports whether each is congruent to R
modulo D. Blank lines and lines starting with '#' are skipped. D and R default
to automaton.modulus and automaton.target from the config file.

With --watch, the file given by --file is re-checked every time it changes.`,
	Args: noneOrModulusAndTarget,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	d, r, _, err := modulusAndTarget(args)
	if err != nil {
		return err
	}

	c, err := batch.NewClassifier(d, r,
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithLogger(loggers.Get(logging.CategoryBatch)))
	if err != nil {
		return err
	}

	if checkWatch {
		return watchFile(cmd, c)
	}

	var in io.Reader = cmd.InOrStdin()
	if checkFile != "" {
		f, err := os.Open(checkFile)
		if err != nil {
			return fmt.Errorf("failed to open numerals file: %w", err)
		}
		defer f.Close()
		in = f
	}

	verdicts, err := c.ClassifyReader(commandContext(cmd), in)
	if err != nil {
		return err
	}
	printVerdicts(cmd.OutOrStdout(), verdicts)

	if s := batch.Summarize(verdicts); s.Invalid > 0 {
		return fmt.Errorf("%d invalid numeral(s)", s.Invalid)
	}
	return nil
}

func watchFile(cmd *cobra.Command, c *batch.Classifier) error {
	if checkFile == "" {
		return fmt.Errorf("--watch requires --file")
	}
	out := cmd.OutOrStdout()
	log := loggers.Get(logging.CategoryWatch)

	w, err := watch.New(checkFile, c, func(verdicts []batch.Verdict, err error) {
		if err != nil {
			log.Warn("Check failed", zap.Error(err))
			return
		}
		fmt.Fprintf(out, "--- %s (%s)\n", checkFile, c.Start())
		printVerdicts(out, verdicts)
	}, watch.WithDebounce(cfg.GetDebounce()), watch.WithLogger(log))
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

func printVerdicts(out io.Writer, verdicts []batch.Verdict) {
	for _, v := range verdicts {
		switch {
		case v.Err != nil:
			fmt.Fprintf(out, "%d\t%s\terror: %v\n", v.Line, v.Input, v.Err)
		default:
			fmt.Fprintf(out, "%d\t%s\t%t\n", v.Line, v.Input, v.Match)
		}
	}
	s := batch.Summarize(verdicts)
	fmt.Fprintf(out, "total=%d matched=%d rejected=%d invalid=%d\n", s.Total, s.Matched, s.Rejected, s.Invalid)
}
