package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"residue/internal/facts"
	"residue/internal/logging"
)

// factsCmd dumps the automaton as a Datalog program
var factsCmd = &cobra.Command{
	Use:   "facts [D R]",
	Short: "Print the automaton for (D, R) as a Mangle program",
	Long: `Prints the automaton as Datalog facts and rules. D and R default to
automaton.modulus and automaton.target from the config file.`,
	Args:  noneOrModulusAndTarget,
	RunE:  runFacts,
}

// reachableCmd evaluates the Datalog program
var reachableCmd = &cobra.Command{
	Use:   "reachable [D R]",
	Short: "Evaluate the Mangle program and list reachable and accepting carries",
	Args:  noneOrModulusAndTarget,
	RunE:  runReachable,
}

func runFacts(cmd *cobra.Command, args []string) error {
	d, r, _, err := modulusAndTarget(args)
	if err != nil {
		return err
	}
	src, err := facts.Program(d, r)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), src)
	return nil
}

func runReachable(cmd *cobra.Command, args []string) error {
	d, r, _, err := modulusAndTarget(args)
	if err != nil {
		return err
	}
	res, err := facts.Evaluate(commandContext(cmd), d, r)
	if err != nil {
		return err
	}
	loggers.Get(logging.CategoryFacts).Debug("Program evaluated",
		zap.Uint64("modulus", res.Modulus),
		zap.Int("edges", res.Edges),
		zap.Int("reachable", len(res.Reachable)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "modulus=%d target=%d edges=%d\n", res.Modulus, res.Target, res.Edges)
	fmt.Fprintf(out, "reachable=%v\n", res.Reachable)
	fmt.Fprintf(out, "accepting=%v\n", res.Accepting)
	return nil
}
