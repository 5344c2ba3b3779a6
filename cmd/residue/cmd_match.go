package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"residue/internal/automaton"
	"residue/internal/logging"
)

// matchCmd tests numerals against R(d, r, 0)
var matchCmd = &cobra.Command{
	Use:   "match D R NUMERAL...",
	Short: "Report whether each numeral is congruent to R modulo D",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runMatch,
}

// stepCmd applies a single digit transition
var stepCmd = &cobra.Command{
	Use:   "step D R C DIGIT",
	Short: "Apply one digit transition to the state R(D, R, C)",
	Args:  cobra.ExactArgs(4),
	RunE:  runStep,
}

func runMatch(cmd *cobra.Command, args []string) error {
	d, r, numerals, err := modulusAndTarget(args)
	if err != nil {
		return err
	}
	log := loggers.Get(logging.CategoryAutomaton)

	out := cmd.OutOrStdout()
	for _, numeral := range numerals {
		ok, err := automaton.Matches(d, r, numeral)
		if err != nil {
			log.Debug("Numeral rejected", zap.String("numeral", numeral), zap.Error(err))
			return fmt.Errorf("%q: %w", numeral, err)
		}
		log.Debug("Numeral matched",
			zap.String("numeral", numeral),
			zap.Bool("match", ok))
		fmt.Fprintf(out, "%s\t%t\n", numeral, ok)
	}
	return nil
}

func runStep(cmd *cobra.Command, args []string) error {
	v, err := parseInts([]string{"modulus", "residue", "carry"}, args[:3])
	if err != nil {
		return err
	}
	s, err := automaton.New(v[0], v[1], v[2])
	if err != nil {
		return err
	}

	if utf8.RuneCountInString(args[3]) != 1 {
		return fmt.Errorf("%w: DIGIT must be a single character, got %q", automaton.ErrInvalidDigit, args[3])
	}
	ch, _ := utf8.DecodeRuneInString(args[3])
	next, err := s.StepRune(ch)
	if err != nil {
		return err
	}

	loggers.Get(logging.CategoryAutomaton).Debug("Stepped",
		zap.Stringer("from", s),
		zap.String("digit", args[3]),
		zap.Stringer("to", next))
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s accepting=%t\n", s, next, next.Accepting())
	return nil
}
