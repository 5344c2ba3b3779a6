// Package facts exports a residue automaton as a Datalog program and
// evaluates it with the Mangle engine.
//
// The program has three extensional predicates
//
//	initial(C).       the start carry, always 0
//	target(R).        the residue the automaton accepts
//	edge(C, X, C2).   reading digit X moves carry C to C2
//
// and two rules deriving reachable(C) and accepting(C).
package facts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"residue/internal/automaton"
)

// MaxProgramModulus bounds the moduli that can be exported. Evaluation runs
// to fixpoint inside the Mangle engine and cannot be interrupted, so the
// program is kept small enough to finish quickly.
const MaxProgramModulus = 512

const rules = `reachable(C) :- initial(C).
reachable(C2) :- reachable(C), edge(C, _, C2).
accepting(C) :- reachable(C), target(C).
`

// Analysis is the result of evaluating the program for one (d, r) pair.
type Analysis struct {
	Modulus   uint64
	Target    uint64
	Reachable []uint64 // sorted carries reachable from the start state
	Accepting []uint64 // sorted reachable carries that accept the empty suffix
	Edges     int      // number of edge facts in the program
}

// Program renders the Datalog source for the automaton with modulus d and
// target residue r. d is limited to MaxProgramModulus.
func Program(d, r int64) (string, error) {
	start, err := automaton.Initial(d, r)
	if err != nil {
		return "", err
	}
	if d > MaxProgramModulus {
		return "", fmt.Errorf("%w: %d > %d", automaton.ErrTableTooLarge, d, MaxProgramModulus)
	}
	tbl, err := automaton.NewTable(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# R(%d, %d, c): decimal numerals congruent to %d mod %d\n", start.Modulus(), start.Residue(), start.Residue(), start.Modulus())
	fmt.Fprintf(&sb, "initial(%d).\n", start.Carry())
	fmt.Fprintf(&sb, "target(%d).\n", start.Residue())
	for c := uint64(0); c < tbl.Modulus(); c++ {
		row := tbl.Row(c)
		for x, c2 := range row {
			fmt.Fprintf(&sb, "edge(%d, %d, %d).\n", c, x, c2)
		}
	}
	sb.WriteString(rules)
	return sb.String(), nil
}

// Evaluate builds the program for (d, r), runs it to fixpoint and collects the
// derived reachable and accepting carries. ctx is checked before and after
// evaluation; the engine itself cannot be cancelled mid-run.
func Evaluate(ctx context.Context, d, r int64) (*Analysis, error) {
	source, err := Program(d, r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unit, err := parse.Unit(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}
	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze program: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	if err := engine.EvalProgram(programInfo, store); err != nil {
		return nil, fmt.Errorf("failed to evaluate program: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reachable, err := carries(store, "reachable")
	if err != nil {
		return nil, err
	}
	accepting, err := carries(store, "accepting")
	if err != nil {
		return nil, err
	}

	start, _ := automaton.Initial(d, r)
	return &Analysis{
		Modulus:   start.Modulus(),
		Target:    start.Residue(),
		Reachable: reachable,
		Accepting: accepting,
		Edges:     int(start.Modulus()) * 10,
	}, nil
}

type factReader interface {
	GetFacts(query ast.Atom, fn func(ast.Atom) error) error
}

// carries reads every unary fact of predicate and returns its numeric
// arguments in ascending order.
func carries(store factReader, predicate string) ([]uint64, error) {
	sym := ast.PredicateSym{Symbol: predicate, Arity: 1}
	var out []uint64
	err := store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		c, ok := atom.Args[0].(ast.Constant)
		if !ok || c.Type != ast.NumberType {
			return fmt.Errorf("%s: unexpected argument %v", predicate, atom.Args[0])
		}
		out = append(out, uint64(c.NumValue))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s facts: %w", predicate, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
