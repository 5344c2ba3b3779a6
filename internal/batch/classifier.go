// Package batch classifies many numerals against one residue automaton
// concurrently.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"residue/internal/automaton"
)

// DefaultWorkers is used when no worker count is configured.
const DefaultWorkers = 4

// Verdict is the outcome of classifying one numeral.
type Verdict struct {
	Line  int    // 1-based line (or slice position) of the input
	Input string // numeral as classified, whitespace trimmed
	Match bool   // val(Input) ≡ r (mod d)
	Carry uint64 // carry of the final state; equals val(Input) mod d
	Err   error  // validation failure, Match is false when set
}

// Summary counts verdicts by outcome.
type Summary struct {
	Total    int
	Matched  int
	Rejected int
	Invalid  int
}

// Classifier checks numerals against a fixed (d, r) pair.
type Classifier struct {
	start   automaton.State
	workers int
	logger  *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithWorkers bounds the number of concurrent classifications. Values below
// one are ignored.
func WithWorkers(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger used for run-level events.
func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClassifier creates a Classifier for numerals congruent to r modulo d.
func NewClassifier(d, r int64, opts ...Option) (*Classifier, error) {
	start, err := automaton.Initial(d, r)
	if err != nil {
		return nil, err
	}
	c := &Classifier{
		start:   start,
		workers: DefaultWorkers,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start returns the initial automaton state the classifier folds from.
func (c *Classifier) Start() automaton.State {
	return c.start
}

type entry struct {
	line int
	text string
}

// Classify returns one verdict per input, in input order. Invalid numerals
// produce a verdict with Err set; only context cancellation fails the run.
func (c *Classifier) Classify(ctx context.Context, inputs []string) ([]Verdict, error) {
	entries := make([]entry, len(inputs))
	for i, in := range inputs {
		entries[i] = entry{line: i + 1, text: strings.TrimSpace(in)}
	}
	return c.run(ctx, entries)
}

// ClassifyReader classifies newline-separated numerals read from r. Blank
// lines and lines starting with '#' are skipped; verdicts keep the source
// line numbers.
func (c *Classifier) ClassifyReader(ctx context.Context, r io.Reader) ([]Verdict, error) {
	var entries []entry
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		entries = append(entries, entry{line: line, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read numerals: %w", err)
	}
	return c.run(ctx, entries)
}

func (c *Classifier) run(ctx context.Context, entries []entry) ([]Verdict, error) {
	log := c.logger.With(zap.String("run_id", uuid.NewString()))
	started := time.Now()
	log.Debug("Batch started",
		zap.Stringer("automaton", c.start),
		zap.Int("inputs", len(entries)),
		zap.Int("workers", c.workers))

	verdicts := make([]Verdict, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, e := range entries {
		if gctx.Err() != nil {
			break
		}
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = c.classify(e)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("Batch aborted", zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		log.Warn("Batch aborted", zap.Error(err))
		return nil, err
	}

	s := Summarize(verdicts)
	log.Info("Batch complete",
		zap.Int("total", s.Total),
		zap.Int("matched", s.Matched),
		zap.Int("rejected", s.Rejected),
		zap.Int("invalid", s.Invalid),
		zap.Duration("elapsed", time.Since(started)))
	return verdicts, nil
}

func (c *Classifier) classify(e entry) Verdict {
	v := Verdict{Line: e.line, Input: e.text}
	end, err := c.start.Run(e.text)
	if err != nil {
		v.Err = err
		return v
	}
	v.Carry = end.Carry()
	v.Match = end.Accepting()
	return v
}

// Summarize counts verdicts by outcome.
func Summarize(verdicts []Verdict) Summary {
	s := Summary{Total: len(verdicts)}
	for _, v := range verdicts {
		switch {
		case v.Err != nil:
			s.Invalid++
		case v.Match:
			s.Matched++
		default:
			s.Rejected++
		}
	}
	return s
}
