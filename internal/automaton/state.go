// Package automaton implements the residue-class automata R(d, r, c).
//
// R(d, r, c) is the language of decimal digit strings s with
// val(s) + 10^|s|*c ≡ r (mod d). Reading a digit x moves R(d, r, c) to
// R(d, r, (10c + x) mod d), so a full string s is accepted from the initial
// state R(d, r, 0) exactly when val(s) ≡ r (mod d).
//
// States are immutable values. Every operation returns a new State and none
// of them need synchronization.
package automaton

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

// State is one member (d, r, c) of the automaton family. The zero value is
// not a valid state; use Initial or New.
type State struct {
	d uint64 // modulus, always >= 1
	r uint64 // target residue, in [0, d)
	c uint64 // carry coefficient, in [0, d)
}

// Initial returns the start state (d, r mod d, 0).
func Initial(d, r int64) (State, error) {
	return New(d, r, 0)
}

// New returns the state (d, r mod d, c mod d). Negative residues and carries
// are reduced into [0, d).
func New(d, r, c int64) (State, error) {
	if d <= 0 {
		return State{}, fmt.Errorf("%w: got %d", ErrInvalidModulus, d)
	}
	m := uint64(d)
	return State{d: m, r: reduce(r, m), c: reduce(c, m)}, nil
}

// Modulus returns d.
func (s State) Modulus() uint64 { return s.d }

// Residue returns the target residue r.
func (s State) Residue() uint64 { return s.r }

// Carry returns the accumulated carry coefficient c.
func (s State) Carry() uint64 { return s.c }

// Valid reports whether s was produced by Initial or New.
func (s State) Valid() bool { return s.d != 0 }

// Step consumes one decimal digit and returns the derivative state
// (d, r, (10c + x) mod d).
func (s State) Step(x int) (State, error) {
	if x < 0 || x > 9 {
		return State{}, &DigitError{Symbol: strconv.Itoa(x), Position: -1}
	}
	if !s.Valid() {
		return State{}, fmt.Errorf("%w: uninitialized state", ErrInvalidModulus)
	}
	s.c = next(s.c, uint64(x), s.d)
	return s, nil
}

// StepRune consumes one digit character '0' through '9'.
func (s State) StepRune(ch rune) (State, error) {
	if ch < '0' || ch > '9' {
		return State{}, &DigitError{Symbol: string(ch), Position: -1}
	}
	return s.Step(int(ch - '0'))
}

// Run folds Step over every character of digits. A rejected symbol is
// reported as a *DigitError carrying its byte position.
func (s State) Run(digits string) (State, error) {
	cur := s
	for i, ch := range digits {
		nxt, err := cur.StepRune(ch)
		if err != nil {
			var de *DigitError
			if errors.As(err, &de) {
				de.Position = i
			}
			return State{}, err
		}
		cur = nxt
	}
	return cur, nil
}

// Accepting reports whether the empty remaining suffix is accepted, i.e.
// whether c ≡ r (mod d).
func (s State) Accepting() bool {
	return s.Valid() && s.c == s.r
}

// AcceptsSuffix reports whether val(suffix) + 10^|suffix|*c ≡ r (mod d).
func (s State) AcceptsSuffix(suffix string) (bool, error) {
	end, err := s.Run(suffix)
	if err != nil {
		return false, err
	}
	return end.Accepting(), nil
}

func (s State) String() string {
	return fmt.Sprintf("R(%d, %d, %d)", s.d, s.r, s.c)
}

// Matches reports whether the decimal value of digits is congruent to r
// modulo d. The empty string has value 0.
func Matches(d, r int64, digits string) (bool, error) {
	start, err := Initial(d, r)
	if err != nil {
		return false, err
	}
	return start.AcceptsSuffix(digits)
}

// MatchDigits is Matches over a sequence of integer digits.
func MatchDigits(d, r int64, digits []int) (bool, error) {
	cur, err := Initial(d, r)
	if err != nil {
		return false, err
	}
	for i, x := range digits {
		cur, err = cur.Step(x)
		if err != nil {
			var de *DigitError
			if errors.As(err, &de) {
				de.Position = i
			}
			return false, err
		}
	}
	return cur.Accepting(), nil
}

// next computes (10c + x) mod d without overflowing 64 bits.
func next(c, x, d uint64) uint64 {
	hi, lo := bits.Mul64(c, 10)
	lo, carry := bits.Add64(lo, x, 0)
	hi += carry
	return bits.Rem64(hi, lo, d)
}

func reduce(v int64, d uint64) uint64 {
	if v >= 0 {
		return uint64(v) % d
	}
	// -v may overflow for MinInt64; work on the magnitude as uint64.
	rem := (uint64(^v) + 1) % d
	if rem == 0 {
		return 0
	}
	return d - rem
}
