package automaton

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidModulus is returned when a modulus is zero or negative.
	ErrInvalidModulus = errors.New("modulus must be positive")

	// ErrInvalidDigit is returned when a symbol outside 0-9 is consumed.
	ErrInvalidDigit = errors.New("invalid decimal digit")

	// ErrTableTooLarge is returned when a transition table is requested for a
	// modulus above MaxTableModulus.
	ErrTableTooLarge = errors.New("modulus too large for transition table")
)

// DigitError reports a rejected symbol and where it appeared in the input.
// Position is the offset into the input, or -1 when the symbol was passed on
// its own.
type DigitError struct {
	Symbol   string
	Position int
}

func (e *DigitError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%v: %q", ErrInvalidDigit, e.Symbol)
	}
	return fmt.Sprintf("%v: %q at position %d", ErrInvalidDigit, e.Symbol, e.Position)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidDigit).
func (e *DigitError) Unwrap() error {
	return ErrInvalidDigit
}
