package automaton

import "fmt"

// MaxTableModulus bounds the size of a materialized transition table.
const MaxTableModulus = 4096

// Table is the explicit transition function of the family for one modulus.
// Row c, column x holds (10c + x) mod d. The target residue does not affect
// transitions, only acceptance, so one table serves every r.
type Table struct {
	d    uint64
	rows [][10]uint64
}

// NewTable materializes the transition table for modulus d.
func NewTable(d int64) (*Table, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidModulus, d)
	}
	if d > MaxTableModulus {
		return nil, fmt.Errorf("%w: %d > %d", ErrTableTooLarge, d, MaxTableModulus)
	}
	m := uint64(d)
	rows := make([][10]uint64, m)
	for c := uint64(0); c < m; c++ {
		for x := uint64(0); x < 10; x++ {
			rows[c][x] = next(c, x, m)
		}
	}
	return &Table{d: m, rows: rows}, nil
}

// Modulus returns d.
func (t *Table) Modulus() uint64 { return t.d }

// Next returns the carry reached from c on digit x. It panics if c or x is out
// of range, like an index into the table would.
func (t *Table) Next(c uint64, x int) uint64 {
	return t.rows[c][x]
}

// Row returns a copy of the transitions out of carry c.
func (t *Table) Row(c uint64) [10]uint64 {
	return t.rows[c]
}
