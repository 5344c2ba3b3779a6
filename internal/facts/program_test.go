package facts

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/mangle/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"residue/internal/automaton"
)

func TestProgram_Shape(t *testing.T) {
	src, err := Program(3, 2)
	require.NoError(t, err)

	assert.Contains(t, src, "initial(0).")
	assert.Contains(t, src, "target(2).")
	assert.Contains(t, src, "edge(2, 9, 2).") // 29 mod 3
	assert.Contains(t, src, "edge(1, 4, 2).") // 14 mod 3
	edges := 0
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(line, "edge(") {
			edges++
		}
	}
	assert.Equal(t, 30, edges)
	assert.Contains(t, src, "edge(C, _, C2)")

	_, err = parse.Unit(strings.NewReader(src))
	assert.NoError(t, err)
}

func TestProgram_Errors(t *testing.T) {
	_, err := Program(0, 0)
	assert.ErrorIs(t, err, automaton.ErrInvalidModulus)

	_, err = Program(automaton.MaxTableModulus+1, 0)
	assert.ErrorIs(t, err, automaton.ErrTableTooLarge)

	_, err = Program(MaxProgramModulus+1, 0)
	assert.ErrorIs(t, err, automaton.ErrTableTooLarge)

	_, err = Evaluate(context.Background(), MaxProgramModulus+1, 0)
	assert.ErrorIs(t, err, automaton.ErrTableTooLarge)

	_, err = Program(MaxProgramModulus, 0)
	assert.NoError(t, err)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		d, r          int64
		wantTarget    uint64
		wantAccepting []uint64
	}{
		{"modulus one", 1, 0, 0, []uint64{0}},
		{"sevens", 7, 2, 2, []uint64{2}},
		{"power of ten", 10, 3, 3, []uint64{3}},
		{"shares factors with ten", 12, 5, 5, []uint64{5}},
		{"residue reduced", 6, 13, 1, []uint64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(context.Background(), tt.d, tt.r)
			require.NoError(t, err)

			var all []uint64
			for c := uint64(0); c < uint64(tt.d); c++ {
				all = append(all, c)
			}
			if diff := cmp.Diff(all, res.Reachable); diff != "" {
				t.Errorf("reachable carries (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantAccepting, res.Accepting); diff != "" {
				t.Errorf("accepting carries (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantTarget, res.Target)
			assert.Equal(t, uint64(tt.d), res.Modulus)
			assert.Equal(t, int(tt.d)*10, res.Edges)
		})
	}
}

func TestEvaluate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evaluate(ctx, 5, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
