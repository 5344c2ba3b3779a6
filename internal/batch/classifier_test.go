package batch

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"residue/internal/automaton"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewClassifier_InvalidModulus(t *testing.T) {
	_, err := NewClassifier(0, 0)
	assert.ErrorIs(t, err, automaton.ErrInvalidModulus)
}

func TestClassify_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	inputs := make([]string, 500)
	for i := range inputs {
		inputs[i] = strconv.FormatInt(rng.Int63n(1_000_000), 10)
	}

	c, err := NewClassifier(13, 5, WithWorkers(8))
	require.NoError(t, err)

	verdicts, err := c.Classify(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, verdicts, len(inputs))

	var want, got []bool
	for i, in := range inputs {
		ok, err := automaton.Matches(13, 5, in)
		require.NoError(t, err)
		want = append(want, ok)
		got = append(got, verdicts[i].Match)

		assert.Equal(t, i+1, verdicts[i].Line)
		assert.Equal(t, in, verdicts[i].Input)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("verdicts differ from sequential Matches (-want +got):\n%s", diff)
	}
}

func TestClassify_InvalidInputsRecorded(t *testing.T) {
	c, err := NewClassifier(3, 0)
	require.NoError(t, err)

	verdicts, err := c.Classify(context.Background(), []string{"12", " 7 ", "1a", ""})
	require.NoError(t, err)

	assert.True(t, verdicts[0].Match)
	assert.Equal(t, "7", verdicts[1].Input)
	assert.False(t, verdicts[1].Match)
	assert.Equal(t, uint64(1), verdicts[1].Carry)
	assert.ErrorIs(t, verdicts[2].Err, automaton.ErrInvalidDigit)
	assert.True(t, verdicts[3].Match, "empty numeral has value 0")

	assert.Equal(t, Summary{Total: 4, Matched: 2, Rejected: 1, Invalid: 1}, Summarize(verdicts))
}

func TestClassifyReader(t *testing.T) {
	input := strings.Join([]string{
		"# numerals divisible by seven",
		"14",
		"",
		"15",
		"  700  ",
	}, "\n")

	c, err := NewClassifier(7, 0)
	require.NoError(t, err)

	verdicts, err := c.ClassifyReader(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	type lineMatch struct {
		Line  int
		Match bool
	}
	var got []lineMatch
	for _, v := range verdicts {
		got = append(got, lineMatch{v.Line, v.Match})
	}
	want := []lineMatch{{2, true}, {4, false}, {5, true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected verdicts (-want +got):\n%s", diff)
	}
}

func TestClassify_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := NewClassifier(5, 0, WithWorkers(2))
	require.NoError(t, err)

	inputs := make([]string, 100)
	for i := range inputs {
		inputs[i] = fmt.Sprint(i)
	}
	_, err = c.Classify(ctx, inputs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify_LogsRun(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := NewClassifier(2, 1, WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), []string{"1", "2", "x"})
	require.NoError(t, err)

	done := logs.FilterMessage("Batch complete").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, int64(3), fields["total"])
	assert.Equal(t, int64(1), fields["matched"])
	assert.Equal(t, int64(1), fields["invalid"])
	assert.NotEmpty(t, fields["run_id"])
}

func TestWithWorkers_IgnoresNonPositive(t *testing.T) {
	c, err := NewClassifier(2, 0, WithWorkers(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, c.workers)
}
