package signature_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nereid-bio/nereid/internal/artifact"
	"github.com/nereid-bio/nereid/internal/signature"
	"github.com/nereid-bio/nereid/internal/testutil"
	"github.com/nereid-bio/nereid/internal/types"
)

func TestSolveOutput_FastPath(t *testing.T) {
	sig := testutil.ConcatenateIntsSignature()

	// No variables anywhere: the declared outputs come back as-is, without
	// looking at the arguments.
	solved, err := sig.SolveOutput(nil)
	require.NoError(t, err)
	assert.Same(t, sig.Outputs(), solved)
}

func TestSolveOutput_BindsVariable(t *testing.T) {
	sig := testutil.TypeMatchSignature()
	seq2 := testutil.IntSequence(testutil.IntSequence2, 1, 2)

	solved, err := sig.SolveOutput(map[string]any{"ints": seq2})
	require.NoError(t, err)

	spec, ok := solved.Get("out")
	require.True(t, ok)
	assert.True(t, types.Equal(testutil.IntSequence2, spec.Type()))
	// Everything but the type carries over from the declared spec.
	assert.Equal(t, testutil.IntListView, spec.ViewType())
}

func TestSolveOutput_SharedVariableAcrossOutputs(t *testing.T) {
	sig := testutil.SplitIntsSignature()
	seq1 := testutil.IntSequence(testutil.IntSequence1, 1, 2, 3)

	solved, err := sig.SolveOutput(map[string]any{"ints": seq1})
	require.NoError(t, err)

	for _, name := range []string{"left", "right"} {
		spec, ok := solved.Get(name)
		require.True(t, ok)
		assert.True(t, types.Equal(testutil.IntSequence1, spec.Type()))
	}
}

func TestSolveOutput_OutsideAlternatives(t *testing.T) {
	sig := testutil.TypeMatchSignature()
	other := testutil.IntSequence(testutil.Mapping, 0)

	_, err := sig.SolveOutput(map[string]any{"ints": other})
	require.Error(t, err)
	assert.True(t, signature.IsCallError(err, signature.ErrCodeUnsolvedOutput))
	assert.Contains(t, err.Error(), "allowed alternatives")
}

func TestSolveOutput_NilFallsBackToDeclared(t *testing.T) {
	sig := testutil.TypeMatchSignature()

	// A nil argument observes the declared expression, which is not
	// concrete, so the output cannot solve.
	_, err := sig.SolveOutput(map[string]any{"ints": nil})
	require.Error(t, err)
	assert.True(t, signature.IsCallError(err, signature.ErrCodeUnsolvedOutput))
}

func TestSolveOutput_InfersContainers(t *testing.T) {
	v := types.TypeMatch("T",
		types.List(testutil.IntSequence1), types.List(testutil.IntSequence2))
	c := signature.Callable{
		Name: "list_method",
		Params: []signature.Formal{
			signature.Arg("seqs", testutil.IntListView),
		},
		Returns:    []reflect.Type{testutil.IntListView},
		HasReturns: true,
	}
	sig, err := signature.NewMethod(c,
		map[string]types.Type{"seqs": v},
		nil,
		[]signature.Output{{Name: "out", Type: v}},
		signature.Descriptions{},
	)
	require.NoError(t, err)

	members := []any{
		testutil.IntSequence(testutil.IntSequence1, 1),
		testutil.IntSequence(testutil.IntSequence1, 2),
	}
	solved, err := sig.SolveOutput(map[string]any{"seqs": members})
	require.NoError(t, err)
	spec, _ := solved.Get("out")
	assert.True(t, types.Equal(types.List(testutil.IntSequence1), spec.Type()))
}

func TestSolveOutput_KeyedCollectionInference(t *testing.T) {
	v := types.TypeMatch("T",
		types.Coll(testutil.IntSequence1), types.Coll(testutil.IntSequence2))
	c := signature.Callable{
		Name: "coll_method",
		Params: []signature.Formal{
			signature.Arg("seqs", testutil.IntListView),
		},
		Returns:    []reflect.Type{testutil.IntListView},
		HasReturns: true,
	}
	sig, err := signature.NewMethod(c,
		map[string]types.Type{"seqs": v},
		nil,
		[]signature.Output{{Name: "out", Type: v}},
		signature.Descriptions{},
	)
	require.NoError(t, err)

	rc := artifact.FromPairs(
		artifact.Pair{Key: "a", Value: testutil.IntSequence(testutil.IntSequence2, 1)},
	)
	solved, err := sig.SolveOutput(map[string]any{"seqs": rc})
	require.NoError(t, err)
	spec, _ := solved.Get("out")
	assert.True(t, types.Equal(types.Coll(testutil.IntSequence2), spec.Type()))
}
