package signature_test

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nereid-bio/nereid/internal/artifact"
	"github.com/nereid-bio/nereid/internal/signature"
	"github.com/nereid-bio/nereid/internal/testutil"
	"github.com/nereid-bio/nereid/internal/types"
)

// collectionPairSig declares one Collection input and one List input so both
// coercion directions are exercised.
func collectionPairSig(t *testing.T) *signature.Signature {
	t.Helper()
	c := signature.Callable{
		Name: "pair",
		Params: []signature.Formal{
			signature.Arg("keyed", testutil.IntListView),
			signature.Arg("listed", testutil.IntListView),
			signature.Arg("ratios", reflect.TypeOf([]any(nil))),
		},
		Returns:    []reflect.Type{testutil.IntValueView},
		HasReturns: true,
	}
	sig, err := signature.NewMethod(c,
		map[string]types.Type{
			"keyed":  types.Coll(testutil.SingleInt),
			"listed": types.List(testutil.SingleInt),
		},
		map[string]types.Type{
			"ratios": types.List(types.Float),
		},
		[]signature.Output{{Name: "out", Type: testutil.SingleInt}},
		signature.Descriptions{},
	)
	require.NoError(t, err)
	return sig
}

func TestCoerceUserInput_SequenceToCollection(t *testing.T) {
	sig := collectionPairSig(t)
	a := testutil.IntSequence(testutil.SingleInt, 1)
	b := testutil.IntSequence(testutil.SingleInt, 2)

	out := sig.CoerceUserInput(map[string]any{"keyed": []any{a, b}})

	rc, ok := out["keyed"].(*artifact.ResultCollection)
	require.True(t, ok)
	assert.Equal(t, []string{"0", "1"}, rc.Keys())
	got, _ := rc.Get("1")
	assert.Same(t, b, got)
}

func TestCoerceUserInput_MappingToSequence(t *testing.T) {
	sig := collectionPairSig(t)
	members := make([]any, 11)
	mapping := map[string]any{}
	for i := range members {
		members[i] = testutil.IntSequence(testutil.SingleInt, i)
		mapping[strconv.Itoa(i)] = members[i]
	}

	out := sig.CoerceUserInput(map[string]any{"listed": mapping})

	// Index keys sort numerically, so "10" lands after "9".
	seq, ok := out["listed"].([]any)
	require.True(t, ok)
	require.Len(t, seq, 11)
	for i, m := range members {
		assert.Same(t, m, seq[i])
	}
}

func TestCoerceUserInput_ResultCollectionToSequence(t *testing.T) {
	sig := collectionPairSig(t)
	a := testutil.IntSequence(testutil.SingleInt, 1)
	rc := artifact.FromPairs(artifact.Pair{Key: "x", Value: a})

	out := sig.CoerceUserInput(map[string]any{"listed": rc})
	seq, ok := out["listed"].([]any)
	require.True(t, ok)
	require.Len(t, seq, 1)
	assert.Same(t, a, seq[0])
}

func TestCoerceUserInput_MappingInputWrapped(t *testing.T) {
	sig := collectionPairSig(t)
	a := testutil.IntSequence(testutil.SingleInt, 1)

	out := sig.CoerceUserInput(map[string]any{"keyed": map[string]any{"k": a}})
	rc, ok := out["keyed"].(*artifact.ResultCollection)
	require.True(t, ok)
	assert.Equal(t, []string{"k"}, rc.Keys())
}

func TestCoerceUserInput_ParameterShapes(t *testing.T) {
	sig := collectionPairSig(t)

	// A slice-viewed parameter arriving as a mapping is restored to a
	// sequence in index order.
	out := sig.CoerceUserInput(map[string]any{
		"ratios": map[string]any{"1": 0.2, "0": 0.1},
	})
	assert.Equal(t, []any{0.1, 0.2}, out["ratios"])

	// Values already in shape pass through.
	out = sig.CoerceUserInput(map[string]any{"ratios": []any{0.1}})
	assert.Equal(t, []any{0.1}, out["ratios"])
}

func TestCoerceUserInput_AbsentArgumentsStayAbsent(t *testing.T) {
	sig := collectionPairSig(t)
	out := sig.CoerceUserInput(map[string]any{})
	assert.Empty(t, out)
}

func TestCheckTypes(t *testing.T) {
	sig := testutil.ConcatenateIntsSignature()
	seq1 := testutil.IntSequence(testutil.IntSequence1, 1, 2)
	seq2 := testutil.IntSequence(testutil.IntSequence2, 3)

	good := map[string]any{
		"ints1": seq1, "ints2": seq1, "ints3": seq2,
		"int1": 4, "int2": 5,
	}
	require.NoError(t, sig.CheckTypes(good))

	t.Run("artifact mismatch", func(t *testing.T) {
		args := map[string]any{
			"ints1": seq1, "ints2": seq2, "ints3": seq2,
			"int1": 4, "int2": 5,
		}
		err := sig.CheckTypes(args)
		require.Error(t, err)
		assert.True(t, signature.IsCallError(err, signature.ErrCodeArtifactMismatch))
		assert.Contains(t, err.Error(), "requires an argument of type IntSequence1")
	})

	t.Run("visualization input", func(t *testing.T) {
		args := map[string]any{
			"ints1": artifact.NewVisualization(), "ints2": seq1, "ints3": seq2,
			"int1": 4, "int2": 5,
		}
		err := sig.CheckTypes(args)
		assert.True(t, signature.IsCallError(err, signature.ErrCodeVisualizationInput))
	})

	t.Run("metadata mismatch", func(t *testing.T) {
		md := artifact.NewMetadata([]string{"col"}, nil)
		args := map[string]any{
			"ints1": seq1, "ints2": seq1, "ints3": seq2,
			"int1": md, "int2": 5,
		}
		err := sig.CheckTypes(args)
		assert.True(t, signature.IsCallError(err, signature.ErrCodeMetadataMismatch))
	})

	t.Run("primitive mismatch", func(t *testing.T) {
		args := map[string]any{
			"ints1": seq1, "ints2": seq1, "ints3": seq2,
			"int1": "four", "int2": 5,
		}
		err := sig.CheckTypes(args)
		assert.True(t, signature.IsCallError(err, signature.ErrCodePrimitiveMismatch))
	})
}

func TestCheckTypes_NilExemption(t *testing.T) {
	intView := reflect.TypeOf(0)
	c := signature.Callable{
		Name: "m",
		Params: []signature.Formal{
			signature.Arg("required", intView),
			signature.OptArg("optional", intView, nil),
		},
		Returns:    []reflect.Type{testutil.IntValueView},
		HasReturns: true,
	}
	sig, err := signature.NewMethod(c, nil,
		map[string]types.Type{"required": types.Int, "optional": types.Int},
		[]signature.Output{{Name: "out", Type: testutil.SingleInt}},
		signature.Descriptions{},
	)
	require.NoError(t, err)

	// A nil value passes only where the declared default is an explicit nil.
	require.NoError(t, sig.CheckTypes(map[string]any{"required": 1, "optional": nil}))

	err = sig.CheckTypes(map[string]any{"required": nil, "optional": 2})
	assert.True(t, signature.IsCallError(err, signature.ErrCodePrimitiveMismatch))
}
