package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectVariables(t *testing.T) {
	v1 := TypeMatch("T", Sem("A"), Sem("B"))
	v2 := TypeMatch("U", Sem("A"))

	vars := SelectVariables(List(U(v1, Sem("C"), v2)))
	require.Len(t, vars, 2)
	assert.Same(t, v1, vars[0])
	assert.Same(t, v2, vars[1])

	// The same variable in two positions appears once.
	vars = SelectVariables(U(List(v1), Coll(v1)))
	require.Len(t, vars, 1)

	assert.Empty(t, SelectVariables(Sem("A")))
	assert.False(t, HasVariables(List(Sem("A"))))
	assert.True(t, HasVariables(Sem("Kennel", v1)))
}

func TestMatch_SimpleBinding(t *testing.T) {
	a, b := Sem("A"), Sem("B")
	v := TypeMatch("T", a, b)

	solved, err := Match(
		map[string]Type{"in": b},
		map[string]Type{"in": v},
		map[string]Type{"out": v},
	)
	require.NoError(t, err)
	assert.True(t, Equal(b, solved["out"]))
}

func TestMatch_CollectionElement(t *testing.T) {
	a, b := Sem("A"), Sem("B")
	v := TypeMatch("T", a, b)

	solved, err := Match(
		map[string]Type{"in": List(a)},
		map[string]Type{"in": List(v)},
		map[string]Type{"out": Coll(v)},
	)
	require.NoError(t, err)
	assert.True(t, Equal(Coll(a), solved["out"]))
}

func TestMatch_UnionMember(t *testing.T) {
	a, b := Sem("A"), Sem("B")
	v := TypeMatch("T", a, b)

	// The variable lives inside a union member; binding goes through the
	// member the observed type fits.
	solved, err := Match(
		map[string]Type{"in": List(a)},
		map[string]Type{"in": U(List(v), Sem("C"))},
		map[string]Type{"out": v},
	)
	require.NoError(t, err)
	assert.True(t, Equal(a, solved["out"]))
}

func TestMatch_InconsistentBinding(t *testing.T) {
	a, b := Sem("A"), Sem("B")
	v := TypeMatch("T", a, b)

	_, err := Match(
		map[string]Type{"x": a, "y": b},
		map[string]Type{"x": v, "y": v},
		map[string]Type{"out": v},
	)
	require.Error(t, err)

	var matchErr *MatchError
	require.ErrorAs(t, err, &matchErr)
	assert.Equal(t, "T", matchErr.Var)
	assert.Contains(t, matchErr.Message, "in one position and")
}

func TestMatch_OutsideAlternatives(t *testing.T) {
	v := TypeMatch("T", Sem("A"), Sem("B"))

	_, err := Match(
		map[string]Type{"in": Sem("C")},
		map[string]Type{"in": v},
		map[string]Type{"out": v},
	)
	var matchErr *MatchError
	require.ErrorAs(t, err, &matchErr)
	assert.Contains(t, matchErr.Message, "allowed alternatives")
}

func TestMatch_NonConcreteObserved(t *testing.T) {
	v := TypeMatch("T", Sem("A"), Sem("B"))

	_, err := Match(
		map[string]Type{"in": U(Sem("A"), Sem("B"))},
		map[string]Type{"in": v},
		map[string]Type{"out": v},
	)
	var matchErr *MatchError
	require.ErrorAs(t, err, &matchErr)
	assert.Contains(t, matchErr.Message, "not concrete")
}

func TestMatch_MissingObservedIsSkipped(t *testing.T) {
	v := TypeMatch("T", Sem("A"))

	solved, err := Match(
		map[string]Type{},
		map[string]Type{"in": v},
		map[string]Type{"out": Sem("C")},
	)
	require.NoError(t, err)
	assert.True(t, Equal(Sem("C"), solved["out"]))
}

func TestSubstitute(t *testing.T) {
	a := Sem("A")
	v := TypeMatch("T", a, Sem("B"))
	binding := Subst{v: a}

	assert.True(t, Equal(a, Substitute(v, binding)))
	assert.True(t, Equal(List(a), Substitute(List(v), binding)))
	assert.True(t, Equal(Sem("Kennel", a), Substitute(Sem("Kennel", v), binding)))

	// Unbound variables stay in place.
	other := TypeMatch("U", a)
	assert.Same(t, other, Substitute(other, binding))
}
