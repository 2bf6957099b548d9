package artifact

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nereid-bio/nereid/internal/types"
)

var (
	intSequence = types.Sem("IntSequence")
	singleInt   = types.Sem("SingleInt")
)

type intSlice []int
type intString string

var (
	intSliceView  = reflect.TypeOf(intSlice(nil))
	intStringView = reflect.TypeOf(intString(""))
)

func TestFromView(t *testing.T) {
	a, err := FromView(intSequence, intSlice{1, 2}, intSliceView, nil)
	require.NoError(t, err)

	assert.True(t, types.Equal(a.TypeOf(), intSequence))
	assert.Equal(t, intSliceView, a.ViewType())
	assert.NotEqual(t, a.UUID().String(), "")

	b, err := FromView(intSequence, intSlice{1, 2}, intSliceView, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.UUID(), b.UUID())
}

func TestFromView_RejectsNonConcreteType(t *testing.T) {
	v := types.NewVar("T", true, true, intSequence, singleInt)

	_, err := FromView(v, intSlice{1}, intSliceView, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-concrete type")

	_, err = FromView(types.U(intSequence, singleInt), intSlice{1}, intSliceView, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-concrete type")
}

func TestArtifact_ViewPassthrough(t *testing.T) {
	a, err := FromView(intSequence, intSlice{1, 2, 3}, intSliceView, nil)
	require.NoError(t, err)

	var logged int
	got, err := a.View(intSliceView, func(from, to string) { logged++ })
	require.NoError(t, err)

	assert.Equal(t, intSlice{1, 2, 3}, got)
	assert.Zero(t, logged, "passthrough must not record a transformation")
}

func TestArtifact_ViewTransforms(t *testing.T) {
	RegisterTransformer(intSliceView, intStringView, func(v any) (any, error) {
		s := ""
		for _, n := range v.(intSlice) {
			if s != "" {
				s += ","
			}
			s += string(rune('0' + n))
		}
		return intString(s), nil
	})

	a, err := FromView(intSequence, intSlice{1, 2, 3}, intSliceView, nil)
	require.NoError(t, err)

	var from, to string
	got, err := a.View(intStringView, func(f, t string) { from, to = f, t })
	require.NoError(t, err)

	assert.Equal(t, intString("1,2,3"), got)
	assert.Equal(t, "artifact.intSlice", from)
	assert.Equal(t, "artifact.intString", to)
}

func TestArtifact_ViewNoTransformer(t *testing.T) {
	a, err := FromView(intSequence, intSlice{1}, intSliceView, nil)
	require.NoError(t, err)

	_, err = a.View(reflect.TypeOf(0), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transformer")
}

func TestProxy(t *testing.T) {
	p := NewProxy(intSequence)
	assert.True(t, types.Equal(p.TypeOf(), intSequence))
}

func TestVisualization(t *testing.T) {
	v := NewVisualization()
	assert.True(t, types.Equal(v.TypeOf(), types.Visualization))
	assert.NotEqual(t, v.UUID(), NewVisualization().UUID())
}
