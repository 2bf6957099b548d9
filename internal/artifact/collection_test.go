package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromSequence(t *testing.T) {
	rc := FromSequence([]any{"a", "b", "c"})

	assert.Equal(t, 3, rc.Len())
	assert.Equal(t, []string{"0", "1", "2"}, rc.Keys())
	assert.Equal(t, []any{"a", "b", "c"}, rc.Values())

	v, ok := rc.Get("1")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestFromPairs_PreservesInsertionOrder(t *testing.T) {
	rc := FromPairs(
		Pair{Key: "zebra", Value: 1},
		Pair{Key: "apple", Value: 2},
	)

	assert.Equal(t, []string{"zebra", "apple"}, rc.Keys())
	assert.Equal(t, []any{1, 2}, rc.Values())
}

func TestResultCollection_SetReplacesInPlace(t *testing.T) {
	rc := NewResultCollection()
	rc.Set("x", 1)
	rc.Set("y", 2)
	rc.Set("x", 3)

	assert.Equal(t, []string{"x", "y"}, rc.Keys())
	assert.Equal(t, []any{3, 2}, rc.Values())
}

func TestResultCollection_GetMissing(t *testing.T) {
	rc := NewResultCollection()
	_, ok := rc.Get("nope")
	assert.False(t, ok)
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "output-large-0-2", CollectionName("output", "large", 0, 2))
	assert.Equal(t, "ints-3-3-7", CollectionName("ints", "3", 3, 7))
}
