package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	name     string
	err      error
	released *[]string
}

func (f *fakeResource) Release() error {
	*f.released = append(*f.released, f.name)
	return f.err
}

func TestScope_DestroyReverseOrder(t *testing.T) {
	var released []string
	s := New()
	s.AddReference(&fakeResource{name: "a", released: &released})
	s.AddReference(&fakeResource{name: "b", released: &released})
	s.AddReference(&fakeResource{name: "c", released: &released})

	require.NoError(t, s.Destroy())
	assert.Equal(t, []string{"c", "b", "a"}, released)
}

func TestScope_DestroyReturnsFirstError(t *testing.T) {
	var released []string
	errB := errors.New("b failed")
	errA := errors.New("a failed")

	s := New()
	s.AddReference(&fakeResource{name: "a", err: errA, released: &released})
	s.AddReference(&fakeResource{name: "b", err: errB, released: &released})

	err := s.Destroy()
	// Reverse order means b's error surfaces first; a is still released.
	assert.Same(t, errB, err)
	assert.Equal(t, []string{"b", "a"}, released)
}

func TestScope_ParentReferencesSurvive(t *testing.T) {
	var released []string
	s := New()
	s.AddReference(&fakeResource{name: "local", released: &released})

	kept := &fakeResource{name: "kept", released: &released}
	got := s.AddParentReference(kept)
	assert.Same(t, kept, got)

	require.NoError(t, s.Destroy())
	assert.Equal(t, []string{"local"}, released)
	assert.Equal(t, []any{kept}, s.ParentReferences())
}

func TestScope_DestroySkipsNonReleasers(t *testing.T) {
	s := New()
	s.AddReference("just a value")
	assert.NoError(t, s.Destroy())
}

func TestScope_DestroyIsIdempotent(t *testing.T) {
	var released []string
	s := New()
	s.AddReference(&fakeResource{name: "a", released: &released})

	require.NoError(t, s.Destroy())
	require.NoError(t, s.Destroy())
	assert.Equal(t, []string{"a"}, released)
}
