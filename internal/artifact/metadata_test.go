package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nereid-bio/nereid/internal/types"
)

func TestMetadata_TypeOf(t *testing.T) {
	m := NewMetadata([]string{"col"}, nil)
	assert.True(t, types.Equal(m.TypeOf(), types.Metadata))
}

func TestMetadata_ChecksumContentAddressed(t *testing.T) {
	m1 := NewMetadata([]string{"a", "b"}, map[string][]string{
		"s1": {"1", "2"},
		"s2": {"3", "4"},
	})
	m2 := NewMetadata([]string{"a", "b"}, map[string][]string{
		"s2": {"3", "4"},
		"s1": {"1", "2"},
	})

	// Identical content hashes identically, regardless of identity or row
	// insertion order.
	assert.Equal(t, m1.Checksum(), m2.Checksum())
	assert.Len(t, m1.Checksum(), 64)
}

func TestMetadata_ChecksumDiffers(t *testing.T) {
	base := NewMetadata([]string{"a"}, map[string][]string{"s1": {"1"}})

	byValue := NewMetadata([]string{"a"}, map[string][]string{"s1": {"2"}})
	byColumn := NewMetadata([]string{"b"}, map[string][]string{"s1": {"1"}})
	byID := NewMetadata([]string{"a"}, map[string][]string{"s2": {"1"}})

	assert.NotEqual(t, base.Checksum(), byValue.Checksum())
	assert.NotEqual(t, base.Checksum(), byColumn.Checksum())
	assert.NotEqual(t, base.Checksum(), byID.Checksum())
}

func TestMetadata_ChecksumNFCStable(t *testing.T) {
	// e + combining acute vs precomposed.
	decomposed := NewMetadata([]string{"café"}, map[string][]string{"s1": {"v"}})
	precomposed := NewMetadata([]string{"café"}, map[string][]string{"s1": {"v"}})

	assert.Equal(t, precomposed.Checksum(), decomposed.Checksum())
}
