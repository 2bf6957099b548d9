package artifact

import (
	"fmt"
	"strconv"
)

// ResultCollection is the insertion-ordered keyed container used to hold
// heterogeneous sets of input and output artifacts. It is one of the two
// interchangeable container shapes for collection-typed values; the other is
// a plain ordered sequence.
type ResultCollection struct {
	keys   []string
	values map[string]any
}

// NewResultCollection returns an empty collection.
func NewResultCollection() *ResultCollection {
	return &ResultCollection{values: map[string]any{}}
}

// FromSequence builds a collection from an ordered sequence, assigning the
// string indices "0", "1", ... as keys.
func FromSequence(seq []any) *ResultCollection {
	rc := NewResultCollection()
	for i, v := range seq {
		rc.Set(strconv.Itoa(i), v)
	}
	return rc
}

// FromPairs builds a collection from ordered key/value pairs.
func FromPairs(pairs ...Pair) *ResultCollection {
	rc := NewResultCollection()
	for _, p := range pairs {
		rc.Set(p.Key, p.Value)
	}
	return rc
}

// Pair is one keyed member, for ordered construction.
type Pair struct {
	Key   string
	Value any
}

// Set inserts or replaces the member for key, preserving first-insertion
// order.
func (rc *ResultCollection) Set(key string, value any) {
	if _, ok := rc.values[key]; !ok {
		rc.keys = append(rc.keys, key)
	}
	rc.values[key] = value
}

// Get returns the member for key.
func (rc *ResultCollection) Get(key string) (any, bool) {
	v, ok := rc.values[key]
	return v, ok
}

// Len returns the number of members.
func (rc *ResultCollection) Len() int { return len(rc.keys) }

// Keys returns the member keys in insertion order. Implements types.Keyed.
func (rc *ResultCollection) Keys() []string {
	out := make([]string, len(rc.keys))
	copy(out, rc.keys)
	return out
}

// Values returns the member values in key order. Implements types.Keyed.
func (rc *ResultCollection) Values() []any {
	out := make([]any, 0, len(rc.keys))
	for _, k := range rc.keys {
		out = append(out, rc.values[k])
	}
	return out
}

func (rc *ResultCollection) String() string {
	return fmt.Sprintf("<result collection of %d>", rc.Len())
}

// CollectionName synthesizes the stable unique member name for one element of
// a collection output, from the output's name, the member key, its positional
// index, and the total member count.
func CollectionName(output, key string, idx, total int) string {
	return fmt.Sprintf("%s-%s-%d-%d", output, key, idx, total)
}
