// Package invocation canonicalizes one concrete call of an action into a
// stable fingerprint, used to detect equivalent prior executions for
// resumable pipelines.
//
// Two invocations that are semantically the same call fingerprint
// identically, including when one was replayed from persisted provenance
// that re-encoded a keyed mapping argument as a list of single-key records.
package invocation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/nereid-bio/nereid/internal/artifact"
	"github.com/nereid-bio/nereid/internal/types"
)

// Domain prefix for fingerprint computation. The version suffix enables
// future algorithm migration.
const fingerprintDomain = "nereid/invocation/v1"

// Invocation is the canonical, hashable representation of one concrete call:
// an action identity plus its ordered argument records.
type Invocation struct {
	action      string
	args        []any
	fingerprint string
}

// New canonicalizes a call. arguments is the ordered list of single-key
// records naming each argument. An argument value encoded as a list of
// single-key mappings (the alternate provenance-replay encoding of a keyed
// collection) is merged back into one mapping before reduction.
func New(action string, arguments []map[string]any) (*Invocation, error) {
	canonical := make([]any, 0, len(arguments))
	for i, record := range arguments {
		if len(record) != 1 {
			return nil, fmt.Errorf("argument record %d must have exactly one key, got %d", i, len(record))
		}
		for name, value := range record {
			reduced, err := reduce(unifyRecords(value))
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", name, err)
			}
			canonical = append(canonical, []any{name, reduced})
		}
	}

	payload, err := marshalCanonical(map[string]any{
		"action": action,
		"args":   canonical,
	})
	if err != nil {
		return nil, fmt.Errorf("fingerprint %q: %w", action, err)
	}

	h := sha256.New()
	h.Write([]byte(fingerprintDomain))
	h.Write([]byte{0x00}) // null separator prevents domain/data ambiguity
	h.Write(payload)

	return &Invocation{
		action:      action,
		args:        canonical,
		fingerprint: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// MustNew is like New but panics on error. Use only in tests or when the
// arguments are known to be reducible.
func MustNew(action string, arguments []map[string]any) *Invocation {
	inv, err := New(action, arguments)
	if err != nil {
		panic(err)
	}
	return inv
}

// Action returns the action identity.
func (i *Invocation) Action() string { return i.action }

// Args returns the canonicalized argument sequence.
func (i *Invocation) Args() []any { return i.args }

// Fingerprint returns the hex digest identifying this call. Equal
// invocations share a fingerprint; hashing is consistent with equality.
func (i *Invocation) Fingerprint() string { return i.fingerprint }

// Equal reports whether two invocations are the same call.
func (i *Invocation) Equal(other *Invocation) bool {
	return i.action == other.action && i.fingerprint == other.fingerprint
}

func (i *Invocation) String() string {
	return fmt.Sprintf("invocation %s %s", i.action, i.fingerprint[:12])
}

// unifyRecords merges an argument value shaped as a list of single-key
// mappings into one mapping, normalizing the alternate persisted encoding of
// a keyed collection back to the canonical shape.
func unifyRecords(value any) any {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return value
	}
	for _, elem := range list {
		if _, ok := elem.(map[string]any); !ok {
			return value
		}
	}
	merged := make(map[string]any)
	for _, elem := range list {
		for k, v := range elem.(map[string]any) {
			merged[k] = v
		}
	}
	return merged
}

// reduce recursively canonicalizes an argument value:
//   - keyed collections (including the result collection) become ordered
//     sequences of (key, value) pairs
//   - sequences reduce element-wise
//   - an artifact reduces to its persistent identity token, not its content
//   - metadata reduces to its content checksum; a pre-computed metadata
//     record contributes its carried checksum
//   - anything else passes through and must be canonically serializable
func reduce(value any) (any, error) {
	switch v := value.(type) {
	case *artifact.Artifact:
		return v.UUID().String(), nil
	case *artifact.Visualization:
		return v.UUID().String(), nil
	case *artifact.Metadata:
		return v.Checksum(), nil
	case *artifact.MetadataInfo:
		return v.ChecksumHash, nil
	case types.Keyed:
		keys := v.Keys()
		values := v.Values()
		out := make([]any, len(keys))
		for i, k := range keys {
			r, err := reduce(values[i])
			if err != nil {
				return nil, err
			}
			out[i] = []any{k, r}
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysRFC8785)
		out := make([]any, len(keys))
		for i, k := range keys {
			r, err := reduce(v[k])
			if err != nil {
				return nil, err
			}
			out[i] = []any{k, r}
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			r, err := reduce(elem)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return value, nil
	}
}
