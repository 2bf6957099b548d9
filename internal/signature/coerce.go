package signature

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/nereid-bio/nereid/internal/artifact"
	"github.com/nereid-bio/nereid/internal/types"
)

// CoerceUserInput normalizes raw user arguments into the container shapes
// the callable expects. A collection-typed value may arrive as an ordered
// sequence or as a keyed mapping (notably after provenance replay); this is
// where that ambiguity is resolved, at the boundary, before anything else
// looks at the value.
//
// Optional arguments absent from userInput are left absent; whether all
// mandatory arguments were passed is validated elsewhere.
func (s *Signature) CoerceUserInput(userInput map[string]any) map[string]any {
	callableArgs := make(map[string]any, len(userInput))

	for _, name := range s.order {
		arg, ok := userInput[name]
		if !ok {
			continue
		}
		spec, isInput := s.orderedSpec(name)
		if isInput {
			callableArgs[name] = coerceGivenInput(arg, spec)
		} else {
			callableArgs[name] = coerceGivenParameter(arg, spec)
		}
	}

	return callableArgs
}

// coerceGivenInput converts between the two container shapes based on the
// declared collection kind, then wraps any remaining plain mapping in the
// keyed result container.
func coerceGivenInput(arg any, spec ParameterSpec) any {
	if coll, ok := types.CollectionOf(spec.Type()); ok {
		switch coll.Kind() {
		case types.KindCollection:
			if seq, ok := arg.([]any); ok {
				arg = sequenceToMapping(seq)
			}
		case types.KindList:
			switch v := arg.(type) {
			case map[string]any:
				arg = mappingToSequence(v)
			case *artifact.ResultCollection:
				arg = v.Values()
			}
		}
	}

	if m, ok := arg.(map[string]any); ok {
		arg = resultCollectionFromMapping(m)
	}

	return arg
}

// coerceGivenParameter mirrors the input coercion, keyed on the primitive
// physical view type rather than the symbolic type.
func coerceGivenParameter(arg any, spec ParameterSpec) any {
	viewType := spec.ViewType()
	if viewType == nil {
		return arg
	}

	switch viewType.Kind() {
	case reflect.Map:
		if seq, ok := arg.([]any); ok {
			return sequenceToMapping(seq)
		}
	case reflect.Slice:
		if m, ok := arg.(map[string]any); ok {
			return mappingToSequence(m)
		}
	}
	return arg
}

// sequenceToMapping assigns the string indices "0", "1", ... as keys.
func sequenceToMapping(seq []any) map[string]any {
	out := make(map[string]any, len(seq))
	for i, v := range seq {
		out[strconv.Itoa(i)] = v
	}
	return out
}

// mappingToSequence takes values in key order.
func mappingToSequence(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortIndexKeys(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func resultCollectionFromMapping(m map[string]any) *artifact.ResultCollection {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortIndexKeys(keys)
	rc := artifact.NewResultCollection()
	for _, k := range keys {
		rc.Set(k, m[k])
	}
	return rc
}

// sortIndexKeys orders keys numerically when every key is a decimal index
// (the shape produced by sequenceToMapping), lexically otherwise. This makes
// the sequence round-trip restore the original order for any length.
func sortIndexKeys(keys []string) {
	numeric := make(map[string]int, len(keys))
	for _, k := range keys {
		n, err := strconv.Atoi(k)
		if err != nil {
			sort.Strings(keys)
			return
		}
		numeric[k] = n
	}
	sort.Slice(keys, func(i, j int) bool { return numeric[keys[i]] < numeric[keys[j]] })
}
