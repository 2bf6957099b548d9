package types

// Contains reports whether the runtime value v is a member of the type t.
//
// Dispatch is over the closed set of representable runtime shapes: typed
// values (artifacts, proxies, metadata, visualizations), sequences, sets,
// mappings, keyed result collections, and scalars.
func Contains(t Type, v any) bool {
	switch tv := t.(type) {
	case Union:
		for _, m := range tv {
			if Contains(m, v) {
				return true
			}
		}
		return false

	case *Var:
		for _, m := range tv.alternatives {
			if Contains(m, v) {
				return true
			}
		}
		return false

	case *Collection:
		return containsCollection(tv, v)

	case *Semantic:
		typed, ok := v.(Typed)
		return ok && IsSubtype(typed.TypeOf(), tv)

	case *Viz:
		typed, ok := v.(Typed)
		return ok && IsVisualization(typed.TypeOf())

	case *Primitive:
		return containsPrimitive(tv, v)

	default:
		return false
	}
}

func containsCollection(t *Collection, v any) bool {
	switch val := v.(type) {
	case []any:
		if t.kind == KindCollection {
			return false
		}
		for _, e := range val {
			if !Contains(t.elem, e) {
				return false
			}
		}
		return true
	case map[any]struct{}:
		if t.kind != KindSet {
			return false
		}
		for e := range val {
			if !Contains(t.elem, e) {
				return false
			}
		}
		return true
	case map[string]any:
		if t.kind != KindCollection {
			return false
		}
		for _, e := range val {
			if !Contains(t.elem, e) {
				return false
			}
		}
		return true
	case Keyed:
		if t.kind != KindCollection {
			return false
		}
		for _, e := range val.Values() {
			if !Contains(t.elem, e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func containsPrimitive(t *Primitive, v any) bool {
	if typed, ok := v.(Typed); ok {
		// Metadata objects carry the Metadata primitive; artifacts and
		// visualizations never satisfy a primitive type.
		return IsSubtype(typed.TypeOf(), t)
	}

	switch t.kind {
	case KindInt:
		switch v.(type) {
		case int, int64:
			return true
		}
		return false
	case KindFloat:
		switch v.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case KindStr:
		_, ok := v.(string)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	default:
		return false
	}
}
