package types

// IsSemantic reports whether every concrete alternative of t is a semantic
// type. Variables count as semantic when all their alternatives do.
func IsSemantic(t Type) bool {
	switch v := t.(type) {
	case *Semantic:
		return true
	case *Collection:
		return IsSemantic(v.elem)
	case Union:
		return allTypes(v, IsSemantic)
	case *Var:
		return len(v.alternatives) > 0 && allTypes(v.alternatives, IsSemantic)
	default:
		return false
	}
}

// IsPrimitive reports whether every concrete alternative of t is a primitive
// type.
func IsPrimitive(t Type) bool {
	switch v := t.(type) {
	case *Primitive:
		return true
	case *Collection:
		return IsPrimitive(v.elem)
	case Union:
		return allTypes(v, IsPrimitive)
	case *Var:
		return len(v.alternatives) > 0 && allTypes(v.alternatives, IsPrimitive)
	default:
		return false
	}
}

// IsCollection reports whether t is a parametrized collection type, or a
// union/variable whose representative alternative is one. Unwrapped unions
// resolve to their first member: List[A] | Collection[A] is not allowed at
// registration, so all members share one collection kind.
func IsCollection(t Type) bool {
	_, ok := CollectionOf(t)
	return ok
}

// CollectionOf resolves t to its collection expression, unwrapping unions and
// constrained variables to their representative member. Returns false when t
// is not collection-shaped.
func CollectionOf(t Type) (*Collection, bool) {
	switch v := t.(type) {
	case *Collection:
		return v, true
	case Union:
		if len(v) > 0 {
			return CollectionOf(v[0])
		}
	case *Var:
		if len(v.alternatives) > 0 {
			return CollectionOf(v.alternatives[0])
		}
	}
	return nil, false
}

// IsVisualization reports whether t is the visualization marker.
func IsVisualization(t Type) bool {
	_, ok := t.(*Viz)
	return ok
}

// IsComplete reports whether t is a complete type expression: not a bare
// variable, and not a variable without alternatives nested as a container
// element. Constrained variables behave as unions and are complete.
func IsComplete(t Type) bool {
	switch v := t.(type) {
	case *Var:
		return len(v.alternatives) > 0
	case *Collection:
		return IsComplete(v.elem)
	case Union:
		return len(v) > 0 && allTypes(v, IsComplete)
	case nil:
		return false
	default:
		return true
	}
}

// Concrete reports whether t contains no residual variable or union: the
// expression denotes exactly one type.
func Concrete(t Type) bool {
	switch v := t.(type) {
	case *Semantic:
		return allTypes(v.fields, Concrete)
	case *Primitive, *Viz:
		return true
	case *Collection:
		return Concrete(v.elem)
	default:
		return false
	}
}

// Equal reports structural equality of two type expressions. Variables are
// equal only when they are the same variable.
func Equal(a, b Type) bool {
	switch av := a.(type) {
	case *Semantic:
		bv, ok := b.(*Semantic)
		if !ok || av.name != bv.name || len(av.fields) != len(bv.fields) {
			return false
		}
		for i := range av.fields {
			if !Equal(av.fields[i], bv.fields[i]) {
				return false
			}
		}
		return true
	case *Primitive:
		bv, ok := b.(*Primitive)
		return ok && av.kind == bv.kind
	case *Collection:
		bv, ok := b.(*Collection)
		return ok && av.kind == bv.kind && Equal(av.elem, bv.elem)
	case Union:
		bv, ok := b.(Union)
		if !ok || len(av) != len(bv) {
			return false
		}
		// Normalized unions are order-stable, but compare as sets to be safe.
		for _, am := range av {
			found := false
			for _, bm := range bv {
				if Equal(am, bm) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case *Var:
		return a == b
	case *Viz:
		_, ok := b.(*Viz)
		return ok
	default:
		return false
	}
}

// Normalize flattens nested unions, deduplicates members, and collapses a
// singleton union to its member.
func Normalize(members []Type) Type {
	var flat []Type
	var walk func(t Type)
	walk = func(t Type) {
		if u, ok := t.(Union); ok {
			for _, m := range u {
				walk(m)
			}
			return
		}
		for _, seen := range flat {
			if Equal(seen, t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, m := range members {
		walk(m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Union(flat)
}

// IsSubtype reports whether a is a member of the set of types denoted by b.
// Collections are covariant in their element type; unions and constrained
// variables accept any of their alternatives.
func IsSubtype(a, b Type) bool {
	// Union/variable on the left: every member must fit.
	switch av := a.(type) {
	case Union:
		return allTypes(av, func(m Type) bool { return IsSubtype(m, b) })
	case *Var:
		if len(av.alternatives) > 0 {
			return allTypes(av.alternatives, func(m Type) bool { return IsSubtype(m, b) })
		}
	}

	switch bv := b.(type) {
	case Union:
		for _, m := range bv {
			if IsSubtype(a, m) {
				return true
			}
		}
		return false
	case *Var:
		if len(bv.alternatives) == 0 {
			return false
		}
		for _, m := range bv.alternatives {
			if IsSubtype(a, m) {
				return true
			}
		}
		return false
	case *Collection:
		av, ok := a.(*Collection)
		return ok && av.kind == bv.kind && IsSubtype(av.elem, bv.elem)
	default:
		return Equal(a, b)
	}
}

func allTypes(ts []Type, pred func(Type) bool) bool {
	for _, t := range ts {
		if !pred(t) {
			return false
		}
	}
	return true
}
