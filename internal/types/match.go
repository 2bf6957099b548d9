package types

import "fmt"

// SelectVariables returns the free type variables of t in a stable
// left-to-right order. Each variable appears once per distinct identity.
func SelectVariables(t Type) []*Var {
	var found []*Var
	var walk func(t Type)
	walk = func(t Type) {
		switch v := t.(type) {
		case *Var:
			for _, f := range found {
				if f == v {
					return
				}
			}
			found = append(found, v)
		case *Collection:
			walk(v.elem)
		case Union:
			for _, m := range v {
				walk(m)
			}
		case *Semantic:
			for _, f := range v.fields {
				walk(f)
			}
		}
	}
	walk(t)
	return found
}

// HasVariables reports whether t contains any free type variable.
func HasVariables(t Type) bool {
	return len(SelectVariables(t)) > 0
}

// Subst maps variables to the concrete types they were bound to during a
// call.
type Subst map[*Var]Type

// MatchError reports a failed unification: a variable required two
// incompatible concrete bindings, a binding outside the variable's
// alternatives, or an expression shape mismatch.
type MatchError struct {
	Var     string
	Message string
}

func (e *MatchError) Error() string {
	if e.Var != "" {
		return fmt.Sprintf("cannot solve type variable %q: %s", e.Var, e.Message)
	}
	return fmt.Sprintf("cannot solve type variables: %s", e.Message)
}

// Match resolves the free variables of the declared input and parameter
// expressions against the concrete types observed at call time, and applies
// the resulting substitution to each output expression.
//
// observed and declared are keyed by argument name; outputs by output name.
// Every binding must be concrete, consistent across all occurrences of the
// same variable, and within the variable's alternatives. Inconsistent
// requirements fail with a MatchError rather than picking a resolution order.
func Match(observed, declared, outputs map[string]Type) (map[string]Type, error) {
	binding := Subst{}

	for name, expr := range declared {
		actual, ok := observed[name]
		if !ok {
			continue
		}
		if err := unify(expr, actual, binding); err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
	}

	solved := make(map[string]Type, len(outputs))
	for name, expr := range outputs {
		solved[name] = Substitute(expr, binding)
	}
	return solved, nil
}

// unify walks declared and actual together, accumulating variable bindings.
func unify(declared, actual Type, binding Subst) error {
	switch d := declared.(type) {
	case *Var:
		return bindVar(d, actual, binding)

	case *Collection:
		a, ok := actual.(*Collection)
		if !ok || a.kind != d.kind {
			// Nothing to bind against; membership checking reports shape
			// errors with better messages.
			return nil
		}
		return unify(d.elem, a.elem, binding)

	case Union:
		// Recurse into the member the actual type fits; variables inside
		// union members bind against that member's match.
		for _, m := range d {
			if !HasVariables(m) {
				continue
			}
			if matchable(m, actual) {
				return unify(m, actual, binding)
			}
		}
		return nil

	case *Semantic:
		a, ok := actual.(*Semantic)
		if !ok || a.name != d.name || len(a.fields) != len(d.fields) {
			return nil
		}
		for i := range d.fields {
			if err := unify(d.fields[i], a.fields[i], binding); err != nil {
				return err
			}
		}
		return nil

	default:
		return nil
	}
}

func bindVar(v *Var, actual Type, binding Subst) error {
	if !Concrete(actual) {
		return &MatchError{Var: v.name, Message: fmt.Sprintf(
			"observed type %s is not concrete", actual)}
	}
	if len(v.alternatives) > 0 && !IsSubtype(actual, Union(v.alternatives)) {
		return &MatchError{Var: v.name, Message: fmt.Sprintf(
			"%s is not among the allowed alternatives %s",
			actual, Union(v.alternatives))}
	}
	if prev, ok := binding[v]; ok {
		if !Equal(prev, actual) {
			return &MatchError{Var: v.name, Message: fmt.Sprintf(
				"bound to %s in one position and %s in another", prev, actual)}
		}
		return nil
	}
	binding[v] = actual
	return nil
}

// matchable reports whether actual could fit the shape of declared, ignoring
// variable bindings. Used to pick the union member to unify against.
func matchable(declared, actual Type) bool {
	switch d := declared.(type) {
	case *Var:
		return len(d.alternatives) == 0 || IsSubtype(actual, Union(d.alternatives))
	case *Collection:
		a, ok := actual.(*Collection)
		return ok && a.kind == d.kind && matchable(d.elem, a.elem)
	case *Semantic:
		a, ok := actual.(*Semantic)
		return ok && a.name == d.name
	default:
		return IsSubtype(actual, declared)
	}
}

// Substitute replaces every bound variable in t with its binding. Unbound
// variables are left in place; SolveOutput rejects residual variables via the
// concreteness check.
func Substitute(t Type, binding Subst) Type {
	switch v := t.(type) {
	case *Var:
		if b, ok := binding[v]; ok {
			return b
		}
		return v
	case *Collection:
		return &Collection{kind: v.kind, elem: Substitute(v.elem, binding)}
	case Union:
		members := make([]Type, len(v))
		for i, m := range v {
			members[i] = Substitute(m, binding)
		}
		return Normalize(members)
	case *Semantic:
		if len(v.fields) == 0 {
			return v
		}
		fields := make([]Type, len(v.fields))
		for i, f := range v.fields {
			fields[i] = Substitute(f, binding)
		}
		return &Semantic{name: v.name, fields: fields}
	default:
		return t
	}
}
