package signature

import (
	"fmt"

	"github.com/nereid-bio/nereid/internal/types"
)

// SolveOutput resolves the signature's free type variables against the
// actual call arguments, yielding the concrete per-call output specs.
//
// Fast path: when no spec anywhere contains a free variable, the outputs are
// exactly the declared outputs and no inference runs. Otherwise every
// argument's concrete type is inferred and the variables are unified against
// the declared input and parameter expressions; the substitution is applied
// to each output. A residual non-concrete output is a call-time failure.
func (s *Signature) SolveOutput(args map[string]any) (*SpecMap, error) {
	if !s.hasVariables() {
		if err := s.assertConcreteOutputs(s.outputs); err != nil {
			return nil, err
		}
		return s.outputs, nil
	}

	observed := make(map[string]types.Type, len(args))
	for name, value := range args {
		t, err := s.inferType(name, value)
		if err != nil {
			return nil, err
		}
		observed[name] = t
	}

	declared := make(map[string]types.Type, s.inputs.Len()+s.parameters.Len())
	s.inputs.Each(func(name string, spec ParameterSpec) error {
		declared[name] = spec.Type()
		return nil
	})
	s.parameters.Each(func(name string, spec ParameterSpec) error {
		declared[name] = spec.Type()
		return nil
	})

	outputExprs := make(map[string]types.Type, s.outputs.Len())
	s.outputs.Each(func(name string, spec ParameterSpec) error {
		outputExprs[name] = spec.Type()
		return nil
	})

	solvedTypes, err := types.Match(observed, declared, outputExprs)
	if err != nil {
		return nil, &CallError{
			Code:    ErrCodeUnsolvedOutput,
			Message: err.Error(),
		}
	}

	solved := NewSpecMap()
	s.outputs.Each(func(name string, spec ParameterSpec) error {
		solved.Add(name, spec.Duplicate(OverrideType(solvedTypes[name])))
		return nil
	})

	if err := s.assertConcreteOutputs(solved); err != nil {
		return nil, err
	}
	return solved, nil
}

func (s *Signature) hasVariables() bool {
	found := false
	scan := func(name string, spec ParameterSpec) error {
		if types.HasVariables(spec.Type()) {
			found = true
		}
		return nil
	}
	s.inputs.Each(scan)
	s.parameters.Each(scan)
	s.outputs.Each(scan)
	return found
}

func (s *Signature) assertConcreteOutputs(outputs *SpecMap) error {
	return outputs.Each(func(name string, spec ParameterSpec) error {
		t := spec.Type()
		if types.IsVisualization(t) || types.Concrete(t) {
			return nil
		}
		return &CallError{
			Code:    ErrCodeUnsolvedOutput,
			Name:    name,
			Message: fmt.Sprintf("solved output must be a concrete type, not %v", t),
		}
	})
}

// inferType derives the concrete symbolic type of an actual argument value.
// Dispatch is over the closed set of runtime shapes: nil falls back to the
// declared type (inputs and parameters only), containers infer element-wise
// as a normalized union, typed values report their carried type, and scalars
// classify as primitives.
func (s *Signature) inferType(name string, value any) (types.Type, error) {
	if value == nil {
		if spec, ok := s.inputs.Get(name); ok {
			return spec.Type(), nil
		}
		if spec, ok := s.parameters.Get(name); ok {
			return spec.Type(), nil
		}
		return nil, fmt.Errorf("argument %q is not consistent with the signature", name)
	}

	switch v := value.(type) {
	case []any:
		inner, err := s.inferElems(name, v)
		if err != nil {
			return nil, err
		}
		return types.List(inner), nil
	case map[any]struct{}:
		elems := make([]any, 0, len(v))
		for e := range v {
			elems = append(elems, e)
		}
		inner, err := s.inferElems(name, elems)
		if err != nil {
			return nil, err
		}
		return types.Set(inner), nil
	case map[string]any:
		elems := make([]any, 0, len(v))
		for _, e := range v {
			elems = append(elems, e)
		}
		inner, err := s.inferElems(name, elems)
		if err != nil {
			return nil, err
		}
		return types.Coll(inner), nil
	case types.Keyed:
		inner, err := s.inferElems(name, v.Values())
		if err != nil {
			return nil, err
		}
		return types.Coll(inner), nil
	case types.Typed:
		// Artifacts and deferred proxies carry their declared type;
		// metadata reports the Metadata primitive.
		return v.TypeOf(), nil
	default:
		return types.InferPrimitive(value)
	}
}

func (s *Signature) inferElems(name string, elems []any) (types.Type, error) {
	members := make([]types.Type, 0, len(elems))
	for _, e := range elems {
		t, err := s.inferType(name, e)
		if err != nil {
			return nil, err
		}
		members = append(members, t)
	}
	return types.Normalize(members), nil
}
