package signature

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/nereid-bio/nereid/internal/artifact"
	"github.com/nereid-bio/nereid/internal/provenance"
	"github.com/nereid-bio/nereid/internal/scope"
	"github.com/nereid-bio/nereid/internal/types"
)

// viewer is the artifact capability this package consumes: transform a value
// into a physical view type, recording each step through the given log.
type viewer interface {
	View(target reflect.Type, log provenance.TransformLog) (any, error)
}

// TransformAndRecord transforms inputs to their view types and records every
// callable argument into provenance, in one pass. Transform and record
// happen together so a transformation event is never logged without its
// value materializing, and so the record attaches synchronously rather than
// across a scheduling boundary that could reorder or drop it when the outer
// runner executes actions concurrently.
//
// Returns the transformed argument map; args itself is not modified.
func (s *Signature) TransformAndRecord(prov provenance.Recorder, args map[string]any) (map[string]any, error) {
	transformed := make(map[string]any, len(args))
	for name, value := range args {
		transformed[name] = value
	}

	for _, name := range s.order {
		spec, isInput := s.orderedSpec(name)
		arg := transformed[name]

		if !isInput {
			prov.AddParameter(name, spec.Type(), arg)
			continue
		}

		out, err := s.transformInput(prov, name, spec, arg)
		if err != nil {
			return nil, err
		}
		transformed[name] = out
	}

	return transformed, nil
}

// transformInput records the raw input, then materializes its view. Nil
// passes through, as does any input on a signature without view types (the
// pipeline case). Collections transform element-wise, preserving keys.
func (s *Signature) transformInput(prov provenance.Recorder, name string, spec ParameterSpec, arg any) (any, error) {
	prov.AddInput(name, arg)

	if arg == nil {
		return nil, nil
	}
	if !spec.HasViewType() {
		return arg, nil
	}

	log := prov.TransformationRecorder(name)

	if types.IsCollection(spec.Type()) {
		switch v := arg.(type) {
		case *artifact.ResultCollection:
			out := artifact.NewResultCollection()
			for _, key := range v.Keys() {
				member, _ := v.Get(key)
				view, err := viewOf(name, member, spec.ViewType(), log)
				if err != nil {
					return nil, err
				}
				out.Set(key, view)
			}
			return out, nil
		case []any:
			out := make([]any, len(v))
			for i, member := range v {
				view, err := viewOf(name, member, spec.ViewType(), log)
				if err != nil {
					return nil, err
				}
				out[i] = view
			}
			return out, nil
		}
	}

	return viewOf(name, arg, spec.ViewType(), log)
}

func viewOf(name string, value any, target reflect.Type, log provenance.TransformLog) (any, error) {
	v, ok := value.(viewer)
	if !ok {
		return nil, fmt.Errorf("input %q: cannot transform %T into view %s", name, value, target)
	}
	return v.View(target, log)
}

// CoerceGivenOutputs materializes the produced physical views into output
// artifacts, pairing each view with its solved output spec in declared
// order. Collection outputs are split member-wise into a keyed result
// collection; everything else must match the declared view type exactly.
func (s *Signature) CoerceGivenOutputs(outputViews []any, outputTypes *SpecMap, sc *scope.Scope, prov provenance.Recorder) ([]any, error) {
	names := outputTypes.Names()
	if len(outputViews) != len(names) {
		return nil, fmt.Errorf("action produced %d views for %d declared outputs",
			len(outputViews), len(names))
	}

	outputs := make([]any, 0, len(names))
	for i, name := range names {
		spec, _ := outputTypes.Get(name)
		view := outputViews[i]

		coll, isColl := types.CollectionOf(spec.Type())
		switch {
		case isColl && coll.Kind() == types.KindCollection:
			out, err := s.coerceCollectionOutput(name, spec, view, sc, prov)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, out)

		case types.IsVisualization(spec.Type()):
			viz, ok := view.(*artifact.Visualization)
			if !ok {
				return nil, &CallError{
					Code:    ErrCodeViewMismatch,
					Name:    name,
					Message: fmt.Sprintf("expected a visualization, received %T", view),
				}
			}
			outputs = append(outputs, sc.AddParentReference(viz))

		default:
			if reflect.TypeOf(view) != spec.ViewType() {
				return nil, &CallError{
					Code: ErrCodeViewMismatch,
					Name: name,
					Message: fmt.Sprintf("expected output view type %v, received %v",
						spec.ViewType(), reflect.TypeOf(view)),
				}
			}
			a, err := s.createOutputArtifact(prov, name, sc, spec, view)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, a)
		}
	}

	return outputs, nil
}

// coerceCollectionOutput splits a produced collection view into one artifact
// per member, keyed by the view's own keys when it exposes them, or by the
// positional indices "0", "1", ... otherwise.
func (s *Signature) coerceCollectionOutput(name string, spec ParameterSpec, view any, sc *scope.Scope, prov provenance.Recorder) (*artifact.ResultCollection, error) {
	var keys []string
	var values []any

	switch v := view.(type) {
	case *artifact.ResultCollection:
		keys = v.Keys()
		values = v.Values()
	case map[string]any:
		keys = make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sortIndexKeys(keys)
		for _, k := range keys {
			values = append(values, v[k])
		}
	case []any:
		values = v
	default:
		return nil, &CallError{
			Code:    ErrCodeViewMismatch,
			Name:    name,
			Message: fmt.Sprintf("expected a collection view, received %T", view),
		}
	}

	size := len(values)
	out := artifact.NewResultCollection()
	for idx, member := range values {
		key := strconv.Itoa(idx)
		if keys != nil {
			key = keys[idx]
		}
		memberName := artifact.CollectionName(name, key, idx, size)
		a, err := s.createOutputArtifact(prov, memberName, sc, spec, member)
		if err != nil {
			return nil, err
		}
		out.Set(key, a)
	}
	return out, nil
}

// createOutputArtifact forks the call's provenance at the output's name and
// instantiates one artifact, registering it with the call scope and its
// parent scope so it survives return.
func (s *Signature) createOutputArtifact(prov provenance.Recorder, name string, sc *scope.Scope, spec ParameterSpec, view any) (*artifact.Artifact, error) {
	node := prov.Fork(name)

	t := spec.Type()
	// A collection member is instantiated at the collection's concrete
	// element type; the keyed container is assembled around it afterwards.
	if coll, ok := types.CollectionOf(t); ok {
		t = coll.Elem()
	}

	sc.AddReference(node)

	a, err := artifact.FromView(t, view, spec.ViewType(), node)
	if err != nil {
		return nil, fmt.Errorf("output %q: %w", name, err)
	}
	sc.AddParentReference(a)
	return a, nil
}

// DecodeParameters decodes raw (possibly interchange-encoded) parameter
// values into the representations their declared primitive types call for.
// Every key must name a declared parameter, and every declared parameter
// must be present.
func (s *Signature) DecodeParameters(raw map[string]any) (map[string]any, error) {
	for key := range raw {
		if !s.parameters.Has(key) {
			return nil, &CallError{
				Code:    ErrCodeUnknownParameter,
				Name:    key,
				Message: "signature does not declare this parameter",
			}
		}
	}

	params := make(map[string]any, s.parameters.Len())
	err := s.parameters.Each(func(key string, spec ParameterSpec) error {
		value, ok := raw[key]
		if !ok {
			return &CallError{
				Code:    ErrCodeUnknownParameter,
				Name:    key,
				Message: "no value provided for declared parameter",
			}
		}
		if spec.HasDefault() && spec.Default() == nil && value == nil {
			params[key] = nil
			return nil
		}
		parsed, err := types.ParsePrimitive(spec.Type(), value)
		if err != nil {
			return &CallError{
				Code:    ErrCodePrimitiveMismatch,
				Name:    key,
				Message: err.Error(),
			}
		}
		params[key] = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return params, nil
}
