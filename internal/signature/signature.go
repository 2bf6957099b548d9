// Package signature implements the structural type contract of an action:
// parsing a callable's declared interface, validating it against the type
// algebra's rules, coercing call-time values between container shapes,
// solving polymorphic type variables, driving provenance-coupled input
// transformation, and materializing keyed output collections.
//
// A Signature is built once at registration time and is read-only afterwards;
// it is safely reusable across any number of concurrent calls. All per-call
// intermediates live in local scope of the call.
package signature

import (
	"fmt"
	"strings"

	"github.com/nereid-bio/nereid/internal/types"
)

// Kind identifies which rules a signature enforces.
type Kind string

const (
	// KindMethod takes no builtin arguments and requires view types
	// everywhere; all outputs must be semantic.
	KindMethod Kind = "method"

	// KindVisualizer takes a leading output-directory argument and produces
	// exactly one visualization output with no view type.
	KindVisualizer Kind = "visualizer"

	// KindPipeline takes a leading execution-context argument and forbids
	// view types everywhere.
	KindPipeline Kind = "pipeline"
)

// builtinArgs returns the fixed leading arguments the callable must declare
// for its kind, in order.
func (k Kind) builtinArgs() []string {
	switch k {
	case KindVisualizer:
		return []string{"outputDir"}
	case KindPipeline:
		return []string{"ctx"}
	default:
		return nil
	}
}

// Signature is one action's full type contract. Inputs, parameters, and
// outputs preserve declaration order; order is the combined input+parameter
// order matching the callable's declared parameters, builtins excluded.
type Signature struct {
	kind       Kind
	inputs     *SpecMap
	parameters *SpecMap
	outputs    *SpecMap
	order      []string
}

// Descriptions carries the optional per-slot description strings supplied at
// registration. Every key must reference a declared name.
type Descriptions struct {
	Inputs     map[string]string
	Parameters map[string]string
	Outputs    map[string]string
}

// NewMethod builds a method signature. outputs must be []Output; an
// unordered map is rejected.
func NewMethod(c Callable, inputs, parameters map[string]types.Type, outputs any, descs Descriptions) (*Signature, error) {
	return newSignature(KindMethod, c, inputs, parameters, outputs, descs)
}

// NewVisualizer builds a visualizer signature. The single visualization
// output is fixed; callers declare only inputs and parameters.
func NewVisualizer(c Callable, inputs, parameters map[string]types.Type, descs Descriptions) (*Signature, error) {
	outputs := []Output{{Name: "visualization", Type: types.Visualization}}
	return newSignature(KindVisualizer, c, inputs, parameters, outputs, descs)
}

// NewPipeline builds a pipeline signature. outputs must be []Output; an
// unordered map is rejected.
func NewPipeline(c Callable, inputs, parameters map[string]types.Type, outputs any, descs Descriptions) (*Signature, error) {
	return newSignature(KindPipeline, c, inputs, parameters, outputs, descs)
}

func newSignature(kind Kind, c Callable, inputs, parameters map[string]types.Type, outputs any, descs Descriptions) (*Signature, error) {
	orderedOutputs, err := orderOutputs(c, outputs)
	if err != nil {
		return nil, err
	}

	sig := &Signature{kind: kind}
	if err := sig.parse(c, inputs, parameters, orderedOutputs, descs); err != nil {
		return nil, err
	}
	if err := sig.validateInputs(); err != nil {
		return nil, err
	}
	if err := sig.validateParameters(); err != nil {
		return nil, err
	}
	if err := sig.validateOutputs(); err != nil {
		return nil, err
	}
	if err := sig.validateViews(); err != nil {
		return nil, err
	}
	return sig, nil
}

// orderOutputs accepts the ordered output declaration. A plain map is
// rejected outright: its iteration order is not guaranteed, so registration
// with one would be nondeterministic.
func orderOutputs(c Callable, outputs any) ([]Output, error) {
	switch o := outputs.(type) {
	case []Output:
		return o, nil
	case map[string]types.Type:
		return nil, &DefinitionError{
			Field: "outputs",
			Message: fmt.Sprintf(
				"registration for %q cannot use a map to define the outputs, as the order is not guaranteed", c.Name),
		}
	case nil:
		return nil, nil
	default:
		return nil, &DefinitionError{
			Field:   "outputs",
			Message: fmt.Sprintf("unsupported outputs declaration %T", outputs),
		}
	}
}

// parse walks the callable's declared formal parameters in order, moving
// each into the input or parameter spec map and consuming the corresponding
// declarations and descriptions. Leftover declarations mean the callable
// does not have that parameter.
func (s *Signature) parse(c Callable, inputs, parameters map[string]types.Type, outputs []Output, descs Descriptions) error {
	remInputs := copyTypeMap(inputs)
	remParameters := copyTypeMap(parameters)
	remInputDescs := copyStringMap(descs.Inputs)
	remParameterDescs := copyStringMap(descs.Parameters)
	remOutputDescs := copyStringMap(descs.Outputs)
	builtins := s.kind.builtinArgs()

	s.inputs = NewSpecMap()
	s.parameters = NewSpecMap()
	s.outputs = NewSpecMap()

	for _, formal := range c.Params {
		if len(builtins) > 0 {
			if builtins[0] != formal.Name {
				return &DefinitionError{
					Field: "builtin_args",
					Message: fmt.Sprintf("missing builtin argument %q, got %q",
						builtins[0], formal.Name),
				}
			}
			builtins = builtins[1:]
			continue
		}

		viewType := any(NoValue)
		if formal.ViewType != nil {
			viewType = formal.ViewType
		}
		def := formal.Default

		if t, ok := remInputs[formal.Name]; ok {
			delete(remInputs, formal.Name)
			spec := NewSpec(t, viewType, def, takeDescription(remInputDescs, formal.Name))
			s.inputs.Add(formal.Name, spec)
			s.order = append(s.order, formal.Name)
		} else if t, ok := remParameters[formal.Name]; ok {
			delete(remParameters, formal.Name)
			spec := NewSpec(t, viewType, def, takeDescription(remParameterDescs, formal.Name))
			s.parameters.Add(formal.Name, spec)
			s.order = append(s.order, formal.Name)
		} else {
			return &DefinitionError{
				Field:   formal.Name,
				Message: "callable parameter has no declared type",
			}
		}
	}

	if len(remInputs) > 0 || len(remParameters) > 0 {
		return &DefinitionError{
			Field: "declarations",
			Message: fmt.Sprintf("callable %q does not have parameter(s): %v",
				c.Name, append(mapKeys(remInputs), mapKeys(remParameters)...)),
		}
	}

	if c.HasReturns {
		if len(c.Returns) != len(outputs) {
			return &DefinitionError{
				Field: "outputs",
				Message: fmt.Sprintf("number of registered outputs (%d) does not match annotation (%d)",
					len(outputs), len(c.Returns)),
			}
		}
		for i, out := range outputs {
			spec := NewSpec(out.Type, c.Returns[i], NoValue, takeDescription(remOutputDescs, out.Name))
			s.outputs.Add(out.Name, spec)
		}
	} else {
		for _, out := range outputs {
			spec := NewSpec(out.Type, NoValue, NoValue, takeDescription(remOutputDescs, out.Name))
			s.outputs.Add(out.Name, spec)
		}
	}

	if len(remInputDescs) > 0 || len(remParameterDescs) > 0 || len(remOutputDescs) > 0 {
		leftovers := append(mapKeys(remInputDescs), append(mapKeys(remParameterDescs), mapKeys(remOutputDescs)...)...)
		return &DefinitionError{
			Field: "descriptions",
			Message: fmt.Sprintf("callable %q does not have parameter(s)/output(s) found in descriptions: %v",
				c.Name, leftovers),
		}
	}

	return nil
}

func (s *Signature) validateInputs() error {
	return s.inputs.Each(func(name string, spec ParameterSpec) error {
		t := spec.Type()
		if !types.IsSemantic(t) {
			return &DefinitionError{
				Field:   "inputs." + name,
				Message: fmt.Sprintf("input must be a semantic type, not %v", t),
			}
		}
		if !types.IsComplete(t) {
			return &DefinitionError{
				Field:   "inputs." + name,
				Message: fmt.Sprintf("input must be a complete semantic type expression, not %v", t),
			}
		}
		if spec.HasDefault() && spec.Default() != nil {
			return &DefinitionError{
				Field: "inputs." + name,
				Message: fmt.Sprintf("input has a default value of %v; only a nil default is supported for inputs",
					spec.Default()),
			}
		}
		return inputPolarity("inputs."+name, t)
	})
}

func (s *Signature) validateParameters() error {
	return s.parameters.Each(func(name string, spec ParameterSpec) error {
		t := spec.Type()
		if !types.IsPrimitive(t) {
			return &DefinitionError{
				Field:   "parameters." + name,
				Message: fmt.Sprintf("parameter must be a primitive type, not %v", t),
			}
		}
		if !types.IsComplete(t) {
			return &DefinitionError{
				Field:   "parameters." + name,
				Message: fmt.Sprintf("parameter must be a complete primitive type expression, not %v", t),
			}
		}
		if spec.HasDefault() && spec.Default() != nil && !types.Contains(t, spec.Default()) {
			return &DefinitionError{
				Field: "parameters." + name,
				Message: fmt.Sprintf("default value %v is not of type %v or nil",
					spec.Default(), t),
			}
		}
		return inputPolarity("parameters."+name, t)
	})
}

func (s *Signature) validateOutputs() error {
	if s.outputs.Len() == 0 {
		return &DefinitionError{
			Field:   "outputs",
			Message: fmt.Sprintf("%s requires at least one output", s.kind),
		}
	}

	err := s.outputs.Each(func(name string, spec ParameterSpec) error {
		t := spec.Type()
		if !types.IsSemantic(t) && !types.IsVisualization(t) {
			return &DefinitionError{
				Field:   "outputs." + name,
				Message: fmt.Sprintf("output must be a semantic type or Visualization, not %v", t),
			}
		}
		if _, isUnion := t.(types.Union); isUnion || !types.IsComplete(t) {
			return &DefinitionError{
				Field:   "outputs." + name,
				Message: fmt.Sprintf("output must be a complete type expression, not %v", t),
			}
		}
		for _, v := range types.SelectVariables(t) {
			if !v.Output() {
				return &DefinitionError{
					Field:   "outputs." + name,
					Message: fmt.Sprintf("an input variable has been associated with an output type: %v", t),
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	switch s.kind {
	case KindMethod:
		// Methods are stricter than the base rule: every output must be
		// semantic.
		return s.outputs.Each(func(name string, spec ParameterSpec) error {
			if !types.IsSemantic(spec.Type()) {
				return &DefinitionError{
					Field:   "outputs." + name,
					Message: fmt.Sprintf("method output must be a semantic type, not %v", spec.Type()),
				}
			}
			return nil
		})
	case KindVisualizer:
		spec, _ := s.outputs.Get("visualization")
		if spec.HasViewType() && spec.ViewType() != nil {
			return &DefinitionError{
				Field: "outputs.visualization",
				Message: fmt.Sprintf(
					"visualizer callable cannot return anything; its return annotation must be nil, not %v; write output to the output directory",
					spec.ViewType()),
			}
		}
	}
	return nil
}

// validateViews enforces the kind-specific view-type rule.
func (s *Signature) validateViews() error {
	checkArgs := func(required bool) error {
		check := func(group string, m *SpecMap) error {
			return m.Each(func(name string, spec ParameterSpec) error {
				if required && !spec.HasViewType() {
					return &DefinitionError{
						Field:   group + "." + name,
						Message: fmt.Sprintf("%s is missing a view type annotation", s.kind),
					}
				}
				if !required && spec.HasViewType() {
					return &DefinitionError{
						Field:   group + "." + name,
						Message: "pipelines do not support view type annotations",
					}
				}
				return nil
			})
		}
		if err := check("inputs", s.inputs); err != nil {
			return err
		}
		return check("parameters", s.parameters)
	}

	switch s.kind {
	case KindMethod:
		if err := checkArgs(true); err != nil {
			return err
		}
		return s.outputs.Each(func(name string, spec ParameterSpec) error {
			if !spec.HasViewType() {
				return &DefinitionError{
					Field:   "outputs." + name,
					Message: "method is missing a view type annotation",
				}
			}
			return nil
		})
	case KindVisualizer:
		return checkArgs(true)
	case KindPipeline:
		if err := checkArgs(false); err != nil {
			return err
		}
		return s.outputs.Each(func(name string, spec ParameterSpec) error {
			if spec.HasViewType() {
				return &DefinitionError{
					Field:   "outputs." + name,
					Message: "pipelines do not support view type annotations",
				}
			}
			return nil
		})
	}
	return nil
}

func inputPolarity(field string, t types.Type) error {
	for _, v := range types.SelectVariables(t) {
		if !v.Input() {
			return &DefinitionError{
				Field:   field,
				Message: fmt.Sprintf("an output variable has been associated with an input type: %v", t),
			}
		}
	}
	return nil
}

// Kind returns which rules the signature enforces.
func (s *Signature) Kind() Kind { return s.kind }

// Inputs returns the ordered input specs.
func (s *Signature) Inputs() *SpecMap { return s.inputs }

// Parameters returns the ordered parameter specs.
func (s *Signature) Parameters() *SpecMap { return s.parameters }

// Outputs returns the ordered output specs.
func (s *Signature) Outputs() *SpecMap { return s.outputs }

// Order returns the combined input+parameter names in the callable's
// declared order, builtins excluded.
func (s *Signature) Order() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// orderedSpec resolves a name from Order to its spec and whether it is an
// input.
func (s *Signature) orderedSpec(name string) (ParameterSpec, bool) {
	if spec, ok := s.inputs.Get(name); ok {
		return spec, true
	}
	spec, _ := s.parameters.Get(name)
	return spec, false
}

// CollateInputs merges positional arguments (in signature order) with named
// arguments into one name-keyed argument map. Named arguments win.
func (s *Signature) CollateInputs(args []any, named map[string]any) map[string]any {
	collated := make(map[string]any, len(s.order))
	for i, value := range args {
		if i >= len(s.order) {
			break
		}
		collated[s.order[i]] = value
	}
	for name, value := range named {
		collated[name] = value
	}
	return collated
}

// Equal reports whether two signatures declare the same contract.
func (s *Signature) Equal(other *Signature) bool {
	if s.kind != other.kind || len(s.order) != len(other.order) {
		return false
	}
	for i := range s.order {
		if s.order[i] != other.order[i] {
			return false
		}
	}
	return s.inputs.Equal(other.inputs) &&
		s.parameters.Equal(other.parameters) &&
		s.outputs.Equal(other.outputs)
}

// Describe renders the signature grouped by slot kind, one line per slot.
func (s *Signature) Describe() string {
	var b strings.Builder
	groups := []struct {
		label string
		m     *SpecMap
	}{
		{"inputs", s.inputs},
		{"parameters", s.parameters},
		{"outputs", s.outputs},
	}
	for _, g := range groups {
		fmt.Fprintf(&b, "%s:\n", g.label)
		g.m.Each(func(name string, spec ParameterSpec) error {
			fmt.Fprintf(&b, "    %s: %s\n", name, spec)
			return nil
		})
	}
	return b.String()
}

func copyTypeMap(m map[string]types.Type) map[string]types.Type {
	out := make(map[string]types.Type, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func takeDescription(m map[string]string, name string) any {
	if d, ok := m[name]; ok {
		delete(m, name)
		return d
	}
	return NoValue
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
