// Package manifest loads declarative action manifests written in CUE.
//
// A manifest names actions and declares their kind, inputs, parameters, and
// outputs by type expression. Type names in expressions are resolved against
// a plugin registry; the loader validates shape and resolvability without
// requiring the action's runtime views.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/nereid-bio/nereid/internal/plugin"
	"github.com/nereid-bio/nereid/internal/signature"
	"github.com/nereid-bio/nereid/internal/types"
)

// Field is one declared input, parameter, or output: a name paired with a
// resolved type expression.
type Field struct {
	Name        string
	Type        types.Type
	Description string
}

// ActionSpec is the declarative form of one manifest action.
type ActionSpec struct {
	Name        string
	Kind        signature.Kind
	Description string
	Inputs      []Field
	Parameters  []Field
	Outputs     []Field
}

// LoadFile compiles the CUE file at path and parses every action it declares.
func LoadFile(path string, reg *plugin.Registry) ([]ActionSpec, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Load(v, reg)
}

// Load parses every action declared under the top-level "action" struct.
func Load(v cue.Value, reg *plugin.Registry) ([]ActionSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	actionVal := v.LookupPath(cue.ParsePath("action"))
	if !actionVal.Exists() {
		return nil, &CompileError{
			Field:   "action",
			Message: "at least one action is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := actionVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ActionSpec
	for iter.Next() {
		spec, err := parseAction(iter.Label(), iter.Value(), reg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, &CompileError{
			Field:   "action",
			Message: "at least one action is required",
			Pos:     actionVal.Pos(),
		}
	}
	return specs, nil
}

func parseAction(name string, v cue.Value, reg *plugin.Registry) (ActionSpec, error) {
	spec := ActionSpec{Name: name}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return spec, &CompileError{
			Field:   fmt.Sprintf("action.%s.kind", name),
			Message: "kind is required",
			Pos:     v.Pos(),
		}
	}
	kind, err := kindVal.String()
	if err != nil {
		return spec, formatCUEError(err)
	}
	switch signature.Kind(kind) {
	case signature.KindMethod, signature.KindVisualizer, signature.KindPipeline:
		spec.Kind = signature.Kind(kind)
	default:
		return spec, &CompileError{
			Field:   fmt.Sprintf("action.%s.kind", name),
			Message: fmt.Sprintf("unknown kind %q", kind),
			Pos:     kindVal.Pos(),
		}
	}

	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return spec, formatCUEError(err)
		}
		spec.Description = desc
	}

	spec.Inputs, err = parseFields(name, "inputs", v, reg)
	if err != nil {
		return spec, err
	}
	spec.Parameters, err = parseFields(name, "parameters", v, reg)
	if err != nil {
		return spec, err
	}
	spec.Outputs, err = parseFields(name, "outputs", v, reg)
	if err != nil {
		return spec, err
	}
	if len(spec.Outputs) == 0 {
		return spec, &CompileError{
			Field:   fmt.Sprintf("action.%s.outputs", name),
			Message: "at least one output is required",
			Pos:     v.Pos(),
		}
	}
	return spec, nil
}

// parseFields walks one of the inputs/parameters/outputs structs. Each entry
// is either a type expression string or an object with expression and
// description fields.
func parseFields(action, section string, v cue.Value, reg *plugin.Registry) ([]Field, error) {
	sectionVal := v.LookupPath(cue.ParsePath(section))
	if !sectionVal.Exists() {
		return nil, nil
	}

	iter, err := sectionVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var fields []Field
	for iter.Next() {
		field := Field{Name: iter.Label()}
		entry := iter.Value()

		exprVal := entry
		if typeVal := entry.LookupPath(cue.ParsePath("type")); typeVal.Exists() {
			exprVal = typeVal
			descVal := entry.LookupPath(cue.ParsePath("description"))
			if descVal.Exists() {
				desc, err := descVal.String()
				if err != nil {
					return nil, formatCUEError(err)
				}
				field.Description = desc
			}
		}

		expr, err := exprVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		field.Type, err = ResolveExpr(expr, reg)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("action.%s.%s.%s", action, section, field.Name),
				Message: err.Error(),
				Pos:     exprVal.Pos(),
			}
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// ResolveExpr resolves a type expression string such as "IntSequence1",
// "List[IntSequence1 | IntSequence2]", or "Collection[Int]". Non-builtin
// names are looked up in the registry.
func ResolveExpr(expr string, reg *plugin.Registry) (types.Type, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	if members := splitUnion(expr); len(members) > 1 {
		resolved := make([]types.Type, 0, len(members))
		for _, member := range members {
			t, err := ResolveExpr(member, reg)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, t)
		}
		return types.U(resolved...), nil
	}

	for _, shape := range []struct {
		prefix string
		build  func(types.Type) types.Type
	}{
		{"List[", func(t types.Type) types.Type { return types.List(t) }},
		{"Set[", func(t types.Type) types.Type { return types.Set(t) }},
		{"Collection[", func(t types.Type) types.Type { return types.Coll(t) }},
	} {
		if strings.HasPrefix(expr, shape.prefix) && strings.HasSuffix(expr, "]") {
			inner := expr[len(shape.prefix) : len(expr)-1]
			elem, err := ResolveExpr(inner, reg)
			if err != nil {
				return nil, err
			}
			return shape.build(elem), nil
		}
	}

	switch expr {
	case "Int":
		return types.Int, nil
	case "Float":
		return types.Float, nil
	case "Str":
		return types.Str, nil
	case "Bool":
		return types.Bool, nil
	case "Metadata":
		return types.Metadata, nil
	case "Visualization":
		return types.Visualization, nil
	}
	return reg.ResolveType(expr)
}

// splitUnion splits a type expression on top-level "|" separators, leaving
// bracketed element expressions intact.
func splitUnion(expr string) []string {
	var members []string
	depth, start := 0, 0
	for i, r := range expr {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case '|':
			if depth == 0 {
				members = append(members, strings.TrimSpace(expr[start:i]))
				start = i + 1
			}
		}
	}
	members = append(members, strings.TrimSpace(expr[start:]))
	return members
}

// CompileError is a manifest parse error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
