package signature

import (
	"fmt"
	"reflect"

	"github.com/nereid-bio/nereid/internal/types"
)

// noValue is the sentinel distinguishing "not provided" from "explicitly
// nil". It is a dedicated type compared by type identity, not value, so any
// decoded copy of the sentinel equals the package value after persistence.
type noValue struct{}

func (noValue) String() string { return "NOVALUE" }

// NoValue is the absent-field sentinel used throughout signature
// construction.
var NoValue noValue

// isNoValue reports sentinel-ness by type identity.
func isNoValue(v any) bool {
	_, ok := v.(noValue)
	return ok
}

// ParameterSpec is the immutable descriptor for one input, parameter, or
// output slot. Unset fields hold the NoValue sentinel. All access after
// construction is read-only.
type ParameterSpec struct {
	typ         any // types.Type or NoValue
	viewType    any // reflect.Type, nil (explicitly none), or NoValue
	def         any // default value, nil (explicitly none), or NoValue
	description any // string or NoValue
}

// NewSpec constructs a ParameterSpec. Pass NoValue for any field that was
// not provided; nil view types and defaults mean "explicitly none", which is
// distinct from absent.
func NewSpec(typ, viewType, def, description any) ParameterSpec {
	return ParameterSpec{typ: typ, viewType: viewType, def: def, description: description}
}

// EmptySpec returns a spec with every field unset.
func EmptySpec() ParameterSpec {
	return NewSpec(NoValue, NoValue, NoValue, NoValue)
}

// HasType reports whether a symbolic type was provided.
func (s ParameterSpec) HasType() bool { return !isNoValue(s.typ) }

// HasViewType reports whether a view type was provided (including an
// explicitly nil one).
func (s ParameterSpec) HasViewType() bool { return !isNoValue(s.viewType) }

// HasDefault reports whether a default was provided (including an explicitly
// nil one).
func (s ParameterSpec) HasDefault() bool { return !isNoValue(s.def) }

// HasDescription reports whether a description was provided.
func (s ParameterSpec) HasDescription() bool { return !isNoValue(s.description) }

// Type returns the declared symbolic type, or nil when unset.
func (s ParameterSpec) Type() types.Type {
	if t, ok := s.typ.(types.Type); ok {
		return t
	}
	return nil
}

// ViewType returns the declared physical view type, or nil when unset or
// explicitly none.
func (s ParameterSpec) ViewType() reflect.Type {
	if t, ok := s.viewType.(reflect.Type); ok {
		return t
	}
	return nil
}

// Default returns the declared default value; nil when the default is an
// explicit none. Check HasDefault to distinguish absent from nil.
func (s ParameterSpec) Default() any {
	if isNoValue(s.def) {
		return nil
	}
	return s.def
}

// Description returns the declared description, or the empty string when
// unset.
func (s ParameterSpec) Description() string {
	if d, ok := s.description.(string); ok {
		return d
	}
	return ""
}

// SpecOverride replaces one field when duplicating a spec. Unknown overrides
// cannot be expressed; the closed set below is all there is.
type SpecOverride func(*ParameterSpec)

// OverrideType replaces the symbolic type.
func OverrideType(t types.Type) SpecOverride {
	return func(s *ParameterSpec) { s.typ = t }
}

// OverrideViewType replaces the view type.
func OverrideViewType(vt reflect.Type) SpecOverride {
	return func(s *ParameterSpec) { s.viewType = vt }
}

// OverrideDefault replaces the default value.
func OverrideDefault(v any) SpecOverride {
	return func(s *ParameterSpec) { s.def = v }
}

// OverrideDescription replaces the description.
func OverrideDescription(d string) SpecOverride {
	return func(s *ParameterSpec) { s.description = d }
}

// Duplicate returns a new spec sharing every field not overridden.
func (s ParameterSpec) Duplicate(overrides ...SpecOverride) ParameterSpec {
	dup := s
	for _, o := range overrides {
		o(&dup)
	}
	return dup
}

// Equal reports field-wise equality.
func (s ParameterSpec) Equal(other ParameterSpec) bool {
	return fieldEqual(s.typ, other.typ) &&
		fieldEqual(s.viewType, other.viewType) &&
		fieldEqual(s.def, other.def) &&
		fieldEqual(s.description, other.description)
}

func fieldEqual(a, b any) bool {
	if isNoValue(a) || isNoValue(b) {
		return isNoValue(a) && isNoValue(b)
	}
	if at, ok := a.(types.Type); ok {
		bt, ok := b.(types.Type)
		return ok && types.Equal(at, bt)
	}
	return reflect.DeepEqual(a, b)
}

func (s ParameterSpec) String() string {
	return fmt.Sprintf("ParameterSpec(type=%v, view_type=%v, default=%v, description=%v)",
		s.typ, s.viewType, s.def, s.description)
}
