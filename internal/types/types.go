package types

import (
	"fmt"
	"strings"
)

// Type is a sealed interface representing a symbolic type expression.
// Only *Semantic, *Primitive, *Collection, Union, *Var, and *Viz implement it.
type Type interface {
	typeExpr() // Sealed - only these variants implement it

	// Name returns the head name of the expression ("IntSequence1", "List",
	// "Int", ...). Unions have the empty name, matching the convention that a
	// union's identity lives in its members.
	Name() string

	String() string
}

// Typed is implemented by runtime values that carry their own symbolic type:
// artifacts, deferred artifact proxies, metadata objects, and visualizations.
// Membership testing for semantic types dispatches through this interface so
// the algebra never needs to know about concrete runtime shapes.
type Typed interface {
	TypeOf() Type
}

// Keyed is implemented by insertion-ordered keyed containers (the result
// collection type). Membership and inference treat these like mappings while
// preserving key order.
type Keyed interface {
	Keys() []string
	Values() []any
}

// Semantic is a semantic type expression: a domain name with optional type
// fields, e.g. Kennel[Dog].
type Semantic struct {
	name   string
	fields []Type
}

func (*Semantic) typeExpr() {}

// Sem constructs a semantic type with optional fields.
func Sem(name string, fields ...Type) *Semantic {
	return &Semantic{name: name, fields: fields}
}

func (s *Semantic) Name() string   { return s.name }
func (s *Semantic) Fields() []Type { return s.fields }

func (s *Semantic) String() string {
	if len(s.fields) == 0 {
		return s.name
	}
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s[%s]", s.name, strings.Join(parts, ", "))
}

// PrimitiveKind identifies a primitive value kind.
type PrimitiveKind string

const (
	KindInt      PrimitiveKind = "Int"
	KindFloat    PrimitiveKind = "Float"
	KindStr      PrimitiveKind = "Str"
	KindBool     PrimitiveKind = "Bool"
	KindMetadata PrimitiveKind = "Metadata"
)

// Primitive is a primitive type expression usable for parameters.
type Primitive struct {
	kind PrimitiveKind
}

func (*Primitive) typeExpr() {}

// The primitive type singletons. These are the only Primitive values; compare
// by pointer or by Kind.
var (
	Int      = &Primitive{kind: KindInt}
	Float    = &Primitive{kind: KindFloat}
	Str      = &Primitive{kind: KindStr}
	Bool     = &Primitive{kind: KindBool}
	Metadata = &Primitive{kind: KindMetadata}
)

func (p *Primitive) Kind() PrimitiveKind { return p.kind }
func (p *Primitive) Name() string        { return string(p.kind) }
func (p *Primitive) String() string      { return string(p.kind) }

// CollectionKind identifies a parametrized container kind.
type CollectionKind string

const (
	// KindList is an ordered sequence collection.
	KindList CollectionKind = "List"
	// KindSet is an unordered-unique collection.
	KindSet CollectionKind = "Set"
	// KindCollection is a keyed collection.
	KindCollection CollectionKind = "Collection"
)

// Collection is a parametrized container type over an element type.
type Collection struct {
	kind CollectionKind
	elem Type
}

func (*Collection) typeExpr() {}

// List constructs an ordered sequence collection type.
func List(elem Type) *Collection { return &Collection{kind: KindList, elem: elem} }

// Set constructs an unordered-unique collection type.
func Set(elem Type) *Collection { return &Collection{kind: KindSet, elem: elem} }

// Coll constructs a keyed collection type.
func Coll(elem Type) *Collection { return &Collection{kind: KindCollection, elem: elem} }

func (c *Collection) Kind() CollectionKind { return c.kind }
func (c *Collection) Elem() Type           { return c.elem }
func (c *Collection) Name() string         { return string(c.kind) }

func (c *Collection) String() string {
	return fmt.Sprintf("%s[%s]", c.kind, c.elem)
}

// Union is a "one of" type expression over two or more alternatives.
// Construct through Normalize or U; a Union is never nested inside a Union
// after normalization.
type Union []Type

func (Union) typeExpr() {}

// U constructs a normalized union of the given members.
func U(members ...Type) Type { return Normalize(members) }

func (u Union) Name() string { return "" }

func (u Union) String() string {
	parts := make([]string, len(u))
	for i, m := range u {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Var is a named type variable, resolved per call. Input and Output carry the
// variable's polarity. Alternatives, when present, constrain what the
// variable may be bound to and make the variable behave as a union for
// membership purposes (a variable without alternatives is an incomplete
// expression and may not be used directly as an input or output type).
type Var struct {
	name         string
	input        bool
	output       bool
	alternatives []Type
}

func (*Var) typeExpr() {}

// NewVar constructs a type variable with the given polarity and optional
// alternative constraint.
func NewVar(name string, input, output bool, alternatives ...Type) *Var {
	return &Var{name: name, input: input, output: output, alternatives: alternatives}
}

// TypeMatch constructs a variable that may appear on both the input and
// output side, constrained to the given alternatives. This is the usual way
// plugins share one variable across inputs and outputs.
func TypeMatch(name string, alternatives ...Type) *Var {
	return NewVar(name, true, true, alternatives...)
}

func (v *Var) Name() string         { return v.name }
func (v *Var) Input() bool          { return v.input }
func (v *Var) Output() bool         { return v.output }
func (v *Var) Alternatives() []Type { return v.alternatives }

func (v *Var) String() string {
	return fmt.Sprintf("{%s}", v.name)
}

// Viz is the visualization marker type. It is neither semantic nor primitive
// and is only legal as an output.
type Viz struct{}

func (*Viz) typeExpr() {}

// Visualization is the singleton visualization marker.
var Visualization = &Viz{}

func (*Viz) Name() string   { return "Visualization" }
func (*Viz) String() string { return "Visualization" }
