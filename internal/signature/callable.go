package signature

import (
	"reflect"

	"github.com/nereid-bio/nereid/internal/types"
)

// Formal describes one declared formal parameter of the underlying callable:
// its name, an optional physical view type annotation, and an optional
// default. Construct with Arg or OptArg so absent defaults hold the sentinel.
type Formal struct {
	Name     string
	ViewType reflect.Type // nil when unannotated
	Default  any          // NoValue when no default is declared
}

// Arg declares a formal parameter without a default.
func Arg(name string, viewType reflect.Type) Formal {
	return Formal{Name: name, ViewType: viewType, Default: NoValue}
}

// OptArg declares a formal parameter with a default. A nil default is the
// explicit "none" default, which is the only legal default for inputs.
func OptArg(name string, viewType reflect.Type, def any) Formal {
	return Formal{Name: name, ViewType: viewType, Default: def}
}

// Callable describes the declared interface of the function backing an
// action. Returns carries the physical return annotation: one entry per
// produced view, where a nil entry is an explicit "returns nothing"
// annotation. HasReturns distinguishes an absent annotation from an empty
// one.
type Callable struct {
	Name       string
	Params     []Formal
	Returns    []reflect.Type
	HasReturns bool
}

// Output pairs an output name with its declared symbolic type. Outputs are
// declared as an ordered slice; an unordered mapping is rejected at
// construction because its iteration order is not guaranteed.
type Output struct {
	Name string
	Type types.Type
}
