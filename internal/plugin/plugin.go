// Package plugin ties registered semantic types and actions into a single
// lookup surface used by manifest loading and the CLI.
package plugin

import (
	"fmt"
	"sort"

	"github.com/nereid-bio/nereid/internal/signature"
	"github.com/nereid-bio/nereid/internal/types"
)

// Action is one registered, callable unit of work: its stable reference,
// its signature, and the function that implements it. Run receives the
// already-transformed views in signature order and returns one view per
// declared output.
type Action struct {
	Ref       string
	Signature *signature.Signature
	Run       func(args map[string]any) ([]any, error)
}

// Registry holds the semantic types and actions a deployment knows about.
type Registry struct {
	types   map[string]types.Type
	actions map[string]*Action
}

func NewRegistry() *Registry {
	return &Registry{
		types:   map[string]types.Type{},
		actions: map[string]*Action{},
	}
}

// RegisterType makes a named type expression resolvable by manifests.
// Registering the same name twice is an error.
func (r *Registry) RegisterType(name string, t types.Type) error {
	if _, ok := r.types[name]; ok {
		return fmt.Errorf("type %q is already registered", name)
	}
	r.types[name] = t
	return nil
}

// ResolveType looks up a registered type expression by name.
func (r *Registry) ResolveType(name string) (types.Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	return t, nil
}

// RegisterAction adds an action under its Ref. Registering the same ref
// twice is an error.
func (r *Registry) RegisterAction(a *Action) error {
	if a.Ref == "" {
		return fmt.Errorf("action has no ref")
	}
	if _, ok := r.actions[a.Ref]; ok {
		return fmt.Errorf("action %q is already registered", a.Ref)
	}
	r.actions[a.Ref] = a
	return nil
}

// Action looks up a registered action by ref.
func (r *Registry) Action(ref string) (*Action, error) {
	a, ok := r.actions[ref]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", ref)
	}
	return a, nil
}

// ActionRefs returns every registered action ref in sorted order.
func (r *Registry) ActionRefs() []string {
	refs := make([]string, 0, len(r.actions))
	for ref := range r.actions {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// TypeNames returns every registered type name in sorted order.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
