// Package scope tracks the resources a single call creates, so intermediate
// artifacts are released when the call ends while returned results survive.
package scope

// Releaser is implemented by tracked resources that can free their backing
// storage.
type Releaser interface {
	Release() error
}

// Scope owns the references created during one call. References added with
// AddReference are destroyed with the scope; references promoted with
// AddParentReference belong to the caller and survive Destroy.
//
// A Scope belongs to one call; it carries no synchronization.
type Scope struct {
	refs   []any
	parent []any
}

// New returns an empty scope.
func New() *Scope {
	return &Scope{}
}

// AddReference tracks a call-local resource for destruction with the scope.
func (s *Scope) AddReference(ref any) {
	s.refs = append(s.refs, ref)
}

// AddParentReference promotes a resource to the parent scope so it survives
// the call's return. Returns the reference for call-site chaining.
func (s *Scope) AddParentReference(ref any) any {
	s.parent = append(s.parent, ref)
	return ref
}

// ParentReferences returns the resources promoted to the parent scope.
func (s *Scope) ParentReferences() []any {
	out := make([]any, len(s.parent))
	copy(out, s.parent)
	return out
}

// Destroy releases every call-local reference in reverse creation order.
// Parent references are untouched. The first release error is returned;
// remaining references are still released.
func (s *Scope) Destroy() error {
	var first error
	for i := len(s.refs) - 1; i >= 0; i-- {
		if r, ok := s.refs[i].(Releaser); ok {
			if err := r.Release(); err != nil && first == nil {
				first = err
			}
		}
	}
	s.refs = nil
	return first
}
