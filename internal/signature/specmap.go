package signature

// SpecMap is an insertion-ordered mapping from slot name to ParameterSpec.
// Iteration order is always declaration order; a built SpecMap is never
// mutated after signature construction.
type SpecMap struct {
	names []string
	specs map[string]ParameterSpec
}

// NewSpecMap returns an empty ordered spec map.
func NewSpecMap() *SpecMap {
	return &SpecMap{specs: map[string]ParameterSpec{}}
}

// Add appends a named spec, or replaces it in place if the name exists.
func (m *SpecMap) Add(name string, spec ParameterSpec) {
	if _, ok := m.specs[name]; !ok {
		m.names = append(m.names, name)
	}
	m.specs[name] = spec
}

// Get returns the spec for name.
func (m *SpecMap) Get(name string) (ParameterSpec, bool) {
	s, ok := m.specs[name]
	return s, ok
}

// Has reports whether name is declared.
func (m *SpecMap) Has(name string) bool {
	_, ok := m.specs[name]
	return ok
}

// Len returns the number of declared slots.
func (m *SpecMap) Len() int { return len(m.names) }

// Names returns the slot names in declaration order.
func (m *SpecMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Each calls fn for every slot in declaration order, stopping on the first
// error.
func (m *SpecMap) Each(fn func(name string, spec ParameterSpec) error) error {
	for _, name := range m.names {
		if err := fn(name, m.specs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports order-sensitive, field-wise equality.
func (m *SpecMap) Equal(other *SpecMap) bool {
	if len(m.names) != len(other.names) {
		return false
	}
	for i, name := range m.names {
		if other.names[i] != name {
			return false
		}
		if !m.specs[name].Equal(other.specs[name]) {
			return false
		}
	}
	return true
}
