package vault

// Mappings is the session mapping table: original value -> synthetic value,
// preserving insertion order (discovery order). It is owned by exactly one
// pipeline invocation and is not safe for concurrent use; batches never
// share one.
//
// Keys are original values only, not (value, type) pairs: if the same
// literal string is later detected as a different entity type, the first
// generated replacement is reused regardless of type.
type Mappings struct {
	keys   []string
	values map[string]string
}

// NewMappings creates an empty session mapping table.
func NewMappings() *Mappings {
	return &Mappings{values: make(map[string]string)}
}

// Get returns the synthetic value for an original, if present.
func (m *Mappings) Get(original string) (string, bool) {
	v, ok := m.values[original]
	return v, ok
}

// Set records original -> synthetic. Re-setting an existing key updates the
// value in place without changing its position.
func (m *Mappings) Set(original, synthetic string) {
	if _, exists := m.values[original]; !exists {
		m.keys = append(m.keys, original)
	}
	m.values[original] = synthetic
}

// Has reports whether an original value is already mapped.
func (m *Mappings) Has(original string) bool {
	_, ok := m.values[original]
	return ok
}

// Len returns the number of mapped originals.
func (m *Mappings) Len() int { return len(m.keys) }

// Each visits every pair in insertion order.
func (m *Mappings) Each(fn func(original, synthetic string)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Merge copies every pair from other into m, preserving other's order for
// keys m does not already hold.
func (m *Mappings) Merge(other *Mappings) {
	if other == nil {
		return
	}
	other.Each(func(original, synthetic string) {
		m.Set(original, synthetic)
	})
}

// Clone returns an independent copy.
func (m *Mappings) Clone() *Mappings {
	out := NewMappings()
	m.Each(func(original, synthetic string) {
		out.Set(original, synthetic)
	})
	return out
}
