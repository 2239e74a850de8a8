// Package ordered provides the insertion-ordered, name-keyed child
// collections used by recursive response nodes.
package ordered

// Map keeps values in insertion order. Putting an existing key replaces the
// value and keeps the key's original position. The zero value is not usable;
// use New.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

func New[V any]() *Map[V] {
	return &Map[V]{values: map[string]V{}}
}

// Put stores v under key.
func (m *Map[V]) Put(key string, v V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Len returns the number of distinct keys.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Values returns the values in insertion order.
func (m *Map[V]) Values() []V {
	if m == nil {
		return nil
	}
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// Walk visits every value depth first, parents before children. children
// returns the nested map of a value, or nil. Returning false from fn stops
// the walk.
func Walk[V any](m *Map[V], children func(V) *Map[V], fn func(path []string, v V) bool) {
	walk(m, nil, children, fn)
}

func walk[V any](m *Map[V], prefix []string, children func(V) *Map[V], fn func(path []string, v V) bool) bool {
	if m == nil {
		return true
	}
	for _, k := range m.keys {
		v := m.values[k]
		path := append(append([]string(nil), prefix...), k)
		if !fn(path, v) {
			return false
		}
		if !walk(children(v), path, children, fn) {
			return false
		}
	}
	return true
}
