// Package params implements the ordered, multi-valued parameter store that
// backs every request, together with the bracketed query-string encoding
// used for compound parameters such as attrib[color][]=red.
package params

import (
	"net/url"
	"strings"
)

// Entry is one named parameter of a Store.
type Entry struct {
	Name  string
	Value *Value
}

// Store maps parameter names to values, remembering insertion order, and
// tracks which names must be present before a request may be sent.
type Store struct {
	names    []string
	values   map[string]*Value
	required []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: map[string]*Value{}}
}

// Set overwrites name with v. A nil v stores an empty scalar, which still
// counts as present.
func (s *Store) Set(name string, v *Value) {
	if v == nil {
		v = Scalar(nil)
	}
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = v.clone()
}

// Add merges v into the value stored under name, creating it when absent.
func (s *Store) Add(name string, v *Value) {
	if v == nil {
		v = Scalar(nil)
	}
	cur, ok := s.values[name]
	if !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = merge(cur, v)
}

// AddRequired extends the set of names that must be present.
func (s *Store) AddRequired(names ...string) {
	for _, n := range names {
		if containsString(s.required, n) {
			continue
		}
		s.required = append(s.required, n)
	}
}

// Required returns the required names in registration order.
func (s *Store) Required() []string {
	return append([]string(nil), s.required...)
}

// Get returns the value stored under name.
func (s *Store) Get(name string) (*Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name has an entry, regardless of its content.
func (s *Store) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Names returns parameter names in insertion order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// All returns every entry in insertion order.
func (s *Store) All() []Entry {
	out := make([]Entry, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, Entry{Name: n, Value: s.values[n]})
	}
	return out
}

// Len returns the number of distinct parameter names.
func (s *Store) Len() int { return len(s.names) }

// MissingRequired returns the required names without an entry.
func (s *Store) MissingRequired() []string {
	var out []string
	for _, n := range s.required {
		if !s.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// AllRequiredPresent reports whether every required name has an entry.
func (s *Store) AllRequiredPresent() bool {
	return len(s.MissingRequired()) == 0
}

// Pairs flattens the store into encoded key/value pairs, in order.
func (s *Store) Pairs() []Pair {
	var out []Pair
	for _, n := range s.names {
		out = s.values[n].appendPairs(n, out)
	}
	return out
}

// Values returns the store as url.Values. Order across keys is lost; order
// of repeated values under one key is kept.
func (s *Store) Values() url.Values {
	out := url.Values{}
	for _, p := range s.Pairs() {
		out.Add(p.Key, p.Value)
	}
	return out
}

// Encode renders the store as a query string in insertion order.
func (s *Store) Encode() string {
	pairs := s.Pairs()
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
