package params

import (
	"fmt"
	"strconv"
)

// Kind discriminates the shape of a Value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a query parameter value: a scalar (string, number, bool), a list
// of values, or a mapping whose keys keep insertion order.
type Value struct {
	kind   Kind
	scalar any
	items  []*Value
	keys   []string
	fields map[string]*Value
}

// Scalar wraps a single string, number or bool.
func Scalar(v any) *Value {
	return &Value{kind: KindScalar, scalar: v}
}

// List builds a list value. Elements that are already *Value are kept as is.
func List(vs ...any) *Value {
	out := &Value{kind: KindList, items: make([]*Value, 0, len(vs))}
	for _, v := range vs {
		out.items = append(out.items, wrap(v))
	}
	return out
}

// Map builds an empty mapping value.
func Map() *Value {
	return &Value{kind: KindMap, fields: map[string]*Value{}}
}

// MapOf builds a single-key mapping value.
func MapOf(key string, v any) *Value {
	return Map().Set(key, v)
}

func wrap(v any) *Value {
	if pv, ok := v.(*Value); ok && pv != nil {
		return pv
	}
	return Scalar(v)
}

// Set stores v under key, keeping the key's original position when it
// already exists. Set panics when called on a non-map value.
func (v *Value) Set(key string, child any) *Value {
	if v.kind != KindMap {
		panic("params: Set on " + v.kind.String() + " value")
	}
	if _, ok := v.fields[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = wrap(child)
	return v
}

func (v *Value) Kind() Kind { return v.kind }

// Scalar returns the raw scalar; nil for lists and maps.
func (v *Value) Scalar() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Items returns the list elements.
func (v *Value) Items() []*Value {
	return append([]*Value(nil), v.items...)
}

// Keys returns the map keys in insertion order.
func (v *Value) Keys() []string {
	return append([]string(nil), v.keys...)
}

// Field returns the child stored under key.
func (v *Value) Field(key string) (*Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	c, ok := v.fields[key]
	return c, ok
}

// Strings flattens the value into the formatted scalars it contains, in
// encoding order.
func (v *Value) Strings() []string {
	pairs := v.appendPairs("", nil)
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.Value)
	}
	return out
}

// String formats a scalar value the way it is sent on the wire.
func (v *Value) String() string {
	if v.kind != KindScalar {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return formatScalar(v.scalar)
}

func (v *Value) clone() *Value {
	if v == nil {
		return nil
	}
	out := &Value{kind: v.kind, scalar: v.scalar}
	if v.items != nil {
		out.items = make([]*Value, 0, len(v.items))
		for _, it := range v.items {
			out.items = append(out.items, it.clone())
		}
	}
	if v.fields != nil {
		out.keys = append([]string(nil), v.keys...)
		out.fields = make(map[string]*Value, len(v.fields))
		for k, f := range v.fields {
			out.fields[k] = f.clone()
		}
	}
	return out
}

// merge combines src into dst additively and returns the result. Maps merge
// key by key, lists append, and colliding scalars turn into a list.
func merge(dst, src *Value) *Value {
	if dst == nil {
		return src.clone()
	}
	if src == nil {
		return dst
	}
	switch {
	case dst.kind == KindMap && src.kind == KindMap:
		for _, k := range src.keys {
			if cur, ok := dst.fields[k]; ok {
				dst.fields[k] = merge(cur, src.fields[k])
				continue
			}
			dst.keys = append(dst.keys, k)
			dst.fields[k] = src.fields[k].clone()
		}
		return dst
	case dst.kind == KindList:
		if src.kind == KindList {
			for _, it := range src.items {
				dst.items = append(dst.items, it.clone())
			}
			return dst
		}
		dst.items = append(dst.items, src.clone())
		return dst
	default:
		out := &Value{kind: KindList, items: []*Value{dst}}
		return merge(out, src)
	}
}

// Pair is one encoded key/value of a query string.
type Pair struct {
	Key   string
	Value string
}

func (v *Value) appendPairs(prefix string, out []Pair) []Pair {
	switch v.kind {
	case KindList:
		for _, it := range v.items {
			out = it.appendPairs(prefix+"[]", out)
		}
	case KindMap:
		for _, k := range v.keys {
			out = v.fields[k].appendPairs(prefix+"["+k+"]", out)
		}
	default:
		out = append(out, Pair{Key: prefix, Value: formatScalar(v.scalar)})
	}
	return out
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(t)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
