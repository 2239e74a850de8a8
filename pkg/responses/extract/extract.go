// Package extract reads optional scalars out of loosely typed parsed
// documents. A missing key, or content of the wrong shape, yields nil rather
// than an error so a single bad field never aborts a whole parse.
package extract

import (
	"math"
	"strconv"
	"strings"
)

// Mode selects how tolerant numeric extraction is.
type Mode int

const (
	// Strict accepts integer literals only.
	Strict Mode = iota
	// Lenient also accepts surrounding whitespace and integral reals.
	Lenient
)

// Source is anything that can look up a raw value by key: a decoded JSON
// object or the attributes/children of an XML element.
type Source interface {
	Lookup(key string) (any, bool)
}

// Map adapts a decoded JSON object to Source.
type Map map[string]any

func (m Map) Lookup(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// numberLike matches json.Number from both encoding/json and goccy/go-json.
type numberLike interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

func lookup(src Source, key string) (any, bool) {
	if src == nil {
		return nil, false
	}
	v, ok := src.Lookup(key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the value under key when it is a string.
func String(src Source, key string) *string {
	v, ok := lookup(src, key)
	if !ok {
		return nil
	}
	s, ok := ToString(v)
	if !ok {
		return nil
	}
	return &s
}

// StringOr is String with a fallback.
func StringOr(src Source, key, def string) string {
	if s := String(src, key); s != nil {
		return *s
	}
	return def
}

// Int returns the value under key as an int, or nil when it is not numeric
// under the given mode.
func Int(src Source, key string, mode Mode) *int {
	v, ok := lookup(src, key)
	if !ok {
		return nil
	}
	i, ok := ToInt(v, mode)
	if !ok {
		return nil
	}
	return &i
}

// IntOr is Int with a fallback.
func IntOr(src Source, key string, mode Mode, def int) int {
	if i := Int(src, key, mode); i != nil {
		return *i
	}
	return def
}

// Float returns the value under key as a float64.
func Float(src Source, key string) *float64 {
	v, ok := lookup(src, key)
	if !ok {
		return nil
	}
	f, ok := ToFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// Bool returns the value under key as a bool. Strings follow the
// "1"/"true" and "0"/"false" convention.
func Bool(src Source, key string) *bool {
	v, ok := lookup(src, key)
	if !ok {
		return nil
	}
	b, ok := ToBool(v)
	if !ok {
		return nil
	}
	return &b
}

// ToString converts v to a string when it already is one. Numbers are not
// stringified.
func ToString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}

// ToInt converts common numeric-like values to int.
func ToInt(v any, mode Mode) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		return integral(t)
	case float32:
		return integral(float64(t))
	case numberLike:
		return parseInt(t.String(), mode)
	case string:
		return parseInt(t, mode)
	}
	return 0, false
}

// integral accepts whole floats in both modes: a decoder without UseNumber
// turns the literal 3 into float64(3).
func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func parseInt(s string, mode Mode) (int, bool) {
	if mode == Lenient {
		s = strings.TrimSpace(s)
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	if mode == Strict {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return integral(f)
}

// ToFloat converts common numeric-like values to float64.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case numberLike:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ToBool converts bools, numbers and their common string forms.
func ToBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		return t != 0, true
	case float64:
		return t != 0, true
	case numberLike:
		return t.String() != "0", true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true":
			return true, true
		case "0", "false", "":
			return false, true
		}
	}
	return false, false
}
