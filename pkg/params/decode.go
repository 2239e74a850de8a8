package params

import (
	"fmt"
	"net/url"
	"strings"
)

// Decode parses a query string produced by Encode back into a store.
// Bracketed keys rebuild their nested values; scalars come back as strings.
func Decode(query string) (*Store, error) {
	s := NewStore()
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return s, nil
	}
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("decode key %q: %w", rawKey, err)
		}
		val, err := url.QueryUnescape(rawVal)
		if err != nil {
			return nil, fmt.Errorf("decode value for %q: %w", key, err)
		}
		name, path := splitKey(key)
		if name == "" {
			continue
		}
		s.Add(name, nest(path, Scalar(val)))
	}
	return s, nil
}

// splitKey splits "attrib[color][]" into "attrib" and ["color", ""].
// A key with unbalanced brackets is treated as a plain name.
func splitKey(key string) (string, []string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return key, nil
	}
	name := key[:open]
	rest := key[open:]
	var path []string
	for rest != "" {
		if rest[0] != '[' {
			return key, nil
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return key, nil
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return name, path
}

func nest(path []string, leaf *Value) *Value {
	v := leaf
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == "" {
			v = List(v)
			continue
		}
		v = MapOf(path[i], v)
	}
	return v
}
