package extract

import (
	"strconv"
	"strings"
)

type stepKind uint8

const (
	stepKey stepKind = iota
	stepIndex
	stepAll
)

type step struct {
	kind  stepKind
	key   string
	index int
}

// Path returns every value a restricted JSONPath selects from a decoded
// document. Supported forms are "$", "$.a.b", "$.items[0].x", "$.items[*].x"
// and "$[*].x" for array roots. ok is false for an unsupported path or when
// a key or index does not resolve; a wildcard over an empty array selects
// nothing and is still ok.
func Path(root any, path string) (values []any, ok bool) {
	steps, ok := parsePath(strings.TrimSpace(path))
	if !ok {
		return nil, false
	}
	frontier := []any{root}
	for _, s := range steps {
		next := frontier[:0:0]
		for _, cur := range frontier {
			switch s.kind {
			case stepKey:
				m, isMap := asMap(cur)
				if !isMap {
					continue
				}
				if v, found := m[s.key]; found {
					next = append(next, v)
				}
			case stepIndex:
				if arr, isArr := cur.([]any); isArr && s.index >= 0 && s.index < len(arr) {
					next = append(next, arr[s.index])
				}
			case stepAll:
				if arr, isArr := cur.([]any); isArr {
					next = append(next, arr...)
				}
			}
		}
		if len(next) == 0 && s.kind != stepAll {
			return nil, false
		}
		frontier = next
	}
	return frontier, true
}

func parsePath(p string) ([]step, bool) {
	if !strings.HasPrefix(p, "$") {
		return nil, false
	}
	p = p[1:]
	var steps []step
	for p != "" {
		switch p[0] {
		case '.':
			end := strings.IndexAny(p[1:], ".[")
			if end < 0 {
				end = len(p) - 1
			}
			key := strings.TrimSpace(p[1 : end+1])
			if key == "" {
				return nil, false
			}
			steps = append(steps, step{kind: stepKey, key: key})
			p = p[end+1:]
		case '[':
			end := strings.IndexByte(p, ']')
			if end < 0 {
				return nil, false
			}
			inner := strings.TrimSpace(p[1:end])
			if inner == "*" {
				steps = append(steps, step{kind: stepAll})
			} else {
				n, err := strconv.Atoi(inner)
				if err != nil {
					return nil, false
				}
				steps = append(steps, step{kind: stepIndex, index: n})
			}
			p = p[end+1:]
		default:
			return nil, false
		}
	}
	return steps, true
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Map:
		return t, true
	}
	return nil, false
}
