package json10

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/extract"
)

// decodeDocument decodes a single JSON value, keeping numbers as
// json.Number so integer fields are not routed through float64.
func decodeDocument(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}
	if !gojson.Valid(data) {
		return nil, errors.New("invalid json document")
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return doc, nil
}

func malformed(cause error) error {
	return &apierrors.MalformedResponseError{Format: Format, Cause: cause}
}

// object returns v as a Source when it is a JSON object.
func object(v any) (extract.Map, bool) {
	m, ok := v.(map[string]any)
	return extract.Map(m), ok
}

// field returns the nested object under key, or false when absent or not
// an object.
func field(src extract.Map, key string) (extract.Map, bool) {
	v, ok := src.Lookup(key)
	if !ok {
		return nil, false
	}
	return object(v)
}

// list returns the array under key.
func list(src extract.Map, key string) []any {
	v, _ := src.Lookup(key)
	arr, _ := v.([]any)
	return arr
}

// stringList collects the string elements of the array under key.
func stringList(src extract.Map, key string) []string {
	var out []string
	for _, v := range list(src, key) {
		if s, ok := extract.ToString(v); ok {
			out = append(out, s)
		}
	}
	return out
}

// stringMap flattens an object of scalars into strings. Numbers keep their
// literal form; nested values are skipped.
func stringMap(src extract.Map, key string) map[string]string {
	obj, ok := field(src, key)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch t := v.(type) {
		case string:
			out[k] = t
		case gojson.Number:
			out[k] = t.String()
		case bool:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
