package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/extract"
)

type outputFlags struct {
	json  bool
	raw   bool
	field string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.json, "json", false, "request the JSON_1.0 output adapter")
	fs.BoolVar(&f.raw, "raw", false, "print the undecoded response body")
	fs.StringVar(&f.field, "field", "", "print the values at a JSON path, e.g. $.result.items[*].name (implies --json)")
}

func (f outputFlags) adapter() string {
	if f.json || f.field != "" {
		return definitions.OutputAdapterJSON10
	}
	return definitions.OutputAdapterXML21
}

// writeField prints every value path selects from a JSON body, one per line.
// Strings are printed bare, everything else as compact JSON.
func writeField(w io.Writer, body []byte, path string) error {
	dec := gojson.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	values, ok := extract.Path(root, path)
	if !ok {
		return errors.New("field " + path + " not found")
	}
	for _, v := range values {
		if s, ok := v.(string); ok {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		b, err := gojson.Marshal(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(b)); err != nil {
			return err
		}
	}
	return nil
}
