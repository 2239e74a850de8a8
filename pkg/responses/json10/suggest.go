package json10

import (
	"errors"

	"github.com/r9s-ai/findologic-api-go/pkg/responses/extract"
)

// SuggestResponse is the list of suggestions returned by autocomplete.php.
type SuggestResponse struct {
	Suggestions []Suggestion
}

// Blocks groups suggestions by block, keeping the order in which blocks first
// appear.
func (r *SuggestResponse) Blocks() ([]string, map[string][]Suggestion) {
	var order []string
	groups := map[string][]Suggestion{}
	for _, s := range r.Suggestions {
		if _, ok := groups[s.Block]; !ok {
			order = append(order, s.Block)
		}
		groups[s.Block] = append(groups[s.Block], s)
	}
	return order, groups
}

type Suggestion struct {
	Label         string
	Block         string
	Frequency     *int
	ImageURL      *string
	Price         *float64
	Identifier    *string
	BasePrice     *string
	BasePriceUnit *string
	URL           *string
	Ordernumber   *string
}

// ParseSuggest decodes a suggestion response. The root must be an array.
func ParseSuggest(data []byte) (*SuggestResponse, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, malformed(err)
	}
	arr, ok := doc.([]any)
	if !ok {
		return nil, malformed(errors.New("root is not an array"))
	}
	resp := &SuggestResponse{Suggestions: make([]Suggestion, 0, len(arr))}
	for _, raw := range arr {
		if obj, ok := object(raw); ok {
			resp.Suggestions = append(resp.Suggestions, suggestionFromMap(obj))
		}
	}
	return resp, nil
}

func suggestionFromMap(m extract.Map) Suggestion {
	return Suggestion{
		Label:         extract.StringOr(m, "label", ""),
		Block:         extract.StringOr(m, "block", ""),
		Frequency:     extract.Int(m, "frequency", extract.Lenient),
		ImageURL:      nonEmpty(extract.String(m, "imageUrl")),
		Price:         extract.Float(m, "price"),
		Identifier:    nonEmpty(extract.String(m, "identifier")),
		BasePrice:     nonEmpty(extract.String(m, "basePrice")),
		BasePriceUnit: nonEmpty(extract.String(m, "basePriceUnit")),
		URL:           nonEmpty(extract.String(m, "url")),
		Ordernumber:   nonEmpty(extract.String(m, "ordernumber")),
	}
}

// nonEmpty maps "" to nil; the service sends empty strings for unset
// suggestion fields.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
