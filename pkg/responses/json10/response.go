// Package json10 decodes JSON_1.0 search, navigation and suggestion
// responses.
//
// Only a document that does not decode, or whose root has the wrong shape,
// is an error (apierrors.ErrMalformedResponse). Individual fields degrade to
// nil, or to their documented default, when they are missing or malformed.
package json10

import (
	"errors"

	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/extract"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/ordered"
)

// Format names the output adapter this package decodes.
const Format = definitions.OutputAdapterJSON10

// MaxDepth caps how many filter value levels are built.
const MaxDepth = 64

type Response struct {
	Request Request
	Result  Result
}

// Request echoes the parameters the service resolved.
type Request struct {
	Query     *string
	First     *int
	Count     *int
	ServiceID *string
	UserGroup *string
	Order     *Order
}

type Order struct {
	Field          *string
	RelevanceBased *bool
	Direction      *string
}

type Result struct {
	Metadata Metadata
	Items    []Item
	Variant  *Variant
	Filters  Filters
}

type Metadata struct {
	LandingPage    *LandingPage
	Promotion      *Promotion
	SearchConcept  *string
	TotalResults   int
	CurrencySymbol string
}

type LandingPage struct {
	Link string
}

type Promotion struct {
	Link     string
	ImageURL string
}

type Variant struct {
	Name            *string
	CorrectedQuery  *string
	ImprovedQuery   *string
	DidYouMeanQuery *string
}

type Item struct {
	ID                  string
	Score               *float64
	URL                 *string
	Name                *string
	Ordernumbers        []string
	MatchingOrdernumber *string
	Price               *float64
	Summary             *string
	ImageURL            *string
	Properties          map[string]string
	Attributes          map[string][]string
}

type Filters struct {
	Main  []Filter
	Other []Filter
}

// All returns main filters followed by other filters.
func (f Filters) All() []Filter {
	out := make([]Filter, 0, len(f.Main)+len(f.Other))
	out = append(out, f.Main...)
	return append(out, f.Other...)
}

type Filter struct {
	Name                 string
	DisplayName          *string
	SelectMode           *string
	Type                 *string
	CSSClass             *string
	CombinationOperation *string
	Unit                 *string
	Step                 *float64
	TotalRange           *Range
	SelectedRange        *Range
	Values               *ValueMap
}

type Range struct {
	Min *float64
	Max *float64
}

// FilterValue is a selectable filter entry. Category filters nest values.
type FilterValue struct {
	Name      string
	Selected  bool
	Weight    *float64
	Frequency *int
	ImageURL  *string
	ColorHex  *string
	Values    *ordered.Map[*FilterValue]
}

// ValueMap maps filter value names to values in document order. A repeated
// name replaces the earlier value.
type ValueMap = ordered.Map[*FilterValue]

// WalkValues visits every value below m depth first, parents before
// children.
func WalkValues(m *ValueMap, fn func(path []string, v *FilterValue) bool) {
	ordered.Walk(m, func(v *FilterValue) *ValueMap { return v.Values }, fn)
}

// Parse decodes a JSON_1.0 search or navigation response. The root must be
// an object.
func Parse(data []byte) (*Response, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, malformed(err)
	}
	root, ok := object(doc)
	if !ok {
		return nil, malformed(errors.New("root is not an object"))
	}
	return responseFromMap(root), nil
}

func responseFromMap(root extract.Map) *Response {
	r := &Response{}
	if req, ok := field(root, "request"); ok {
		r.Request = requestFromMap(req)
	}
	res, _ := field(root, "result")
	r.Result = resultFromMap(res)
	return r
}

func requestFromMap(m extract.Map) Request {
	r := Request{
		Query:     extract.String(m, "query"),
		First:     extract.Int(m, "first", extract.Strict),
		Count:     extract.Int(m, "count", extract.Strict),
		ServiceID: extract.String(m, "serviceId"),
		UserGroup: extract.String(m, "usergroup"),
	}
	if o, ok := field(m, "order"); ok {
		r.Order = &Order{
			Field:          extract.String(o, "field"),
			RelevanceBased: extract.Bool(o, "relevanceBased"),
			Direction:      extract.String(o, "direction"),
		}
	}
	return r
}

func resultFromMap(m extract.Map) Result {
	meta, _ := field(m, "metadata")
	r := Result{Metadata: metadataFromMap(meta)}
	for _, raw := range list(m, "items") {
		if obj, ok := object(raw); ok {
			r.Items = append(r.Items, itemFromMap(obj))
		}
	}
	if v, ok := field(m, "variant"); ok {
		r.Variant = &Variant{
			Name:            extract.String(v, "name"),
			CorrectedQuery:  extract.String(v, "correctedQuery"),
			ImprovedQuery:   extract.String(v, "improvedQuery"),
			DidYouMeanQuery: extract.String(v, "didYouMeanQuery"),
		}
	}
	if f, ok := field(m, "filters"); ok {
		r.Filters.Main = filtersFromList(list(f, "main"))
		r.Filters.Other = filtersFromList(list(f, "other"))
	}
	return r
}

func metadataFromMap(m extract.Map) Metadata {
	md := Metadata{
		SearchConcept:  extract.String(m, "searchConcept"),
		TotalResults:   extract.IntOr(m, "totalResults", extract.Strict, 0),
		CurrencySymbol: extract.StringOr(m, "currencySymbol", definitions.DefaultCurrency),
	}
	if lp, ok := field(m, "landingpage"); ok {
		md.LandingPage = &LandingPage{Link: extract.StringOr(lp, "link", "")}
	}
	if p, ok := field(m, "promotion"); ok {
		md.Promotion = &Promotion{
			Link:     extract.StringOr(p, "link", ""),
			ImageURL: extract.StringOr(p, "imageUrl", ""),
		}
	}
	return md
}

func itemFromMap(m extract.Map) Item {
	it := Item{
		ID:                  extract.StringOr(m, "id", ""),
		Score:               extract.Float(m, "score"),
		URL:                 extract.String(m, "url"),
		Name:                extract.String(m, "name"),
		Ordernumbers:        stringList(m, "ordernumbers"),
		MatchingOrdernumber: extract.String(m, "matchingOrdernumber"),
		Price:               extract.Float(m, "price"),
		Summary:             extract.String(m, "summary"),
		ImageURL:            extract.String(m, "imageUrl"),
		Properties:          stringMap(m, "properties"),
	}
	if attrs, ok := field(m, "attributes"); ok {
		it.Attributes = make(map[string][]string, len(attrs))
		for name := range attrs {
			it.Attributes[name] = stringList(attrs, name)
		}
	}
	return it
}

func filtersFromList(raw []any) []Filter {
	var out []Filter
	for _, v := range raw {
		if obj, ok := object(v); ok {
			out = append(out, filterFromMap(obj))
		}
	}
	return out
}

func filterFromMap(m extract.Map) Filter {
	return Filter{
		Name:                 extract.StringOr(m, "name", ""),
		DisplayName:          extract.String(m, "displayName"),
		SelectMode:           extract.String(m, "selectMode"),
		Type:                 extract.String(m, "type"),
		CSSClass:             extract.String(m, "cssClass"),
		CombinationOperation: extract.String(m, "combinationOperation"),
		Unit:                 extract.String(m, "unit"),
		Step:                 extract.Float(m, "step"),
		TotalRange:           rangeFromMap(m, "totalRange"),
		SelectedRange:        rangeFromMap(m, "selectedRange"),
		Values:               valuesFromList(list(m, "values"), 1),
	}
}

func rangeFromMap(m extract.Map, key string) *Range {
	r, ok := field(m, key)
	if !ok {
		return nil
	}
	return &Range{Min: extract.Float(r, "min"), Max: extract.Float(r, "max")}
}

func valuesFromList(raw []any, depth int) *ValueMap {
	out := ordered.New[*FilterValue]()
	if depth > MaxDepth {
		return out
	}
	for _, v := range raw {
		obj, ok := object(v)
		if !ok {
			continue
		}
		fv := valueFromMap(obj, depth)
		out.Put(fv.Name, fv)
	}
	return out
}

func valueFromMap(m extract.Map, depth int) *FilterValue {
	fv := &FilterValue{
		Name:      extract.StringOr(m, "name", ""),
		Weight:    extract.Float(m, "weight"),
		Frequency: extract.Int(m, "frequency", extract.Lenient),
		ImageURL:  extract.String(m, "imageUrl"),
		ColorHex:  extract.String(m, "colorHexCode"),
		Values:    valuesFromList(list(m, "values"), depth+1),
	}
	if sel := extract.Bool(m, "selected"); sel != nil {
		fv.Selected = *sel
	}
	return fv
}
