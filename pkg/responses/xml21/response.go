// Package xml21 decodes XML_2.1 search and navigation responses into a
// read-only object graph.
//
// A document that is not well-formed XML, or an HTML error page, fails with
// apierrors.ErrMalformedResponse. Inside a well-formed document a malformed
// field only degrades to nil or its documented default.
package xml21

import (
	"errors"
	"strings"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/extract"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/ordered"
)

// Format names the output adapter this package decodes.
const Format = definitions.OutputAdapterXML21

// MaxDepth caps how many item levels are built. Deeper subtrees are dropped.
const MaxDepth = 64

// htmlRoot marks an error page served in place of a result document.
const htmlRoot = "html"

type Response struct {
	Servers     *Servers
	Query       *Query
	LandingPage *LandingPage
	Promotion   *Promotion
	Results     Results
	Products    []Product
	Filters     Filters
}

type Servers struct {
	Frontend *string
	Backend  *string
}

type Query struct {
	Limit           *Limit
	QueryString     *QueryString
	DidYouMeanQuery *string
	OriginalQuery   *OriginalQuery
}

type Limit struct {
	First *int
	Count *int
}

// QueryString is the query the service actually searched for. Type is
// "corrected" or "improved" when the service rewrote the user's input.
type QueryString struct {
	Value string
	Type  *string
}

type OriginalQuery struct {
	Value         string
	AllowOverride bool
}

type LandingPage struct {
	Link string
}

type Promotion struct {
	Image string
	Link  string
}

type Results struct {
	Count int
}

type Product struct {
	ID         string
	Relevance  *float64
	Direct     bool
	Properties []Property
}

// Property returns the value of the named product property.
func (p Product) Property(name string) (string, bool) {
	for _, prop := range p.Properties {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

type Property struct {
	Name  string
	Value string
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
	Name       string
	Display    *string
	Select     *string
	Type       *string
	Attributes *FilterAttributes
	Items      *ItemMap
}

type FilterAttributes struct {
	SelectedRange *Range
	TotalRange    *Range
	Step          *float64
	Unit          *string
}

type Range struct {
	Min *float64
	Max *float64
}

// Item is a filter value or category node. Children are keyed by name.
type Item struct {
	Name       string
	Weight     *float64
	Frequency  *int
	Image      *string
	Color      *string
	Selected   bool
	Parameters *Range
	Items      *ordered.Map[*Item]
}

// Parse decodes an XML_2.1 document. Any root element is accepted; sections
// the document lacks stay nil or at their defaults. An <html> root is an
// error page and is rejected.
func Parse(data []byte) (*Response, error) {
	root, err := decodeTree(data)
	if err != nil {
		return nil, &apierrors.MalformedResponseError{Format: Format, Cause: err}
	}
	if strings.EqualFold(root.name, htmlRoot) {
		return nil, &apierrors.MalformedResponseError{Format: Format, Cause: errHTMLDocument}
	}
	return responseFromNode(root), nil
}

var errHTMLDocument = errors.New("html document")

func responseFromNode(n *node) *Response {
	r := &Response{
		Servers:     serversFromNode(n.child("servers")),
		Query:       queryFromNode(n.child("query")),
		LandingPage: landingPageFromNode(n.child("landingPage")),
		Promotion:   promotionFromNode(n.child("promotion")),
	}
	if results := n.child("results"); results != nil {
		r.Results.Count = extract.IntOr(elems{results}, "count", extract.Strict, 0)
	}
	for _, p := range n.child("products").childrenNamed("product") {
		r.Products = append(r.Products, productFromNode(p))
	}
	if filters := n.child("filters"); filters != nil {
		r.Filters.Main = filtersFromNode(filters.child("main"))
		r.Filters.Other = filtersFromNode(filters.child("other"))
	}
	return r
}

func serversFromNode(n *node) *Servers {
	if n == nil {
		return nil
	}
	return &Servers{
		Frontend: extract.String(elems{n}, "frontend"),
		Backend:  extract.String(elems{n}, "backend"),
	}
}

func queryFromNode(n *node) *Query {
	if n == nil {
		return nil
	}
	q := &Query{DidYouMeanQuery: extract.String(elems{n}, "didYouMeanQuery")}
	if l := n.child("limit"); l != nil {
		q.Limit = &Limit{
			First: extract.Int(attrs{l}, "first", extract.Strict),
			Count: extract.Int(attrs{l}, "count", extract.Strict),
		}
	}
	if qs := n.child("queryString"); qs != nil {
		q.QueryString = &QueryString{Value: qs.text, Type: extract.String(attrs{qs}, "type")}
	}
	if oq := n.child("originalQuery"); oq != nil {
		allow := extract.Bool(attrs{oq}, "allow-override")
		q.OriginalQuery = &OriginalQuery{Value: oq.text, AllowOverride: allow != nil && *allow}
	}
	return q
}

func landingPageFromNode(n *node) *LandingPage {
	if !n.structured() {
		return nil
	}
	link := extract.StringOr(attrs{n}, "link", extract.StringOr(elems{n}, "link", ""))
	return &LandingPage{Link: link}
}

func promotionFromNode(n *node) *Promotion {
	if !n.structured() {
		return nil
	}
	return &Promotion{
		Image: extract.StringOr(attrs{n}, "image", extract.StringOr(elems{n}, "image", "")),
		Link:  extract.StringOr(attrs{n}, "link", extract.StringOr(elems{n}, "link", "")),
	}
}

func productFromNode(n *node) Product {
	p := Product{
		ID:        extract.StringOr(attrs{n}, "id", ""),
		Relevance: extract.Float(attrs{n}, "relevance"),
	}
	if direct := extract.Bool(attrs{n}, "direct"); direct != nil {
		p.Direct = *direct
	}
	for _, prop := range n.child("properties").childrenNamed("property") {
		p.Properties = append(p.Properties, Property{
			Name:  extract.StringOr(attrs{prop}, "name", ""),
			Value: prop.text,
		})
	}
	return p
}

func filtersFromNode(n *node) []Filter {
	var out []Filter
	for _, f := range n.childrenNamed("filter") {
		out = append(out, filterFromNode(f))
	}
	return out
}

func filterFromNode(n *node) Filter {
	e := elems{n}
	f := Filter{
		Name:    extract.StringOr(e, "name", ""),
		Display: extract.String(e, "display"),
		Select:  extract.String(e, "select"),
		Type:    extract.String(e, "type"),
		Items:   itemsFromNode(n.child("items"), 1),
	}
	if a := n.child("attributes"); a.structured() {
		f.Attributes = &FilterAttributes{
			SelectedRange: rangeFromNode(a.child("selectedRange")),
			TotalRange:    rangeFromNode(a.child("totalRange")),
			Step:          extract.Float(elems{a}, "stepSize"),
			Unit:          extract.String(elems{a}, "unit"),
		}
	}
	return f
}

func rangeFromNode(n *node) *Range {
	if !n.structured() {
		return nil
	}
	return &Range{
		Min: extract.Float(elems{n}, "min"),
		Max: extract.Float(elems{n}, "max"),
	}
}

// itemsFromNode builds the children of an <items> element. depth is the
// level the built items will sit at.
func itemsFromNode(n *node, depth int) *ItemMap {
	m := ordered.New[*Item]()
	if n == nil || depth > MaxDepth {
		return m
	}
	for _, c := range n.childrenNamed("item") {
		it := itemFromNode(c, depth)
		m.Put(it.Name, it)
	}
	return m
}

func itemFromNode(n *node, depth int) *Item {
	e := elems{n}
	it := &Item{
		Name:       extract.StringOr(e, "name", ""),
		Weight:     extract.Float(e, "weight"),
		Frequency:  extract.Int(e, "frequency", extract.Lenient),
		Image:      extract.String(e, "image"),
		Color:      extract.String(e, "color"),
		Parameters: rangeFromNode(n.child("parameters")),
		Items:      itemsFromNode(n.child("items"), depth+1),
	}
	if sel := extract.Bool(attrs{n}, "selected"); sel != nil {
		it.Selected = *sel
	}
	return it
}
