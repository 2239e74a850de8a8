package requests

import (
	"fmt"
	"strings"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/params"
	"github.com/r9s-ai/findologic-api-go/pkg/validation"
)

// searchNavigation holds the setters search and navigation share.
type searchNavigation struct {
	common
}

func newSearchNavigation(kind Kind, endpoint string) searchNavigation {
	return searchNavigation{common: newCommon(kind, endpoint, definitions.ParamUserIP, definitions.ParamRevision)}
}

// validKey reports whether name can be a bracketed query key. Names holding
// '[' or ']' would not decode back into the same nesting.
func validKey(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.ContainsAny(name, "[]")
}

// AddAttribute filters results by attribute. Calls are additive: adding
// color=red and then color=blue keeps both. specifier is used for range
// filters such as price ("min"/"max") and is empty otherwise.
func (r *searchNavigation) AddAttribute(filter string, value any, specifier string) error {
	if !validKey(filter) || (specifier != "" && !validKey(specifier)) ||
		!validation.Check(validation.RuleStringOrNumeric, definitions.ParamAttrib, value) {
		return apierrors.InvalidParameter(definitions.ParamAttrib)
	}
	var inner *params.Value
	if specifier == "" {
		inner = params.List(value)
	} else {
		inner = params.MapOf(specifier, value)
	}
	r.store.Add(definitions.ParamAttrib, params.MapOf(filter, inner))
	return nil
}

// SetOrder sets the sort order. Use one of the definitions.Order* values.
func (r *searchNavigation) SetOrder(order string) error {
	return r.setChecked(validation.RuleIsOrderParam, definitions.ParamOrder, order)
}

// AddProperty asks the service to return an additional exported column.
func (r *searchNavigation) AddProperty(property string) {
	r.store.Add(definitions.ParamProperties, params.List(property))
}

// AddPushAttrib boosts products whose attribute key has the given value by
// factor.
func (r *searchNavigation) AddPushAttrib(key string, value any, factor float64) error {
	if !validKey(key) || !validation.Check(validation.RuleStringOrNumeric, definitions.ParamPushAttrib, value) {
		return apierrors.InvalidParameter(definitions.ParamPushAttrib)
	}
	sv := fmt.Sprint(value)
	if !validKey(sv) {
		return apierrors.InvalidParameter(definitions.ParamPushAttrib)
	}
	r.store.Add(definitions.ParamPushAttrib, params.MapOf(key, params.MapOf(sv, factor)))
	return nil
}

// SetFirst sets the zero-based offset of the first product.
func (r *searchNavigation) SetFirst(first int) error {
	return r.setChecked(validation.RuleEqualOrHigherThanZero, definitions.ParamFirst, first)
}

// SetCount sets the page size.
func (r *searchNavigation) SetCount(count int) error {
	return r.setChecked(validation.RuleEqualOrHigherThanZero, definitions.ParamCount, count)
}

// SetIdentifier limits the result to one product id. The query is ignored
// by the service while it is set.
func (r *searchNavigation) SetIdentifier(id string) {
	r.store.Set(definitions.ParamIdentifier, params.Scalar(id))
}

// AddOutputAttrib names an attribute the response should carry.
func (r *searchNavigation) AddOutputAttrib(attrib string) {
	r.store.Add(definitions.ParamOutputAttrib, params.List(attrib))
}

// SetForceOriginalQuery disables did-you-mean rewriting of the query.
func (r *searchNavigation) SetForceOriginalQuery() {
	r.store.Set(definitions.ParamForceOriginalQuery, params.Scalar(definitions.ForceOriginalQueryValue))
}

// SetOutputAdapter selects XML_2.1 (the default) or JSON_1.0.
func (r *searchNavigation) SetOutputAdapter(adapter string) error {
	return r.setChecked(validation.RuleIsOutputAdapter, definitions.ParamOutputAdapter, adapter)
}

// SearchRequest queries index.php.
type SearchRequest struct {
	searchNavigation
}

// NewSearchRequest returns a search request requiring userip and revision.
func NewSearchRequest() *SearchRequest {
	return &SearchRequest{searchNavigation: newSearchNavigation(KindSearch, definitions.EndpointSearch)}
}

// SetQuery sets the search term. Empty queries are allowed and list all
// products.
func (r *SearchRequest) SetQuery(q string) {
	r.store.Set(definitions.ParamQuery, params.Scalar(q))
}

// NavigationRequest queries selector.php for category and filter pages.
type NavigationRequest struct {
	searchNavigation
}

// NewNavigationRequest returns a navigation request requiring userip and
// revision.
func NewNavigationRequest() *NavigationRequest {
	return &NavigationRequest{searchNavigation: newSearchNavigation(KindNavigation, definitions.EndpointNavigation)}
}

// SetSelected marks a filter value as the navigation context, e.g. the
// category being browsed. Calls are additive.
func (r *NavigationRequest) SetSelected(filter string, value any) error {
	if !validKey(filter) || !validation.Check(validation.RuleStringOrNumeric, definitions.ParamSelected, value) {
		return apierrors.InvalidParameter(definitions.ParamSelected)
	}
	r.store.Add(definitions.ParamSelected, params.MapOf(filter, params.List(value)))
	return nil
}

var (
	_ Request = (*SearchRequest)(nil)
	_ Request = (*NavigationRequest)(nil)
)
