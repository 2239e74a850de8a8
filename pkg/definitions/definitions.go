// Package definitions holds the read-only names and sentinel values shared by
// the request builders, the dispatcher and the response parsers.
package definitions

import "sort"

// Query parameter names understood by the search service.
const (
	ParamShopkey            = "shopkey"
	ParamShopURL            = "shopurl"
	ParamUserIP             = "userip"
	ParamReferer            = "referer"
	ParamRevision           = "revision"
	ParamQuery              = "query"
	ParamAttrib             = "attrib"
	ParamOrder              = "order"
	ParamProperties         = "properties"
	ParamPushAttrib         = "pushAttrib"
	ParamFirst              = "first"
	ParamCount              = "count"
	ParamIdentifier         = "identifier"
	ParamGroup              = "group"
	ParamUserGroupHash      = "usergrouphash"
	ParamOutputAttrib       = "outputAttrib"
	ParamOutputAdapter      = "outputAdapter"
	ParamForceOriginalQuery = "forceOriginalQuery"
	ParamSelected           = "selected"
)

// Suggestion-only query parameters.
const (
	ParamAutocompleteBlocks = "autocompleteblocks"
	ParamMultishopID        = "multishop_id"
)

// Sort keys accepted by the order parameter.
const (
	OrderRelevance       = "rank"
	OrderPriceAsc        = "price ASC"
	OrderPriceDesc       = "price DESC"
	OrderLabelAsc        = "label ASC"
	OrderLabelDesc       = "label DESC"
	OrderTopSellers      = "salesfrequency DESC"
	OrderTopSellersDyn   = "salesfrequency dynamic DESC"
	OrderNewestFirst     = "dateadded DESC"
	OrderNewestFirstDyn  = "dateadded dynamic DESC"
	OrderShopSortDefault = "shopsort ASC"
)

var orderTypes = map[string]struct{}{
	OrderRelevance:       {},
	OrderPriceAsc:        {},
	OrderPriceDesc:       {},
	OrderLabelAsc:        {},
	OrderLabelDesc:       {},
	OrderTopSellers:      {},
	OrderTopSellersDyn:   {},
	OrderNewestFirst:     {},
	OrderNewestFirstDyn:  {},
	OrderShopSortDefault: {},
}

// IsOrderType reports whether v is one of the known sort keys.
func IsOrderType(v string) bool {
	_, ok := orderTypes[v]
	return ok
}

// OrderTypes returns the known sort keys in lexical order.
func OrderTypes() []string {
	out := make([]string, 0, len(orderTypes))
	for k := range orderTypes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Output adapters the response parsers can decode.
const (
	OutputAdapterXML21  = "XML_2.1"
	OutputAdapterJSON10 = "JSON_1.0"
)

// IsOutputAdapter reports whether v names a decodable output adapter.
func IsOutputAdapter(v string) bool {
	return v == OutputAdapterXML21 || v == OutputAdapterJSON10
}

// HTTP request methods.
const (
	MethodHead    = "HEAD"
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodPurge   = "PURGE"
	MethodOptions = "OPTIONS"
	MethodTrace   = "TRACE"
	MethodConnect = "CONNECT"
)

// Service endpoints, relative to the configured API URL.
const (
	EndpointAlivetest  = "alivetest.php"
	EndpointSearch     = "index.php"
	EndpointNavigation = "selector.php"
	EndpointSuggestion = "autocomplete.php"
)

// Defaults and sentinels.
const (
	DefaultAPIURL           = "https://service.findologic.com/ps/"
	DefaultCurrency         = "€"
	DefaultRevision         = "1.0.0"
	ServiceAliveBody        = "alive"
	StatusOK                = 200
	ForceOriginalQueryValue = 1
)

// Autocomplete blocks a suggestion request may ask for.
const (
	BlockSuggest     = "suggest"
	BlockCategory    = "cat"
	BlockVendor      = "vendor"
	BlockOrdernumber = "ordernumber"
	BlockProduct     = "product"
	BlockPromotion   = "promotion"
	BlockLandingPage = "landingpage"
)

var autocompleteBlocks = map[string]struct{}{
	BlockSuggest:     {},
	BlockCategory:    {},
	BlockVendor:      {},
	BlockOrdernumber: {},
	BlockProduct:     {},
	BlockPromotion:   {},
	BlockLandingPage: {},
}

// IsAutocompleteBlock reports whether v is a known autocomplete block.
func IsAutocompleteBlock(v string) bool {
	_, ok := autocompleteBlocks[v]
	return ok
}
