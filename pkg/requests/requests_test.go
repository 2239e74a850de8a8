package requests

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/params"
)

const testShopkey = "ABCDEF0123456789ABCDEF0123456789"

func TestRequiredParameters(t *testing.T) {
	cases := []struct {
		name     string
		req      Request
		required []string
	}{
		{name: "search", req: NewSearchRequest(), required: []string{"userip", "revision"}},
		{name: "navigation", req: NewNavigationRequest(), required: []string{"userip", "revision"}},
		{name: "suggestion", req: NewSuggestionRequest(), required: []string{"userip", "revision", "query"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.required, tc.req.Params().Required())
			assert.False(t, tc.req.Params().AllRequiredPresent())
			assert.Equal(t, definitions.MethodGet, tc.req.Method())
		})
	}
}

func TestSetUserIP(t *testing.T) {
	req := NewSearchRequest()

	err := req.SetUserIP("not-an-ip")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierrors.ErrInvalidParameter))
	var ipe *apierrors.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "userip", ipe.Param)
	assert.False(t, req.Params().Has("userip"), "rejected value must not be stored")

	require.NoError(t, req.SetUserIP("127.0.0.1"))
	v, ok := req.Params().Get("userip")
	require.True(t, ok)
	assert.Equal(t, "127.0.0.1", v.Scalar())

	require.NoError(t, req.SetUserIP("::1"))
}

func TestAddAttributeIsAdditive(t *testing.T) {
	req := NewSearchRequest()
	require.NoError(t, req.AddAttribute("color", "red", ""))
	require.NoError(t, req.AddAttribute("color", "blue", ""))

	attrib, ok := req.Params().Get("attrib")
	require.True(t, ok)
	color, ok := attrib.Field("color")
	require.True(t, ok)
	assert.Equal(t, []string{"red", "blue"}, color.Strings())
}

func TestAddAttributeRangeSpecifier(t *testing.T) {
	req := NewNavigationRequest()
	require.NoError(t, req.AddAttribute("price", 10, "min"))
	require.NoError(t, req.AddAttribute("price", 99.5, "max"))

	got := req.Params().Encode()
	assert.Equal(t, "attrib%5Bprice%5D%5Bmin%5D=10&attrib%5Bprice%5D%5Bmax%5D=99.5", got)
}

func TestAddAttributeRejectsInvalid(t *testing.T) {
	req := NewSearchRequest()
	assert.ErrorIs(t, req.AddAttribute("", "red", ""), apierrors.ErrInvalidParameter)
	assert.ErrorIs(t, req.AddAttribute("color", true, ""), apierrors.ErrInvalidParameter)
	assert.ErrorIs(t, req.AddAttribute("color", []string{"red"}, ""), apierrors.ErrInvalidParameter)
	assert.False(t, req.Params().Has("attrib"))
}

func TestBracketedNamesRejected(t *testing.T) {
	req := NewNavigationRequest()
	assert.ErrorIs(t, req.AddAttribute("size]eu", 42, ""), apierrors.ErrInvalidParameter)
	assert.ErrorIs(t, req.AddAttribute("size[eu", 42, ""), apierrors.ErrInvalidParameter)
	assert.ErrorIs(t, req.AddAttribute("price", 10, "min]"), apierrors.ErrInvalidParameter)
	assert.ErrorIs(t, req.AddPushAttrib("vendor[x]", "acme", 1), apierrors.ErrInvalidParameter)
	assert.ErrorIs(t, req.AddPushAttrib("vendor", "ac]me", 1), apierrors.ErrInvalidParameter)
	assert.ErrorIs(t, req.SetSelected("cat]", "Shoes"), apierrors.ErrInvalidParameter)
	assert.False(t, req.Params().Has("attrib"))
	assert.False(t, req.Params().Has("pushAttrib"))
	assert.False(t, req.Params().Has("selected"))

	// Brackets in values are encoded safely and survive a round trip.
	require.NoError(t, req.AddAttribute("size", "eu]42[", ""))
	decoded, err := params.Decode(req.Params().Encode())
	require.NoError(t, err)
	assert.Equal(t, req.Params().Encode(), decoded.Encode())
}

func TestFreeFormSetters(t *testing.T) {
	req := NewSearchRequest()
	req.AddProperty("")
	req.AddOutputAttrib(" ")
	req.SetIdentifier("")

	for _, name := range []string{"properties", "outputAttrib", "identifier"} {
		assert.True(t, req.Params().Has(name), name)
	}
	v, _ := req.Params().Get("identifier")
	assert.Equal(t, "", v.String())
}

func TestSetFirst(t *testing.T) {
	req := NewSearchRequest()

	err := req.SetFirst(-1)
	var ipe *apierrors.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "first", ipe.Param)
	assert.False(t, req.Params().Has("first"))

	require.NoError(t, req.SetFirst(0))
	v, ok := req.Params().Get("first")
	require.True(t, ok)
	assert.Equal(t, "0", v.String())
}

func TestSetterValidation(t *testing.T) {
	req := NewSearchRequest()

	cases := []struct {
		name  string
		call  func() error
		param string
		ok    bool
	}{
		{name: "referer http", call: func() error { return req.SetReferer("https://shop.example/list") }, param: "referer", ok: true},
		{name: "referer www", call: func() error { return req.SetReferer("www.shop.example") }, param: "referer", ok: true},
		{name: "referer bad", call: func() error { return req.SetReferer("ftp://shop.example") }, param: "referer"},
		{name: "revision", call: func() error { return req.SetRevision("2.5.1") }, param: "revision", ok: true},
		{name: "revision bad", call: func() error { return req.SetRevision("v2") }, param: "revision"},
		{name: "order", call: func() error { return req.SetOrder(definitions.OrderPriceAsc) }, param: "order", ok: true},
		{name: "order bad", call: func() error { return req.SetOrder("random") }, param: "order"},
		{name: "count", call: func() error { return req.SetCount(24) }, param: "count", ok: true},
		{name: "count bad", call: func() error { return req.SetCount(-5) }, param: "count"},
		{name: "shopurl", call: func() error { return req.SetShopURL("https://shop.example") }, param: "shopurl", ok: true},
		{name: "shopurl bad", call: func() error { return req.SetShopURL("www.shop.example") }, param: "shopurl"},
		{name: "adapter", call: func() error { return req.SetOutputAdapter(definitions.OutputAdapterJSON10) }, param: "outputAdapter", ok: true},
		{name: "adapter bad", call: func() error { return req.SetOutputAdapter("HTML_3.0") }, param: "outputAdapter"},
		{name: "push", call: func() error { return req.AddPushAttrib("vendor", "acme", 2.5) }, param: "pushAttrib", ok: true},
		{name: "push bad", call: func() error { return req.AddPushAttrib("", "acme", 2.5) }, param: "pushAttrib"},
		{name: "group", call: func() error { return req.AddGroup("retail") }, param: "group", ok: true},
		{name: "usergrouphash bad", call: func() error { return req.SetUserGroupHash("") }, param: "usergrouphash"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if tc.ok {
				require.NoError(t, err)
				assert.True(t, req.Params().Has(tc.param))
				return
			}
			var ipe *apierrors.InvalidParameterError
			require.ErrorAs(t, err, &ipe)
			assert.Equal(t, tc.param, ipe.Param)
			assert.NotContains(t, err.Error(), "ftp://")
		})
	}
}

func TestOutputAdapterDefaults(t *testing.T) {
	search := NewSearchRequest()
	assert.Equal(t, definitions.OutputAdapterXML21, search.OutputAdapter())
	require.NoError(t, search.SetOutputAdapter(definitions.OutputAdapterJSON10))
	assert.Equal(t, definitions.OutputAdapterJSON10, search.OutputAdapter())

	assert.Equal(t, definitions.OutputAdapterJSON10, NewSuggestionRequest().OutputAdapter())
}

func TestBodyUnsupported(t *testing.T) {
	for _, req := range []Request{NewSearchRequest(), NewNavigationRequest(), NewSuggestionRequest()} {
		_, err := req.Body()
		assert.ErrorIs(t, err, apierrors.ErrBodyUnsupported)
	}
}

func TestNavigationSetSelected(t *testing.T) {
	req := NewNavigationRequest()
	require.NoError(t, req.SetSelected("cat", "Shoes_Sneakers"))
	require.NoError(t, req.SetSelected("cat", "Shoes_Boots"))
	assert.ErrorIs(t, req.SetSelected("", "x"), apierrors.ErrInvalidParameter)

	got := req.Params().Encode()
	assert.Equal(t, "selected%5Bcat%5D%5B%5D=Shoes_Sneakers&selected%5Bcat%5D%5B%5D=Shoes_Boots", got)
}

func TestSuggestionSetters(t *testing.T) {
	req := NewSuggestionRequest()
	req.SetQuery("sne")
	require.NoError(t, req.SetAutocompleteBlocks(definitions.BlockSuggest, definitions.BlockProduct, definitions.BlockSuggest))
	require.NoError(t, req.SetMultishopID(0))

	v, _ := req.Params().Get("autocompleteblocks")
	assert.Equal(t, "suggest,product", v.String())

	assert.ErrorIs(t, req.SetAutocompleteBlocks(), apierrors.ErrInvalidParameter)
	assert.ErrorIs(t, req.SetAutocompleteBlocks("suggest", "everything"), apierrors.ErrInvalidParameter)
	v, _ = req.Params().Get("autocompleteblocks")
	assert.Equal(t, "suggest,product", v.String(), "rejected call must not mutate")
	assert.ErrorIs(t, req.SetMultishopID(-1), apierrors.ErrInvalidParameter)
}

func TestBuildURL(t *testing.T) {
	req := NewSearchRequest()
	require.NoError(t, req.SetUserIP("127.0.0.1"))
	require.NoError(t, req.SetRevision("1.0.0"))
	req.SetQuery("red shoes")
	req.AddProperty("ordernumber")
	req.SetForceOriginalQuery()

	raw, err := req.BuildURL("https://service.example/ps", testShopkey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "https://service.example/ps/index.php?shopkey="+testShopkey+"&userip=127.0.0.1"), raw)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "red shoes", q.Get("query"))
	assert.Equal(t, []string{"ordernumber"}, q["properties[]"])
	assert.Equal(t, "1", q.Get("forceOriginalQuery"))

	decoded, err := params.Decode(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, testShopkey, mustGet(t, decoded, "shopkey").String())
	for _, e := range req.Params().All() {
		assert.Equal(t, e.Value.Strings(), mustGet(t, decoded, e.Name).Strings(), e.Name)
	}
}

func TestEndpointURLDefaults(t *testing.T) {
	raw, err := EndpointURL(nil, "", definitions.EndpointAlivetest, testShopkey)
	require.NoError(t, err)
	assert.Equal(t, definitions.DefaultAPIURL+"alivetest.php?shopkey="+testShopkey, raw)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "search", KindSearch.String())
	assert.Equal(t, "navigation", KindNavigation.String())
	assert.Equal(t, "suggestion", KindSuggestion.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func mustGet(t *testing.T, s *params.Store, name string) *params.Value {
	t.Helper()
	v, ok := s.Get(name)
	require.True(t, ok, name)
	return v
}
