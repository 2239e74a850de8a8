package json10

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestParse_RequestAndMetadata(t *testing.T) {
	resp, err := Parse(readFixture(t, "search.json"))
	require.NoError(t, err)

	assert.Equal(t, "sneakers", *resp.Request.Query)
	assert.Equal(t, 0, *resp.Request.First)
	assert.Equal(t, 24, *resp.Request.Count)
	assert.Nil(t, resp.Request.UserGroup)
	require.NotNil(t, resp.Request.Order)
	assert.True(t, *resp.Request.Order.RelevanceBased)

	md := resp.Result.Metadata
	require.NotNil(t, md.LandingPage)
	assert.Equal(t, "https://shop.example/sale", md.LandingPage.Link)
	require.NotNil(t, md.Promotion)
	assert.Equal(t, "https://shop.example/promo.jpg", md.Promotion.ImageURL)
	assert.Equal(t, "sneakers", *md.SearchConcept)
	assert.Equal(t, 1808, md.TotalResults)
	assert.Equal(t, "$", md.CurrencySymbol)

	require.NotNil(t, resp.Result.Variant)
	assert.Equal(t, "sneaker", *resp.Result.Variant.ImprovedQuery)
	assert.Nil(t, resp.Result.Variant.CorrectedQuery)
}

func TestParse_MetadataDefaults(t *testing.T) {
	resp, err := Parse([]byte(`{"result":{"metadata":{"landingpage":"https://x","promotion":null,"totalResults":"many"}}}`))
	require.NoError(t, err)

	md := resp.Result.Metadata
	assert.Nil(t, md.LandingPage, "scalar landingpage is not an object")
	assert.Nil(t, md.Promotion)
	assert.Nil(t, md.SearchConcept)
	assert.Equal(t, 0, md.TotalResults)
	assert.Equal(t, definitions.DefaultCurrency, md.CurrencySymbol)

	resp, err = Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, definitions.DefaultCurrency, resp.Result.Metadata.CurrencySymbol)
	assert.Empty(t, resp.Result.Items)
}

func TestParse_Items(t *testing.T) {
	resp, err := Parse(readFixture(t, "search.json"))
	require.NoError(t, err)
	require.Len(t, resp.Result.Items, 1)

	it := resp.Result.Items[0]
	assert.Equal(t, "017", it.ID)
	assert.Equal(t, 12.5, *it.Score)
	assert.Equal(t, 79.9, *it.Price)
	assert.Equal(t, []string{"SN-017", "SN-017-B"}, it.Ordernumbers)
	assert.Nil(t, it.MatchingOrdernumber)
	assert.Equal(t, map[string]string{"stock": "12", "rating": "4.5"}, it.Properties)
	assert.Equal(t, []string{"red", "blue"}, it.Attributes["color"])
}

func TestParse_FilterValueTree(t *testing.T) {
	resp, err := Parse(readFixture(t, "search.json"))
	require.NoError(t, err)
	require.Len(t, resp.Result.Filters.Main, 1)
	cat := resp.Result.Filters.Main[0]
	assert.Equal(t, "Category", *cat.DisplayName)

	shoes, ok := cat.Values.Get("Shoes")
	require.True(t, ok)
	assert.True(t, shoes.Selected)
	assert.Equal(t, 40, *shoes.Frequency)
	assert.Equal(t, []string{"Sneakers", "Boots"}, shoes.Values.Keys())

	sneakers, _ := shoes.Values.Get("Sneakers")
	assert.Equal(t, 15, *sneakers.Frequency, "last duplicate wins")
	assert.Equal(t, 0, sneakers.Values.Len())

	shirts, _ := cat.Values.Get("Shirts")
	require.NotNil(t, shirts.Values)
	assert.Equal(t, 0, shirts.Values.Len())
	assert.Nil(t, shirts.Frequency)

	price := resp.Result.Filters.Other[0]
	assert.Equal(t, 0.5, *price.Step)
	assert.Equal(t, 349.0, *price.TotalRange.Max)
	assert.Equal(t, 80.0, *price.SelectedRange.Max)
	assert.Equal(t, 0, price.Values.Len())
	assert.Len(t, resp.Result.Filters.All(), 2)
}

func TestParse_DepthThreeAndLenientFrequency(t *testing.T) {
	doc := `{"result":{"filters":{"main":[{"name":"cat","values":[
		{"name":"A","values":[{"name":"B","values":[{"name":"C","frequency":" 7 "},{"name":"D","frequency":"n/a"}]}]}
	]}]}}}`
	resp, err := Parse([]byte(doc))
	require.NoError(t, err)

	var paths []string
	found := map[string]*FilterValue{}
	WalkValues(resp.Result.Filters.Main[0].Values, func(path []string, v *FilterValue) bool {
		paths = append(paths, strings.Join(path, "/"))
		found[v.Name] = v
		return true
	})
	assert.Equal(t, []string{"A", "A/B", "A/B/C", "A/B/D"}, paths)
	assert.Equal(t, 7, *found["C"].Frequency)
	assert.Nil(t, found["D"].Frequency)
}

func TestParse_DepthCap(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"result":{"filters":{"main":[{"name":"deep","values":`)
	levels := MaxDepth + 3
	for i := 0; i < levels; i++ {
		b.WriteString(`[{"name":"n","values":`)
	}
	b.WriteString(`[]`)
	for i := 0; i < levels; i++ {
		b.WriteString(`}]`)
	}
	b.WriteString(`}]}}}`)

	resp, err := Parse([]byte(b.String()))
	require.NoError(t, err)
	depth := 0
	WalkValues(resp.Result.Filters.Main[0].Values, func(path []string, _ *FilterValue) bool {
		if len(path) > depth {
			depth = len(path)
		}
		return true
	})
	assert.Equal(t, MaxDepth, depth)
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":     "  ",
		"truncated": `{"result":`,
		"array":     `[]`,
		"scalar":    `"alive"`,
		"xml":       `<searchResult/>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := Parse([]byte(doc))
			assert.Nil(t, resp)
			require.ErrorIs(t, err, apierrors.ErrMalformedResponse)
		})
	}
}

func TestParseSuggest(t *testing.T) {
	resp, err := ParseSuggest(readFixture(t, "suggest.json"))
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 4)

	first := resp.Suggestions[0]
	assert.Equal(t, "sneakers", first.Label)
	assert.Equal(t, "suggest", first.Block)
	assert.Equal(t, 1808, *first.Frequency)
	assert.Nil(t, first.ImageURL)
	assert.Nil(t, first.Price)

	product := resp.Suggestions[2]
	assert.Nil(t, product.Frequency, "non-numeric frequency degrades to nil")
	assert.Equal(t, 79.9, *product.Price)
	assert.Equal(t, "017", *product.Identifier)
	assert.Equal(t, "pair", *product.BasePriceUnit)
	assert.Equal(t, "SN-017", *product.Ordernumber)

	assert.Equal(t, 12, *resp.Suggestions[3].Frequency)

	order, groups := resp.Blocks()
	assert.Equal(t, []string{"suggest", "cat", "product"}, order)
	assert.Len(t, groups["suggest"], 2)
}

func TestParseSuggest_Malformed(t *testing.T) {
	for _, doc := range []string{"", `{"label":"x"}`, `[{"label":`} {
		_, err := ParseSuggest([]byte(doc))
		require.ErrorIs(t, err, apierrors.ErrMalformedResponse, doc)
	}

	resp, err := ParseSuggest([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, resp.Suggestions)
}
