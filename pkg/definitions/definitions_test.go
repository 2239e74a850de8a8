package definitions

import (
	"sort"
	"testing"
)

func TestOrderTypes(t *testing.T) {
	got := OrderTypes()
	if len(got) != 10 {
		t.Fatalf("expected 10 order types, got %d", len(got))
	}
	if !sort.StringsAreSorted(got) {
		t.Fatalf("order types not sorted: %v", got)
	}
	for _, o := range got {
		if !IsOrderType(o) {
			t.Fatalf("IsOrderType(%q)=false", o)
		}
	}
	for _, bad := range []string{"", "price", "rank DESC", "PRICE ASC"} {
		if IsOrderType(bad) {
			t.Fatalf("IsOrderType(%q)=true", bad)
		}
	}
}

func TestIsOutputAdapter(t *testing.T) {
	if !IsOutputAdapter(OutputAdapterXML21) || !IsOutputAdapter(OutputAdapterJSON10) {
		t.Fatalf("expected both adapters to be accepted")
	}
	if IsOutputAdapter("HTML_3.1") || IsOutputAdapter("") {
		t.Fatalf("unexpected adapter accepted")
	}
}

func TestIsAutocompleteBlock(t *testing.T) {
	for _, b := range []string{BlockSuggest, BlockCategory, BlockVendor, BlockOrdernumber, BlockProduct, BlockPromotion, BlockLandingPage} {
		if !IsAutocompleteBlock(b) {
			t.Fatalf("IsAutocompleteBlock(%q)=false", b)
		}
	}
	if IsAutocompleteBlock("Suggest") {
		t.Fatalf("blocks are case sensitive")
	}
}
