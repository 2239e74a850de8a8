package requests

import (
	"strings"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/params"
	"github.com/r9s-ai/findologic-api-go/pkg/validation"
)

// SuggestionRequest queries autocomplete.php. Responses are always JSON.
type SuggestionRequest struct {
	common
}

// NewSuggestionRequest returns a suggestion request requiring userip,
// revision and query.
func NewSuggestionRequest() *SuggestionRequest {
	return &SuggestionRequest{common: newCommon(KindSuggestion, definitions.EndpointSuggestion,
		definitions.ParamUserIP, definitions.ParamRevision, definitions.ParamQuery)}
}

// SetQuery sets the partial term to complete.
func (r *SuggestionRequest) SetQuery(q string) {
	r.store.Set(definitions.ParamQuery, params.Scalar(q))
}

// SetAutocompleteBlocks restricts the suggestion blocks returned. Blocks are
// sent comma separated; duplicates are dropped.
func (r *SuggestionRequest) SetAutocompleteBlocks(blocks ...string) error {
	if len(blocks) == 0 {
		return apierrors.InvalidParameter(definitions.ParamAutocompleteBlocks)
	}
	seen := make(map[string]struct{}, len(blocks))
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if !definitions.IsAutocompleteBlock(b) {
			return apierrors.InvalidParameter(definitions.ParamAutocompleteBlocks)
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	r.store.Set(definitions.ParamAutocompleteBlocks, params.Scalar(strings.Join(out, ",")))
	return nil
}

// SetMultishopID selects the shop of a multi-shop account.
func (r *SuggestionRequest) SetMultishopID(id int) error {
	return r.setChecked(validation.RuleEqualOrHigherThanZero, definitions.ParamMultishopID, id)
}

var _ Request = (*SuggestionRequest)(nil)
