// Package requests builds the query requests sent to the search service.
//
// Each request kind owns its own parameter store. Setters validate their
// input first and only touch the store when the value is accepted, so a
// rejected call leaves the request exactly as it was:
//
//	req := requests.NewSearchRequest()
//	if err := req.SetUserIP("127.0.0.1"); err != nil {
//	    return err
//	}
//	_ = req.SetRevision(definitions.DefaultRevision)
//	_ = req.AddAttribute("color", "red", "")
package requests

import (
	"fmt"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/params"
	"github.com/r9s-ai/findologic-api-go/pkg/validation"
)

// Kind identifies the request variant.
type Kind int

const (
	KindSearch Kind = iota
	KindNavigation
	KindSuggestion
)

func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindNavigation:
		return "navigation"
	case KindSuggestion:
		return "suggestion"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Request is the behaviour shared by every request kind.
type Request interface {
	Kind() Kind
	Method() string
	Endpoint() string
	Params() *params.Store
	OutputAdapter() string
	Body() (string, error)
	BuildURL(apiURL, shopkey string) (string, error)
}

// common carries the store and the setters every kind accepts.
type common struct {
	kind     Kind
	endpoint string
	store    *params.Store
}

func newCommon(kind Kind, endpoint string, required ...string) common {
	c := common{kind: kind, endpoint: endpoint, store: params.NewStore()}
	c.store.AddRequired(required...)
	return c
}

func (c *common) Kind() Kind { return c.kind }

// Method is always GET; the service takes no request body.
func (c *common) Method() string { return definitions.MethodGet }

func (c *common) Endpoint() string { return c.endpoint }

// Params exposes the underlying store.
func (c *common) Params() *params.Store { return c.store }

// Body is not available for GET requests.
func (c *common) Body() (string, error) {
	return "", apierrors.ErrBodyUnsupported
}

// OutputAdapter reports the adapter the response will be encoded with.
func (c *common) OutputAdapter() string {
	if c.kind == KindSuggestion {
		return definitions.OutputAdapterJSON10
	}
	if v, ok := c.store.Get(definitions.ParamOutputAdapter); ok {
		return v.String()
	}
	return definitions.OutputAdapterXML21
}

// BuildURL assembles the full request URL for the request's own endpoint.
func (c *common) BuildURL(apiURL, shopkey string) (string, error) {
	return EndpointURL(c.store, apiURL, c.endpoint, shopkey)
}

// SetUserIP sets the userip parameter used for billing and user
// identification.
func (c *common) SetUserIP(ip string) error {
	return c.setChecked(validation.RuleIP, definitions.ParamUserIP, ip)
}

// SetReferer sets the page the search was fired from. Only http(s):// and
// www. prefixes are accepted.
func (c *common) SetReferer(referer string) error {
	return c.setChecked(validation.RuleRefererFormat, definitions.ParamReferer, referer)
}

// SetRevision sets the integration version. definitions.DefaultRevision is
// fine when unsure.
func (c *common) SetRevision(revision string) error {
	return c.setChecked(validation.RuleVersion, definitions.ParamRevision, revision)
}

// SetShopURL sets the shop URL for multi-domain shops.
func (c *common) SetShopURL(shopURL string) error {
	return c.setChecked(validation.RuleShopURLFormat, definitions.ParamShopURL, shopURL)
}

// SetUserGroupHash restricts results to a customer group.
func (c *common) SetUserGroupHash(hash string) error {
	if strings.TrimSpace(hash) == "" {
		return apierrors.InvalidParameter(definitions.ParamUserGroupHash)
	}
	c.store.Set(definitions.ParamUserGroupHash, params.Scalar(hash))
	return nil
}

// AddGroup appends a customer group to group[].
func (c *common) AddGroup(group string) error {
	if strings.TrimSpace(group) == "" {
		return apierrors.InvalidParameter(definitions.ParamGroup)
	}
	c.store.Add(definitions.ParamGroup, params.List(group))
	return nil
}

func (c *common) setChecked(rule validation.Rule, param string, value any) error {
	if !validation.Check(rule, param, value) {
		return apierrors.InvalidParameter(param)
	}
	c.store.Set(param, params.Scalar(value))
	return nil
}

type shopkeyEnvelope struct {
	Shopkey string `url:"shopkey"`
}

// EndpointURL builds apiURL + endpoint + "?shopkey=...&<params>". It is used
// both for the real request and for the alivetest probe, which carries the
// same query.
func EndpointURL(store *params.Store, apiURL, endpoint, shopkey string) (string, error) {
	base := strings.TrimSpace(apiURL)
	if base == "" {
		base = definitions.DefaultAPIURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	envelope, err := query.Values(shopkeyEnvelope{Shopkey: shopkey})
	if err != nil {
		return "", fmt.Errorf("encode shopkey: %w", err)
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(strings.TrimPrefix(endpoint, "/"))
	b.WriteByte('?')
	b.WriteString(envelope.Encode())
	if store != nil {
		if q := store.Encode(); q != "" {
			b.WriteByte('&')
			b.WriteString(q)
		}
	}
	return b.String(), nil
}
