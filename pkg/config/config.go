// Package config holds the validated client configuration and the YAML file
// format used by the command line tool and the mock server.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/httpclient"
	"github.com/r9s-ai/findologic-api-go/pkg/validation"
)

const (
	DefaultAlivetestTimeout = 1 * time.Second
	DefaultRequestTimeout   = 3 * time.Second
)

// Keys accepted by FromMap.
const (
	KeyShopkey          = "shopkey"
	KeyAPIURL           = "apiUrl"
	KeyAlivetestTimeout = "alivetestTimeout"
	KeyRequestTimeout   = "requestTimeout"
	KeyHTTPClient       = "httpClient"
)

// Config is the immutable configuration of a client. Build it with New or
// FromMap; a zero Config is not valid.
type Config struct {
	shopkey          string
	apiURL           string
	alivetestTimeout time.Duration
	requestTimeout   time.Duration
	httpClient       httpclient.HTTPDoer
}

// Options are the inputs to New. Zero values select defaults, except for
// Shopkey which is required.
type Options struct {
	Shopkey          string
	APIURL           string
	AlivetestTimeout time.Duration
	RequestTimeout   time.Duration
	// HTTPClient is used for every request. When nil a client is built with
	// httpclient.New using ProxyURL.
	HTTPClient httpclient.HTTPDoer
	ProxyURL   string
}

// New validates opts and returns the resulting Config. Any invalid value
// yields a *apierrors.ConfigError and no Config.
func New(opts Options) (*Config, error) {
	if !validation.Check(validation.RuleShopkey, KeyShopkey, opts.Shopkey) {
		return nil, &apierrors.ConfigError{Field: KeyShopkey, Message: "shopkey format is invalid"}
	}

	apiURL := strings.TrimSpace(opts.APIURL)
	if apiURL == "" {
		apiURL = definitions.DefaultAPIURL
	}
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &apierrors.ConfigError{Field: KeyAPIURL, Message: "must be an absolute http(s) URL"}
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}

	alive := opts.AlivetestTimeout
	if alive == 0 {
		alive = DefaultAlivetestTimeout
	}
	if alive < 0 {
		return nil, &apierrors.ConfigError{Field: KeyAlivetestTimeout, Message: "must be > 0"}
	}
	req := opts.RequestTimeout
	if req == 0 {
		req = DefaultRequestTimeout
	}
	if req < 0 {
		return nil, &apierrors.ConfigError{Field: KeyRequestTimeout, Message: "must be > 0"}
	}

	doer := opts.HTTPClient
	if doer == nil {
		c, err := httpclient.New(httpclient.Options{ProxyURL: opts.ProxyURL})
		if err != nil {
			return nil, &apierrors.ConfigError{Field: KeyHTTPClient, Message: err.Error()}
		}
		doer = c
	}

	return &Config{
		shopkey:          opts.Shopkey,
		apiURL:           apiURL,
		alivetestTimeout: alive,
		requestTimeout:   req,
		httpClient:       doer,
	}, nil
}

func (c *Config) Shopkey() string                 { return c.shopkey }
func (c *Config) APIURL() string                  { return c.apiURL }
func (c *Config) AlivetestTimeout() time.Duration { return c.alivetestTimeout }
func (c *Config) RequestTimeout() time.Duration   { return c.requestTimeout }
func (c *Config) HTTPClient() httpclient.HTTPDoer { return c.httpClient }

// FromMap builds a Config from the loose key/value form:
//
//	shopkey           string, required
//	apiUrl            string
//	alivetestTimeout  int or float, seconds
//	requestTimeout    int or float, seconds
//	httpClient        httpclient.HTTPDoer
//
// A value of the wrong type is a ConfigError. Unknown keys are ignored.
func FromMap(m map[string]any) (*Config, error) {
	var opts Options
	for key, raw := range m {
		switch key {
		case KeyShopkey:
			s, ok := raw.(string)
			if !ok {
				return nil, wrongType(key, "string")
			}
			opts.Shopkey = s
		case KeyAPIURL:
			s, ok := raw.(string)
			if !ok {
				return nil, wrongType(key, "string")
			}
			opts.APIURL = s
		case KeyAlivetestTimeout:
			d, ok := seconds(raw)
			if !ok {
				return nil, wrongType(key, "int or float seconds")
			}
			opts.AlivetestTimeout = d
		case KeyRequestTimeout:
			d, ok := seconds(raw)
			if !ok {
				return nil, wrongType(key, "int or float seconds")
			}
			opts.RequestTimeout = d
		case KeyHTTPClient:
			if raw == nil {
				continue
			}
			doer, ok := raw.(httpclient.HTTPDoer)
			if !ok {
				return nil, wrongType(key, "HTTPDoer")
			}
			opts.HTTPClient = doer
		}
	}
	if _, ok := m[KeyShopkey]; !ok {
		return nil, &apierrors.ConfigError{Field: KeyShopkey, Message: "is required"}
	}
	return New(opts)
}

// seconds accepts exactly one numeric type per value: an integer or a
// float. Non-positive values are rejected.
func seconds(v any) (time.Duration, bool) {
	var f float64
	switch t := v.(type) {
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case float64:
		f = t
	case float32:
		f = float64(t)
	default:
		return 0, false
	}
	if f <= 0 {
		return 0, false
	}
	return time.Duration(f * float64(time.Second)), true
}

func wrongType(field, want string) error {
	return &apierrors.ConfigError{Field: field, Message: "must be " + want}
}
