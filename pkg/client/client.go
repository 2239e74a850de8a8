// Package client dispatches requests to the search service.
//
// Every Send call checks the request's required parameters, probes
// alivetest.php with the same query, and only then sends the real request.
// A failed probe aborts the call with apierrors.ErrServiceUnavailable and the
// real request is never sent. There are no retries.
package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/r9s-ai/findologic-api-go/internal/logx"
	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/config"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/params"
	"github.com/r9s-ai/findologic-api-go/pkg/requestid"
	"github.com/r9s-ai/findologic-api-go/pkg/requests"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/json10"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/xml21"
)

// Client is safe for concurrent use when the configured HTTP client is.
type Client struct {
	cfg             *config.Config
	logger          Logger
	metrics         *Metrics
	requestIDHeader string

	lastResponseTime atomic.Int64
}

// New returns a client for cfg, which must come from config.New or
// config.FromMap.
func New(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		cfg:             cfg,
		logger:          logx.Nop{},
		requestIDHeader: requestid.DefaultHeaderKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() *config.Config { return c.cfg }

// ResponseTime is the wall time of the most recent real (non-alivetest)
// request, or 0 before the first one.
func (c *Client) ResponseTime() time.Duration {
	return time.Duration(c.lastResponseTime.Load())
}

// SendSearchRequest sends req and decodes the XML_2.1 response.
func (c *Client) SendSearchRequest(ctx context.Context, req *requests.SearchRequest) (*xml21.Response, error) {
	return sendXML(ctx, c, req)
}

// SendNavigationRequest sends req and decodes the XML_2.1 response.
func (c *Client) SendNavigationRequest(ctx context.Context, req *requests.NavigationRequest) (*xml21.Response, error) {
	return sendXML(ctx, c, req)
}

// SendSearchRequestJSON sends req, which must have its output adapter set to
// JSON_1.0, and decodes the JSON response.
func (c *Client) SendSearchRequestJSON(ctx context.Context, req *requests.SearchRequest) (*json10.Response, error) {
	return sendJSON(ctx, c, req)
}

// SendNavigationRequestJSON is SendSearchRequestJSON for navigation pages.
func (c *Client) SendNavigationRequestJSON(ctx context.Context, req *requests.NavigationRequest) (*json10.Response, error) {
	return sendJSON(ctx, c, req)
}

// SendSuggestionRequest sends req and decodes the suggestion list.
func (c *Client) SendSuggestionRequest(ctx context.Context, req *requests.SuggestionRequest) (*json10.SuggestResponse, error) {
	body, err := c.Raw(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := json10.ParseSuggest(body)
	if err != nil {
		c.malformed(req, err)
		return nil, err
	}
	return resp, nil
}

// SendAlivetest probes the service without any request parameters.
func (c *Client) SendAlivetest(ctx context.Context) error {
	return c.alivetest(ctx, "alivetest", params.NewStore())
}

// Raw runs the full dispatch for req and returns the undecoded body.
func (c *Client) Raw(ctx context.Context, req requests.Request) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if missing := req.Params().MissingRequired(); len(missing) > 0 {
		return nil, &apierrors.RequiredParameterError{Param: missing[0]}
	}
	kind := req.Kind().String()
	if err := c.alivetest(ctx, kind, req.Params()); err != nil {
		return nil, err
	}

	rawURL, err := req.BuildURL(c.cfg.APIURL(), c.cfg.Shopkey())
	if err != nil {
		return nil, err
	}
	start := time.Now()
	body, err := c.get(ctx, kind, req.Endpoint(), rawURL, c.cfg.RequestTimeout())
	elapsed := time.Since(start)
	c.lastResponseTime.Store(int64(elapsed))
	c.metrics.recordResponseTime(kind, elapsed)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func sendXML(ctx context.Context, c *Client, req requests.Request) (*xml21.Response, error) {
	if req.OutputAdapter() != xml21.Format {
		return nil, apierrors.InvalidParameter(definitions.ParamOutputAdapter)
	}
	body, err := c.Raw(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := xml21.Parse(body)
	if err != nil {
		c.malformed(req, err)
		return nil, err
	}
	return resp, nil
}

func sendJSON(ctx context.Context, c *Client, req requests.Request) (*json10.Response, error) {
	if req.OutputAdapter() != json10.Format {
		return nil, apierrors.InvalidParameter(definitions.ParamOutputAdapter)
	}
	body, err := c.Raw(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := json10.Parse(body)
	if err != nil {
		c.malformed(req, err)
		return nil, err
	}
	return resp, nil
}

func (c *Client) malformed(req requests.Request, err error) {
	c.logger.Warn("malformed response", "kind", req.Kind().String(), "endpoint", req.Endpoint(), "error", err)
	c.metrics.recordMalformed(req.Kind().String(), req.Endpoint())
}

func (c *Client) alivetest(ctx context.Context, kind string, store *params.Store) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rawURL, err := requests.EndpointURL(store, c.cfg.APIURL(), definitions.EndpointAlivetest, c.cfg.Shopkey())
	if err != nil {
		return err
	}
	body, err := c.get(ctx, kind, definitions.EndpointAlivetest, rawURL, c.cfg.AlivetestTimeout())
	if err != nil {
		return err
	}
	if string(body) != definitions.ServiceAliveBody {
		c.logger.Warn("service not alive", "kind", kind, "endpoint", definitions.EndpointAlivetest)
		return &apierrors.ServiceUnavailableError{
			Endpoint:   definitions.EndpointAlivetest,
			StatusCode: http.StatusOK,
			Message:    "unexpected alivetest body",
		}
	}
	return nil
}

// get performs one GET bounded by timeout. Transport errors and non-200
// statuses are reported as ServiceUnavailableError.
func (c *Client) get(ctx context.Context, kind, endpoint, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		c.metrics.record(kind, endpoint, OutcomeError, 0)
		return nil, err
	}
	reqID := requestid.Gen()
	httpReq.Header.Set(c.requestIDHeader, reqID)
	log := c.logger.With("kind", kind, "endpoint", endpoint, "request_id", reqID)

	start := time.Now()
	resp, err := c.cfg.HTTPClient().Do(httpReq)
	if err != nil {
		elapsed := time.Since(start)
		log.Warn("service unavailable", "error", err, "duration", elapsed)
		c.metrics.record(kind, endpoint, OutcomeUnavailable, elapsed)
		return nil, &apierrors.ServiceUnavailableError{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		log.Warn("service unavailable", "error", err, "duration", elapsed)
		c.metrics.record(kind, endpoint, OutcomeUnavailable, elapsed)
		return nil, &apierrors.ServiceUnavailableError{Endpoint: endpoint, StatusCode: resp.StatusCode, Cause: err}
	}
	if resp.StatusCode != definitions.StatusOK {
		log.Warn("service unavailable", "status", resp.StatusCode, "duration", elapsed)
		c.metrics.record(kind, endpoint, OutcomeUnavailable, elapsed)
		return nil, &apierrors.ServiceUnavailableError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	log.Debug("dispatch", "status", resp.StatusCode, "duration", elapsed, "bytes", len(body))
	c.metrics.record(kind, endpoint, OutcomeOK, elapsed)
	return body, nil
}

// IsServiceUnavailable reports whether err aborted a dispatch because the
// service could not be reached or answered badly.
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, apierrors.ErrServiceUnavailable)
}
