package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/config"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/httpclient"
	"github.com/r9s-ai/findologic-api-go/pkg/httpclient/httpclienttest"
	"github.com/r9s-ai/findologic-api-go/pkg/requestid"
	"github.com/r9s-ai/findologic-api-go/pkg/requests"
)

const testShopkey = "ABCDEF0123456789ABCDEF0123456789"

func newTestClient(t *testing.T, doer httpclient.HTTPDoer, opts ...Option) *Client {
	t.Helper()
	cfg, err := config.New(config.Options{Shopkey: testShopkey, HTTPClient: doer})
	require.NoError(t, err)
	return New(cfg, opts...)
}

func fixture(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "responses", rel))
	require.NoError(t, err)
	return string(data)
}

func searchRequest(t *testing.T) *requests.SearchRequest {
	t.Helper()
	req := requests.NewSearchRequest()
	require.NoError(t, req.SetUserIP("127.0.0.1"))
	require.NoError(t, req.SetRevision("1.0.0"))
	req.SetQuery("sneakers")
	return req
}

func TestSendSearchRequest_ParsesXML(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.Alive(),
		httpclienttest.NewStringResponse(http.StatusOK, fixture(t, "xml21/testdata/search.xml")),
	)
	c := newTestClient(t, doer)

	resp, err := c.SendSearchRequest(context.Background(), searchRequest(t))
	require.NoError(t, err)
	assert.Equal(t, 1808, resp.Results.Count)
	assert.Equal(t, 2, doer.Calls())

	reqs := doer.Requests()
	assert.Equal(t, "/ps/alivetest.php", reqs[0].URL.Path)
	assert.Equal(t, "/ps/index.php", reqs[1].URL.Path)
	assert.Equal(t, reqs[0].URL.RawQuery, reqs[1].URL.RawQuery)
	assert.Equal(t, testShopkey, reqs[1].URL.Query().Get("shopkey"))
	assert.Equal(t, "sneakers", reqs[1].URL.Query().Get("query"))
	assert.Len(t, reqs[1].Header.Get(requestid.DefaultHeaderKey), 28)
}

func TestSendSearchRequest_MissingRequiredSendsNothing(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t)
	c := newTestClient(t, doer)

	req := requests.NewSearchRequest()
	require.NoError(t, req.SetRevision("1.0.0"))
	_, err := c.SendSearchRequest(context.Background(), req)

	var missing *apierrors.RequiredParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, definitions.ParamUserIP, missing.Param)
	assert.True(t, errors.Is(err, apierrors.ErrRequiredParameterMissing))
	assert.Zero(t, doer.Calls())
}

func TestAlivetestFailureSkipsRealRequest(t *testing.T) {
	cases := []struct {
		name  string
		reply httpclienttest.Reply
	}{
		{name: "wrong body", reply: httpclienttest.Reply{Response: httpclienttest.NewStringResponse(http.StatusOK, "dead")}},
		{name: "trailing newline", reply: httpclienttest.Reply{Response: httpclienttest.NewStringResponse(http.StatusOK, "alive\n")}},
		{name: "status", reply: httpclienttest.Reply{Response: httpclienttest.NewStringResponse(http.StatusInternalServerError, "alive")}},
		{name: "transport", reply: httpclienttest.Reply{Err: errors.New("connection refused")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doer := httpclienttest.NewFakeDoer(t).Enqueue(tc.reply)
			c := newTestClient(t, doer)

			_, err := c.SendSearchRequest(context.Background(), searchRequest(t))
			require.Error(t, err)
			assert.True(t, IsServiceUnavailable(err))
			assert.Equal(t, 1, doer.Calls())
			assert.Zero(t, c.ResponseTime())
		})
	}
}

func TestRealRequestNon200IsUnavailable(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.Alive(),
		httpclienttest.NewStringResponse(http.StatusBadGateway, "upstream"),
	)
	c := newTestClient(t, doer)

	_, err := c.SendSearchRequest(context.Background(), searchRequest(t))
	var unavailable *apierrors.ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, definitions.EndpointSearch, unavailable.Endpoint)
	assert.Equal(t, http.StatusBadGateway, unavailable.StatusCode)
	assert.Equal(t, 2, doer.Calls())
}

func TestMalformedBody(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.Alive(),
		httpclienttest.NewStringResponse(http.StatusOK, "<searchResult><results>"),
	)
	c := newTestClient(t, doer)

	_, err := c.SendSearchRequest(context.Background(), searchRequest(t))
	assert.True(t, errors.Is(err, apierrors.ErrMalformedResponse))
	assert.Equal(t, 2, doer.Calls())
}

func TestOutputAdapterMismatch(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t)
	c := newTestClient(t, doer)

	_, err := c.SendSearchRequestJSON(context.Background(), searchRequest(t))
	assert.True(t, errors.Is(err, apierrors.ErrInvalidParameter))

	req := searchRequest(t)
	require.NoError(t, req.SetOutputAdapter(definitions.OutputAdapterJSON10))
	_, err = c.SendSearchRequest(context.Background(), req)
	assert.True(t, errors.Is(err, apierrors.ErrInvalidParameter))
	assert.Zero(t, doer.Calls())
}

func TestSendNavigationRequestJSON(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.Alive(),
		httpclienttest.NewStringResponse(http.StatusOK, fixture(t, "json10/testdata/search.json")),
	)
	c := newTestClient(t, doer)

	req := requests.NewNavigationRequest()
	require.NoError(t, req.SetUserIP("127.0.0.1"))
	require.NoError(t, req.SetRevision("1.0.0"))
	require.NoError(t, req.SetSelected("cat", "Shoes"))
	require.NoError(t, req.SetOutputAdapter(definitions.OutputAdapterJSON10))

	resp, err := c.SendNavigationRequestJSON(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Request.Query)
	assert.Equal(t, "sneakers", *resp.Request.Query)

	reqs := doer.Requests()
	assert.Equal(t, "/ps/selector.php", reqs[1].URL.Path)
	assert.Equal(t, "Shoes", reqs[1].URL.Query().Get("selected[cat][]"))
	assert.Equal(t, definitions.OutputAdapterJSON10, reqs[1].URL.Query().Get("outputAdapter"))
}

func TestSendSuggestionRequest(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.Alive(),
		httpclienttest.NewStringResponse(http.StatusOK, fixture(t, "json10/testdata/suggest.json")),
	)
	c := newTestClient(t, doer)

	req := requests.NewSuggestionRequest()
	require.NoError(t, req.SetUserIP("127.0.0.1"))
	require.NoError(t, req.SetRevision("1.0.0"))
	req.SetQuery("sne")

	resp, err := c.SendSuggestionRequest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 4)
	assert.Equal(t, "sneakers", resp.Suggestions[0].Label)
	assert.Equal(t, "/ps/autocomplete.php", doer.Requests()[1].URL.Path)
}

func TestSendAlivetest(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.Alive())
	c := newTestClient(t, doer)

	require.NoError(t, c.SendAlivetest(context.Background()))
	assert.Equal(t, "shopkey="+testShopkey, doer.Requests()[0].URL.RawQuery)
}

func TestRequestIDHeaderOption(t *testing.T) {
	doer := httpclienttest.NewFakeDoer(t, httpclienttest.Alive())
	c := newTestClient(t, doer, WithRequestIDHeader("X-Trace"))

	require.NoError(t, c.SendAlivetest(context.Background()))
	h := doer.Requests()[0].Header
	assert.NotEmpty(t, h.Get("X-Trace"))
	assert.Empty(t, h.Get(requestid.DefaultHeaderKey))
}

func TestResponseTimeAndTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if strings.HasSuffix(r.URL.Path, definitions.EndpointAlivetest) {
			_, _ = w.Write([]byte("alive"))
			return
		}
		select {
		case <-time.After(30 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(`<searchResult><results><count>3</count></results></searchResult>`))
	}))
	defer srv.Close()

	cfg, err := config.New(config.Options{
		Shopkey:          testShopkey,
		APIURL:           srv.URL + "/ps/",
		AlivetestTimeout: time.Second,
		RequestTimeout:   time.Second,
		HTTPClient:       srv.Client(),
	})
	require.NoError(t, err)
	c := New(cfg)

	resp, err := c.SendSearchRequest(context.Background(), searchRequest(t))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Results.Count)
	assert.GreaterOrEqual(t, c.ResponseTime(), 30*time.Millisecond)

	cfg, err = config.New(config.Options{
		Shopkey:          testShopkey,
		APIURL:           srv.URL + "/ps/",
		AlivetestTimeout: time.Second,
		RequestTimeout:   5 * time.Millisecond,
		HTTPClient:       srv.Client(),
	})
	require.NoError(t, err)
	_, err = New(cfg).SendSearchRequest(context.Background(), searchRequest(t))
	assert.True(t, IsServiceUnavailable(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestMetricsRecordOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.Alive(),
		httpclienttest.NewStringResponse(http.StatusOK, fixture(t, "xml21/testdata/search.xml")),
		httpclienttest.NewStringResponse(http.StatusServiceUnavailable, ""),
	)
	c := newTestClient(t, doer, WithMetrics(metrics))

	_, err := c.SendSearchRequest(context.Background(), searchRequest(t))
	require.NoError(t, err)
	_, err = c.SendSearchRequest(context.Background(), searchRequest(t))
	require.Error(t, err)

	kind := requests.KindSearch.String()
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(kind, definitions.EndpointAlivetest, OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(kind, definitions.EndpointSearch, OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(kind, definitions.EndpointAlivetest, OutcomeUnavailable)))
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.requestDuration))
}

func TestMetricsCountMalformed(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	doer := httpclienttest.NewFakeDoer(t,
		httpclienttest.Alive(),
		httpclienttest.NewStringResponse(http.StatusOK, "[]"),
	)
	c := newTestClient(t, doer, WithMetrics(metrics))

	_, err := c.SendSearchRequestJSON(context.Background(), jsonSearchRequest(t))
	require.Error(t, err)
	kind := requests.KindSearch.String()
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(kind, definitions.EndpointSearch, OutcomeMalformed)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(kind, definitions.EndpointSearch, OutcomeOK)))
}

func jsonSearchRequest(t *testing.T) *requests.SearchRequest {
	t.Helper()
	req := searchRequest(t)
	require.NoError(t, req.SetOutputAdapter(definitions.OutputAdapterJSON10))
	return req
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.record("search", definitions.EndpointSearch, OutcomeOK, time.Second)
	m.recordMalformed("search", definitions.EndpointSearch)
	m.recordResponseTime("search", time.Second)
}
