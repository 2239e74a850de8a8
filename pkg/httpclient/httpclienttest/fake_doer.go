package httpclienttest

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/r9s-ai/findologic-api-go/pkg/httpclient"
)

// Reply is one queued outcome of a FakeDoer: either a response or an error.
type Reply struct {
	Response *http.Response
	Err      error
}

// FakeDoer implements httpclient.HTTPDoer so callers can run tests without
// making outbound HTTP requests.
type FakeDoer struct {
	t        testing.TB
	replies  []Reply
	requests []*http.Request
}

// NewFakeDoer returns a FakeDoer seeded with the responses that should be
// returned for each Do call.
func NewFakeDoer(t testing.TB, responses ...*http.Response) *FakeDoer {
	f := &FakeDoer{t: t}
	for _, r := range responses {
		f.replies = append(f.replies, Reply{Response: r})
	}
	return f
}

// Enqueue appends further replies.
func (f *FakeDoer) Enqueue(replies ...Reply) *FakeDoer {
	f.replies = append(f.replies, replies...)
	return f
}

// Do records the request and returns the next queued reply.
func (f *FakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		f.t.Fatalf("fake http client has no responses left for request %s %s", req.Method, req.URL.String())
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Response != nil && r.Response.Request == nil {
		r.Response.Request = req
	}
	return r.Response, nil
}

// Requests returns the HTTP requests captured so far.
func (f *FakeDoer) Requests() []*http.Request {
	return append([]*http.Request(nil), f.requests...)
}

// Calls returns how many times Do was invoked.
func (f *FakeDoer) Calls() int {
	return len(f.requests)
}

// NewStringResponse builds a minimal http.Response with the provided status
// code and body string.
func NewStringResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// Alive is the response the alivetest endpoint sends when the service is up.
func Alive() *http.Response {
	return NewStringResponse(http.StatusOK, "alive")
}

var _ httpclient.HTTPDoer = (*FakeDoer)(nil)
