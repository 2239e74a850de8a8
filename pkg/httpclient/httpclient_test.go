package httpclient

import (
	"net/http"
	"net/url"
	"testing"
)

func TestNew_Default(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport type %T", c.Transport)
	}
	if tr.TLSHandshakeTimeout != defaultConnectTimeout {
		t.Fatalf("tls handshake timeout=%v", tr.TLSHandshakeTimeout)
	}
	if c.Timeout != 0 {
		t.Fatalf("client timeout should be left to the request context, got %v", c.Timeout)
	}
}

func TestNew_HTTPProxy(t *testing.T) {
	c, err := New(Options{ProxyURL: "http://127.0.0.1:7890"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr := c.Transport.(*http.Transport)
	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "service.example"}}
	u, err := tr.Proxy(req)
	if err != nil || u == nil || u.Host != "127.0.0.1:7890" {
		t.Fatalf("proxy=%v err=%v", u, err)
	}
}

func TestNew_SocksProxy(t *testing.T) {
	c, err := New(Options{ProxyURL: "socks5://127.0.0.1:1080"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tr := c.Transport.(*http.Transport)
	if tr.Proxy != nil {
		t.Fatalf("socks5 should dial directly through the proxy dialer")
	}
	if tr.DialContext == nil {
		t.Fatalf("expected dial context")
	}
}

func TestNew_InvalidProxy(t *testing.T) {
	if _, err := New(Options{ProxyURL: "ftp://127.0.0.1"}); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
	if _, err := New(Options{ProxyURL: "http://[::1"}); err == nil {
		t.Fatalf("expected error for unparsable url")
	}
}
