package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// HTTPDoer captures the subset of *http.Client the dispatcher relies on.
// Tests inject fake implementations so no request leaves the process.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures the default transport built by New.
type Options struct {
	// ConnectTimeout bounds dialing the service. Zero means 5s.
	ConnectTimeout time.Duration
	// ProxyURL routes requests through an upstream proxy. Supported schemes:
	// http, https and socks5.
	ProxyURL string
}

const defaultConnectTimeout = 5 * time.Second

// New builds an *http.Client for talking to the search service. Per-call
// deadlines are applied by the dispatcher through the request context, so
// the client itself carries no overall timeout.
func New(opts Options) (*http.Client, error) {
	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSHandshakeTimeout = connectTimeout

	raw := strings.TrimSpace(opts.ProxyURL)
	if raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			transport.Proxy = http.ProxyURL(u)
		case "socks5", "socks5h":
			d, err := proxy.FromURL(u, dialer)
			if err != nil {
				return nil, fmt.Errorf("build socks5 dialer: %w", err)
			}
			transport.Proxy = nil
			transport.DialContext = contextDialer(d)
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
	}
	return &http.Client{Transport: transport}, nil
}

func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}
