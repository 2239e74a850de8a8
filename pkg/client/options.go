package client

import (
	"github.com/r9s-ai/findologic-api-go/internal/logx"
	"github.com/r9s-ai/findologic-api-go/pkg/requestid"
)

// Logger is the structured logger the client reports dispatches to.
type Logger = logx.Logger

// Option configures a Client.
type Option func(*Client)

// WithLogger routes dispatch logs to l. The default discards them.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records dispatch metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRequestIDHeader changes the header carrying the generated request id.
func WithRequestIDHeader(name string) Option {
	return func(c *Client) {
		c.requestIDHeader = requestid.ResolveHeaderKey(name)
	}
}
