// Package logx carries the logging plumbing shared by the client, the
// command line tool and the mock server.
package logx

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the structured logger the client writes to. attrs are
// alternating key/value pairs, as with log/slog:
//
//	logger.Debug("dispatch", "endpoint", "index.php", "status", 200)
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)
	// With returns a Logger that prepends attrs to every entry.
	With(attrs ...any) Logger
}

// Nop discards everything. It is the client's default.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
func (n Nop) With(...any) Logger { return n }

var _ Logger = Nop{}

// SlogAdapter wraps a *slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger; nil selects slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.logger.Debug(msg, attrs...) }
func (s *SlogAdapter) Info(msg string, attrs ...any)  { s.logger.Info(msg, attrs...) }
func (s *SlogAdapter) Warn(msg string, attrs ...any)  { s.logger.Warn(msg, attrs...) }
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.logger.Error(msg, attrs...) }

func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

// Slog returns the wrapped logger.
func (s *SlogAdapter) Slog() *slog.Logger { return s.logger }

var _ Logger = (*SlogAdapter)(nil)

// NewText builds a text slog logger writing to w (stderr when nil) at
// level.
func NewText(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
