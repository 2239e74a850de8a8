package mockserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"

	"github.com/r9s-ai/findologic-api-go/internal/logx"
	"github.com/r9s-ai/findologic-api-go/pkg/config"
)

// Run serves the mock service described by cfg until ctx is cancelled.
func Run(ctx context.Context, cfg *config.File, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	opts := Options{
		FixturesDir:     cfg.MockServer.FixturesDir,
		RequestIDHeader: cfg.Client.RequestIDHeader,
		Logger:          logger,
	}
	if cfg.Logging.AccessLog {
		format, err := logx.ResolveAccessLogFormat(cfg.Logging.AccessLogFormat, logx.DefaultAccessLogFormat)
		if err != nil {
			return fmt.Errorf("access log format: %w", err)
		}
		formatter, err := logx.CompileAccessLogFormat(format)
		if err != nil {
			return fmt.Errorf("access log format: %w", err)
		}
		opts.AccessLog = log.New(os.Stderr, "", 0)
		opts.AccessLogColor = isatty.IsTerminal(os.Stderr.Fd())
		opts.AccessFormatter = formatter
	}

	srv, err := New(opts)
	if err != nil {
		return err
	}
	if cfg.MockServer.AutoReload.Enabled {
		closer, err := srv.WatchFixtures(time.Duration(cfg.MockServer.AutoReload.DebounceMs) * time.Millisecond)
		if err != nil {
			return fmt.Errorf("watch fixtures %q: %w", cfg.MockServer.FixturesDir, err)
		}
		defer func() { _ = closer.Close() }()
	}

	httpSrv := &http.Server{
		Addr:              cfg.MockServer.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock server listening", "listen", cfg.MockServer.Listen, "fixtures", srv.Fixtures().Names())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("run: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
