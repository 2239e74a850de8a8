package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/findologic-api-go/pkg/client"
)

type probeOptions struct {
	interval time.Duration
	times    int
	listen   string
}

// newProbeCmd runs alivetest repeatedly and, when metrics are enabled,
// exposes the client metrics for scraping.
func newProbeCmd(root *rootOptions) *cobra.Command {
	opts := probeOptions{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run alivetest periodically and export Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listen := strings.TrimSpace(opts.listen)
			if listen == "" && root.file.Metrics.Enabled {
				listen = root.file.Metrics.Listen
			}
			return runProbe(cmd.Context(), root, opts.interval, opts.times, listen, cmd.OutOrStdout())
		},
	}
	fs := cmd.Flags()
	fs.DurationVar(&opts.interval, "interval", 10*time.Second, "time between probes")
	fs.IntVar(&opts.times, "times", 0, "stop after this many probes (0 runs until interrupted)")
	fs.StringVar(&opts.listen, "metrics-listen", "", "serve /metrics on this address (defaults to metrics.listen when metrics.enabled)")
	return cmd
}

func runProbe(ctx context.Context, root *rootOptions, interval time.Duration, times int, listen string, w io.Writer) error {
	if interval <= 0 {
		return errors.New("interval must be positive")
	}
	registry := prometheus.NewRegistry()
	c, err := root.newClient(client.WithMetrics(client.NewMetrics(registry)))
	if err != nil {
		return err
	}

	if listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
		srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				root.logger.Error("metrics server failed", "listen", listen, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		root.logger.Info("serving metrics", "listen", listen)
	}

	st := newStyles(w)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		start := time.Now()
		err := c.SendAlivetest(ctx)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			_, _ = fmt.Fprintf(w, "%s %s %s\n", start.Format(time.RFC3339), st.title.Render("down"), err)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s %s\n", start.Format(time.RFC3339), st.selected.Render("alive"), st.muted.Render(elapsed.String()))
		}
		if times > 0 && n >= times {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
