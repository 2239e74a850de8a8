// Package cli implements the findologic command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/findologic-api-go/internal/logx"
	"github.com/r9s-ai/findologic-api-go/pkg/apierrors"
	"github.com/r9s-ai/findologic-api-go/pkg/client"
	"github.com/r9s-ai/findologic-api-go/pkg/config"
)

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitInvalid     = 2
	exitUnavailable = 3
	exitMalformed   = 4
)

type rootOptions struct {
	cfgPath  string
	shopkey  string
	apiURL   string
	logLevel string

	file   *config.File
	logger *slog.Logger
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	_, _ = fmt.Fprintln(os.Stderr, "error: "+err.Error())
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, apierrors.ErrServiceUnavailable):
		return exitUnavailable
	case errors.Is(err, apierrors.ErrMalformedResponse):
		return exitMalformed
	case errors.Is(err, apierrors.ErrInvalidParameter),
		errors.Is(err, apierrors.ErrRequiredParameterMissing),
		errors.Is(err, apierrors.ErrConfigInvalid):
		return exitInvalid
	default:
		return exitError
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "findologic",
		Short:         "Query a Findologic search service from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.cfgPath, "config", "c", "", "config yaml path")
	fs.StringVar(&opts.shopkey, "shopkey", "", "shopkey (overrides client.shopkey)")
	fs.StringVar(&opts.apiURL, "api-url", "", "service base url (overrides client.api_url)")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides logging.level)")

	cmd.AddCommand(
		newSearchCmd(opts),
		newNavigateCmd(opts),
		newSuggestCmd(opts),
		newAlivetestCmd(opts),
		newProbeCmd(opts),
		newMockServerCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) load(stderr io.Writer) error {
	f, err := config.Load(strings.TrimSpace(o.cfgPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(o.shopkey); v != "" {
		f.Client.Shopkey = v
	}
	if v := strings.TrimSpace(o.apiURL); v != "" {
		f.Client.APIURL = v
	}
	if v := strings.TrimSpace(o.logLevel); v != "" {
		f.Logging.Level = v
	}
	level, err := config.ParseLevel(f.Logging.Level)
	if err != nil {
		return err
	}
	o.file = f
	o.logger = logx.NewText(stderr, level)
	return nil
}

func (o *rootOptions) newClient(extra ...client.Option) (*client.Client, error) {
	cfg, err := o.file.ClientConfig(nil)
	if err != nil {
		return nil, err
	}
	opts := []client.Option{
		client.WithLogger(logx.NewSlogAdapter(o.logger)),
		client.WithRequestIDHeader(o.file.Client.RequestIDHeader),
	}
	return client.New(cfg, append(opts, extra...)...), nil
}
