package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/findologic-api-go/internal/mockserver"
)

type mockServerOptions struct {
	listen   string
	fixtures string
	watch    bool
}

func newMockServerCmd(root *rootOptions) *cobra.Command {
	opts := mockServerOptions{}
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve canned responses on a local fake search service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := root.file
			if v := strings.TrimSpace(opts.listen); v != "" {
				f.MockServer.Listen = v
			}
			if v := strings.TrimSpace(opts.fixtures); v != "" {
				f.MockServer.FixturesDir = v
			}
			if cmd.Flags().Changed("watch") {
				f.MockServer.AutoReload.Enabled = opts.watch
			}
			return mockserver.Run(cmd.Context(), f, root.logger)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.listen, "listen", "", "listen address (overrides mock_server.listen)")
	fs.StringVar(&opts.fixtures, "fixtures", "", "fixtures dir (overrides mock_server.fixtures_dir)")
	fs.BoolVar(&opts.watch, "watch", false, "reload fixtures when they change")
	return cmd
}
