package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/findologic-api-go/pkg/client"
	"github.com/r9s-ai/findologic-api-go/pkg/requests"
)

func newSuggestCmd(root *rootOptions) *cobra.Command {
	var (
		request   requestFlags
		output    outputFlags
		blocks    []string
		multishop int
	)
	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Send a suggestion request to autocomplete.php",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := requests.NewSuggestionRequest()
			req.SetQuery(args[0])
			if err := request.apply(req); err != nil {
				return err
			}
			if len(blocks) > 0 {
				if err := req.SetAutocompleteBlocks(blocks...); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("multishop-id") {
				if err := req.SetMultishopID(multishop); err != nil {
					return err
				}
			}
			return runListing(cmd.Context(), root, output, cmd.OutOrStdout(), req,
				func(ctx context.Context, c *client.Client, w io.Writer, st styles) error {
					resp, err := c.SendSuggestionRequest(ctx, req)
					if err != nil {
						return err
					}
					renderSuggestions(w, st, resp)
					return nil
				})
		},
	}
	request.register(cmd)
	fs := cmd.Flags()
	fs.BoolVar(&output.raw, "raw", false, "print the undecoded response body")
	fs.StringVar(&output.field, "field", "", "print the values at a JSON path, e.g. $[*].label")
	fs.StringSliceVar(&blocks, "blocks", nil, "suggestion blocks, e.g. suggest,cat,product")
	fs.IntVar(&multishop, "multishop-id", 0, "multishop id")
	return cmd
}
