package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/findologic-api-go/pkg/client"
	"github.com/r9s-ai/findologic-api-go/pkg/requests"
)

// listingSetters are the setters search and navigation requests share.
type listingSetters interface {
	commonSetters
	AddAttribute(filter string, value any, specifier string) error
	SetOrder(order string) error
	AddProperty(property string)
	AddPushAttrib(key string, value any, factor float64) error
	SetFirst(first int) error
	SetCount(count int) error
	SetIdentifier(id string)
	AddOutputAttrib(attrib string)
	SetForceOriginalQuery()
	SetOutputAdapter(adapter string) error
}

type listingOptions struct {
	request requestFlags
	output  outputFlags

	first         int
	count         int
	order         string
	attribs       []string
	properties    []string
	pushAttribs   []string
	outputAttribs []string
	identifier    string
	forceOriginal bool
}

func (o *listingOptions) register(cmd *cobra.Command) {
	o.request.register(cmd)
	o.output.register(cmd)
	fs := cmd.Flags()
	fs.IntVar(&o.first, "first", 0, "offset of the first product")
	fs.IntVar(&o.count, "count", 0, "number of products")
	fs.StringVar(&o.order, "order", "", "sort order, e.g. \"price ASC\"")
	fs.StringArrayVarP(&o.attribs, "attrib", "a", nil, "filter as filter=value or filter:specifier=value (repeatable)")
	fs.StringArrayVar(&o.properties, "property", nil, "extra product property to return (repeatable)")
	fs.StringArrayVar(&o.pushAttribs, "push-attrib", nil, "boost as key=value:factor (repeatable)")
	fs.StringArrayVar(&o.outputAttribs, "output-attrib", nil, "filter to include in the response (repeatable)")
	fs.StringVar(&o.identifier, "identifier", "", "product identifier for direct lookup")
	fs.BoolVar(&o.forceOriginal, "force-original-query", false, "disable query correction")
}

func (o *listingOptions) apply(cmd *cobra.Command, req listingSetters) error {
	if err := o.request.apply(req); err != nil {
		return err
	}
	if cmd.Flags().Changed("first") {
		if err := req.SetFirst(o.first); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("count") {
		if err := req.SetCount(o.count); err != nil {
			return err
		}
	}
	if o.order != "" {
		if err := req.SetOrder(o.order); err != nil {
			return err
		}
	}
	for _, s := range o.attribs {
		a, err := parseAttribFlag(s)
		if err != nil {
			return err
		}
		if err := req.AddAttribute(a.filter, a.value, a.specifier); err != nil {
			return err
		}
	}
	for _, p := range o.properties {
		req.AddProperty(p)
	}
	for _, s := range o.pushAttribs {
		p, err := parsePushAttribFlag(s)
		if err != nil {
			return err
		}
		if err := req.AddPushAttrib(p.key, p.value, p.factor); err != nil {
			return err
		}
	}
	for _, a := range o.outputAttribs {
		req.AddOutputAttrib(a)
	}
	if o.identifier != "" {
		req.SetIdentifier(o.identifier)
	}
	if o.forceOriginal {
		req.SetForceOriginalQuery()
	}
	return req.SetOutputAdapter(o.output.adapter())
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &listingOptions{}
	var query string
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Send a search request to index.php",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				query = args[0]
			}
			req := requests.NewSearchRequest()
			req.SetQuery(query)
			if err := opts.apply(cmd, req); err != nil {
				return err
			}
			return runListing(cmd.Context(), root, opts.output, cmd.OutOrStdout(), req,
				func(ctx context.Context, c *client.Client, w io.Writer, st styles) error {
					if opts.output.json {
						resp, err := c.SendSearchRequestJSON(ctx, req)
						if err != nil {
							return err
						}
						renderJSONResponse(w, st, resp)
						return nil
					}
					resp, err := c.SendSearchRequest(ctx, req)
					if err != nil {
						return err
					}
					renderXMLResponse(w, st, resp)
					return nil
				})
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&query, "query", "q", "", "search term")
	return cmd
}

func newNavigateCmd(root *rootOptions) *cobra.Command {
	opts := &listingOptions{}
	var selected []string
	cmd := &cobra.Command{
		Use:   "navigate",
		Short: "Send a navigation request to selector.php",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := requests.NewNavigationRequest()
			for _, s := range selected {
				a, err := parseAttribFlag(s)
				if err != nil {
					return err
				}
				if a.specifier != "" {
					return errors.New("selected does not take a specifier")
				}
				if err := req.SetSelected(a.filter, a.value); err != nil {
					return err
				}
			}
			if err := opts.apply(cmd, req); err != nil {
				return err
			}
			return runListing(cmd.Context(), root, opts.output, cmd.OutOrStdout(), req,
				func(ctx context.Context, c *client.Client, w io.Writer, st styles) error {
					if opts.output.json {
						resp, err := c.SendNavigationRequestJSON(ctx, req)
						if err != nil {
							return err
						}
						renderJSONResponse(w, st, resp)
						return nil
					}
					resp, err := c.SendNavigationRequest(ctx, req)
					if err != nil {
						return err
					}
					renderXMLResponse(w, st, resp)
					return nil
				})
		},
	}
	opts.register(cmd)
	cmd.Flags().StringArrayVar(&selected, "selected", nil, "selected filter as filter=value, e.g. cat=Shoes (repeatable)")
	return cmd
}

type renderFunc func(ctx context.Context, c *client.Client, w io.Writer, st styles) error

// runListing handles the --raw and --field output modes and otherwise hands
// over to render.
func runListing(ctx context.Context, root *rootOptions, out outputFlags, w io.Writer, req requests.Request, render renderFunc) error {
	c, err := root.newClient()
	if err != nil {
		return err
	}
	if out.raw || out.field != "" {
		body, err := c.Raw(ctx, req)
		if err != nil {
			return err
		}
		if out.field != "" {
			return writeField(w, body, out.field)
		}
		_, err = w.Write(body)
		return err
	}
	st := newStyles(w)
	if err := render(ctx, c, w, st); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("took %s", c.ResponseTime())))
	return err
}
