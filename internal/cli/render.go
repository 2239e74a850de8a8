package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/r9s-ai/findologic-api-go/pkg/responses/json10"
	"github.com/r9s-ai/findologic-api-go/pkg/responses/xml21"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
}

// newStyles colours output only when w is a terminal.
func newStyles(w io.Writer) styles {
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		plain := lipgloss.NewStyle()
		return styles{title: plain, label: plain, muted: plain, selected: plain}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		muted:    lipgloss.NewStyle().Faint(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	}
}

func (st styles) field(w io.Writer, name, value string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", st.label.Render(name+":"), value)
}

func renderXMLResponse(w io.Writer, st styles, resp *xml21.Response) {
	_, _ = fmt.Fprintln(w, st.title.Render(fmt.Sprintf("%d results", resp.Results.Count)))
	if q := resp.Query; q != nil {
		if q.QueryString != nil {
			value := q.QueryString.Value
			if q.QueryString.Type != nil {
				value += " (" + *q.QueryString.Type + ")"
			}
			st.field(w, "query", value)
		}
		if q.DidYouMeanQuery != nil {
			st.field(w, "did you mean", *q.DidYouMeanQuery)
		}
		if q.OriginalQuery != nil {
			st.field(w, "original query", q.OriginalQuery.Value)
		}
	}
	if resp.LandingPage != nil {
		st.field(w, "landing page", resp.LandingPage.Link)
	}
	if resp.Promotion != nil {
		st.field(w, "promotion", resp.Promotion.Link)
	}
	for _, p := range resp.Products {
		line := p.ID
		if p.Relevance != nil {
			line += " " + st.muted.Render("relevance="+formatFloat(*p.Relevance))
		}
		if p.Direct {
			line += " " + st.selected.Render("direct")
		}
		st.field(w, "product", line)
	}
	for _, f := range resp.Filters.All() {
		name := f.Name
		if f.Display != nil {
			name = *f.Display
		}
		_, _ = fmt.Fprintln(w, st.title.Render(name))
		if a := f.Attributes; a != nil && a.TotalRange != nil {
			_, _ = fmt.Fprintf(w, "  %s\n", formatRange(a.TotalRange.Min, a.TotalRange.Max))
		}
		xml21.WalkItems(f.Items, func(path []string, it *xml21.Item) bool {
			renderNode(w, st, len(path)-1, it.Name, it.Frequency, it.Selected)
			return true
		})
	}
}

func renderJSONResponse(w io.Writer, st styles, resp *json10.Response) {
	meta := resp.Result.Metadata
	_, _ = fmt.Fprintln(w, st.title.Render(fmt.Sprintf("%d results", meta.TotalResults)))
	if q := resp.Request.Query; q != nil {
		st.field(w, "query", *q)
	}
	if v := resp.Result.Variant; v != nil && v.Name != nil {
		st.field(w, "variant", *v.Name)
	}
	if meta.LandingPage != nil {
		st.field(w, "landing page", meta.LandingPage.Link)
	}
	if meta.Promotion != nil {
		st.field(w, "promotion", meta.Promotion.Link)
	}
	for _, it := range resp.Result.Items {
		line := it.ID
		if it.Name != nil {
			line += " " + *it.Name
		}
		if it.Price != nil {
			line += " " + st.muted.Render(formatFloat(*it.Price)+" "+meta.CurrencySymbol)
		}
		st.field(w, "item", line)
	}
	for _, f := range resp.Result.Filters.All() {
		name := f.Name
		if f.DisplayName != nil {
			name = *f.DisplayName
		}
		_, _ = fmt.Fprintln(w, st.title.Render(name))
		if f.TotalRange != nil {
			_, _ = fmt.Fprintf(w, "  %s\n", formatRange(f.TotalRange.Min, f.TotalRange.Max))
		}
		json10.WalkValues(f.Values, func(path []string, v *json10.FilterValue) bool {
			renderNode(w, st, len(path)-1, v.Name, v.Frequency, v.Selected)
			return true
		})
	}
}

func renderSuggestions(w io.Writer, st styles, resp *json10.SuggestResponse) {
	order, groups := resp.Blocks()
	for _, block := range order {
		_, _ = fmt.Fprintln(w, st.title.Render(block))
		for _, s := range groups[block] {
			line := "  " + s.Label
			if s.Frequency != nil {
				line += " " + st.muted.Render("("+strconv.Itoa(*s.Frequency)+")")
			}
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

func renderNode(w io.Writer, st styles, depth int, name string, frequency *int, selected bool) {
	line := strings.Repeat("  ", depth+1) + name
	if frequency != nil {
		line += " " + st.muted.Render("("+strconv.Itoa(*frequency)+")")
	}
	if selected {
		line = st.selected.Render(line + " *")
	}
	_, _ = fmt.Fprintln(w, line)
}

func formatRange(lo, hi *float64) string {
	from, to := "-", "-"
	if lo != nil {
		from = formatFloat(*lo)
	}
	if hi != nil {
		to = formatFloat(*hi)
	}
	return from + " .. " + to
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
