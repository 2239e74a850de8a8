package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
)

// commonSetters are the setters every request kind shares.
type commonSetters interface {
	SetUserIP(ip string) error
	SetReferer(referer string) error
	SetRevision(revision string) error
	SetShopURL(shopURL string) error
	SetUserGroupHash(hash string) error
	AddGroup(group string) error
}

type requestFlags struct {
	userIP        string
	referer       string
	revision      string
	shopURL       string
	userGroupHash string
	groups        []string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.userIP, "userip", "127.0.0.1", "end user ip address")
	fs.StringVar(&f.revision, "revision", definitions.DefaultRevision, "client revision sent to the service")
	fs.StringVar(&f.referer, "referer", "", "referring page url")
	fs.StringVar(&f.shopURL, "shopurl", "", "shop url")
	fs.StringVar(&f.userGroupHash, "usergrouphash", "", "user group hash")
	fs.StringArrayVar(&f.groups, "group", nil, "user group (repeatable)")
}

func (f *requestFlags) apply(req commonSetters) error {
	if err := req.SetUserIP(f.userIP); err != nil {
		return err
	}
	if err := req.SetRevision(f.revision); err != nil {
		return err
	}
	if f.referer != "" {
		if err := req.SetReferer(f.referer); err != nil {
			return err
		}
	}
	if f.shopURL != "" {
		if err := req.SetShopURL(f.shopURL); err != nil {
			return err
		}
	}
	if f.userGroupHash != "" {
		if err := req.SetUserGroupHash(f.userGroupHash); err != nil {
			return err
		}
	}
	for _, g := range f.groups {
		if err := req.AddGroup(g); err != nil {
			return err
		}
	}
	return nil
}

// attribFlag is "filter=value" or "filter:specifier=value".
type attribFlag struct {
	filter    string
	specifier string
	value     string
}

func parseAttribFlag(s string) (attribFlag, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return attribFlag{}, fmt.Errorf("attribute %q: want filter=value or filter:specifier=value", s)
	}
	filter, specifier, _ := strings.Cut(key, ":")
	return attribFlag{filter: filter, specifier: specifier, value: value}, nil
}

// pushAttribFlag is "key=value:factor".
type pushAttribFlag struct {
	key    string
	value  string
	factor float64
}

func parsePushAttribFlag(s string) (pushAttribFlag, error) {
	key, rest, ok := strings.Cut(s, "=")
	if !ok {
		return pushAttribFlag{}, fmt.Errorf("push attribute %q: want key=value:factor", s)
	}
	i := strings.LastIndex(rest, ":")
	if i < 0 {
		return pushAttribFlag{}, fmt.Errorf("push attribute %q: want key=value:factor", s)
	}
	factor, err := strconv.ParseFloat(rest[i+1:], 64)
	if err != nil {
		return pushAttribFlag{}, fmt.Errorf("push attribute %q: factor: %w", s, err)
	}
	return pushAttribFlag{key: key, value: rest[:i], factor: factor}, nil
}
