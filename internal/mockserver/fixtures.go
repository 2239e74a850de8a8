package mockserver

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
)

//go:embed fixtures/*
var defaultFixtures embed.FS

// Fixture is one canned response body.
type Fixture struct {
	Name        string
	ContentType string
	Body        []byte
}

// FixtureSet maps fixture file names ("index.xml", "autocomplete.json") to
// their bodies. It is immutable once built.
type FixtureSet struct {
	byName map[string]Fixture
}

// Names returns the fixture names in lexical order.
func (s *FixtureSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.byName))
	for k := range s.byName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the fixture serving endpoint in the given output adapter.
func (s *FixtureSet) Lookup(endpoint, adapter string) (Fixture, bool) {
	if s == nil {
		return Fixture{}, false
	}
	f, ok := s.byName[FixtureName(endpoint, adapter)]
	return f, ok
}

// FixtureName maps "index.php" + "XML_2.1" to "index.xml".
func FixtureName(endpoint, adapter string) string {
	base := strings.TrimSuffix(strings.TrimPrefix(endpoint, "/"), ".php")
	if adapter == definitions.OutputAdapterJSON10 {
		return base + ".json"
	}
	return base + ".xml"
}

// LoadFixtures returns the built-in fixtures overlaid with the .xml and
// .json files found directly in dir. A missing dir is not an error.
func LoadFixtures(dir string) (*FixtureSet, error) {
	set := &FixtureSet{byName: map[string]Fixture{}}
	if err := loadFS(set, defaultFixtures, "fixtures"); err != nil {
		return nil, err
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return set, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return set, nil
	}
	if err := loadFS(set, os.DirFS(dir), "."); err != nil {
		return nil, fmt.Errorf("load fixtures dir %q: %w", dir, err)
	}
	return set, nil
}

func loadFS(set *FixtureSet, fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !isFixtureFile(e.Name()) {
			continue
		}
		b, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, e.Name())))
		if err != nil {
			return err
		}
		set.byName[e.Name()] = Fixture{
			Name:        e.Name(),
			ContentType: contentType(e.Name()),
			Body:        b,
		}
	}
	return nil
}

func isFixtureFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml", ".json":
		return true
	}
	return false
}

func contentType(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return "application/json; charset=utf-8"
	}
	return "text/xml; charset=utf-8"
}
