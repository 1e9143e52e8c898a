package icons

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Static is an in-memory dataset whose icons carry their own glyphs.
type Static struct {
	icons map[string]Icon
	slugs []string
}

// NewStatic builds a dataset from icons. Later icons replace earlier ones
// with the same slug.
func NewStatic(icons ...Icon) *Static {
	s := &Static{icons: make(map[string]Icon, len(icons))}
	for _, icon := range icons {
		if _, dup := s.icons[icon.Slug]; !dup {
			s.slugs = append(s.slugs, icon.Slug)
		}
		s.icons[icon.Slug] = icon
	}
	slices.Sort(s.slugs)
	return s
}

// Lookup returns the icon registered under slug.
func (s *Static) Lookup(slug string) (Icon, bool) {
	icon, ok := s.icons[slug]
	return icon, ok
}

// Slugs returns every slug, sorted.
func (s *Static) Slugs() []string {
	return slices.Clone(s.slugs)
}

// Glyph returns the icon's inline SVG.
func (s *Static) Glyph(_ context.Context, slug string) ([]byte, error) {
	icon, ok := s.icons[slug]
	if !ok || icon.SVG == "" {
		return nil, fmt.Errorf("%w for %s", ErrNoGlyph, slug)
	}
	return []byte(icon.SVG), nil
}

// IconFile is the on-disk shape of a user icon file.
type IconFile struct {
	Icons []IconFileEntry `yaml:"icons" toml:"icons" json:"icons"`
}

// IconFileEntry describes one user-defined icon. Either SVG holds the glyph
// inline or Path points at an SVG file relative to the icon file.
type IconFileEntry struct {
	Slug  string `yaml:"slug"  toml:"slug"  json:"slug"`
	Title string `yaml:"title" toml:"title" json:"title"`
	Hex   string `yaml:"hex"   toml:"hex"   json:"hex"`
	SVG   string `yaml:"svg"   toml:"svg"   json:"svg"`
	Path  string `yaml:"path"  toml:"path"  json:"path"`
}

// LoadFile reads user-defined icons from a YAML, TOML or JSON file chosen by
// extension.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading icon file: %w", err)
	}

	var f IconFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("icon file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing icon file %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	icons := make([]Icon, 0, len(f.Icons))
	for i, e := range f.Icons {
		if e.Title == "" {
			return nil, fmt.Errorf("icon file %s: entry %d has no title", path, i)
		}
		slug := e.Slug
		if slug == "" {
			slug = TitleToSlug(e.Title)
		}
		svg := e.SVG
		if svg == "" && e.Path != "" {
			p := e.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			raw, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("icon %s: reading glyph: %w", slug, err)
			}
			svg = string(raw)
		}
		icon, err := NewIcon(slug, e.Title, e.Hex, svg)
		if err != nil {
			return nil, fmt.Errorf("icon file %s: %w", path, err)
		}
		icons = append(icons, icon)
	}
	return NewStatic(icons...), nil
}

// Layered searches datasets in order; the first one that knows a slug wins.
type Layered []Dataset

// Lookup returns the icon from the first dataset that has slug.
func (l Layered) Lookup(slug string) (Icon, bool) {
	for _, d := range l {
		if icon, ok := d.Lookup(slug); ok {
			return icon, true
		}
	}
	return Icon{}, false
}

// Slugs returns the sorted union of all slugs.
func (l Layered) Slugs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range l {
		for _, s := range d.Slugs() {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Glyph asks the dataset that owns slug for its glyph.
func (l Layered) Glyph(ctx context.Context, slug string) ([]byte, error) {
	for _, d := range l {
		if _, ok := d.Lookup(slug); ok {
			return d.Glyph(ctx, slug)
		}
	}
	return nil, fmt.Errorf("%w for %s", ErrNoGlyph, slug)
}
