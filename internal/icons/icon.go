// Package icons provides brand icon records (slug, title, colour, SVG glyph)
// from the Simple Icons catalog and from user-supplied icon files.
package icons

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/chipwolf/badgesort/internal/color"
)

// ErrNoGlyph is returned when a dataset has no SVG source for a slug.
var ErrNoGlyph = errors.New("icons: no glyph")

// Icon is one brand icon.
type Icon struct {
	Slug  string
	Title string
	Hex   string
	Color color.RGB
	// SVG holds the glyph source when it is known up front. Catalog icons
	// leave it empty and serve glyphs lazily through Dataset.Glyph.
	SVG string
}

// NewIcon validates hex and returns an Icon with its colour parsed.
func NewIcon(slug, title, hex, svg string) (Icon, error) {
	c, err := color.ParseHex(hex)
	if err != nil {
		return Icon{}, fmt.Errorf("icon %s: %w", slug, err)
	}
	return Icon{
		Slug:  slug,
		Title: title,
		Hex:   c.Hex(),
		Color: c,
		SVG:   svg,
	}, nil
}

// Dataset is a keyed source of icons.
type Dataset interface {
	Lookup(slug string) (Icon, bool)
	Slugs() []string
	Glyph(ctx context.Context, slug string) ([]byte, error)
}

// Selection is one requested slug with an optional hyperlink override,
// written as "slug" or "slug?url=https://example.com".
type Selection struct {
	Slug string
	Link string
}

// ParseSelections splits args on commas and whitespace, drops empty entries
// and duplicate slugs (first wins), and parses any query suffix.
func ParseSelections(args []string) ([]Selection, error) {
	var out []Selection
	seen := make(map[string]bool)
	for _, arg := range args {
		tokens := strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		for _, tok := range tokens {
			sel, err := parseSelection(tok)
			if err != nil {
				return nil, err
			}
			if sel.Slug == "" || seen[sel.Slug] {
				continue
			}
			seen[sel.Slug] = true
			out = append(out, sel)
		}
	}
	return out, nil
}

func parseSelection(tok string) (Selection, error) {
	slug, query, found := strings.Cut(tok, "?")
	sel := Selection{Slug: strings.ToLower(slug)}
	if !found {
		return sel, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return Selection{}, fmt.Errorf("parsing options for slug %s: %w", slug, err)
	}
	sel.Link = values.Get("url")
	return sel, nil
}
