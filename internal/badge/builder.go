package badge

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"fortio.org/log"

	"github.com/chipwolf/badgesort/internal/color"
	"github.com/chipwolf/badgesort/internal/icons"
)

// Entry is one badge being built.
type Entry struct {
	Icon icons.Icon
	// Logo is the slug the provider renders; empty means Icon.Slug.
	Logo string
	// Link is the hyperlink target, empty for the default.
	Link string
	// URL is set by Builder.
	URL string
}

func (e Entry) logo() string {
	if e.Logo != "" {
		return e.Logo
	}
	return e.Icon.Slug
}

// RGB returns the badge background colour.
func (e Entry) RGB() color.RGB {
	return e.Icon.Color
}

// Builder turns icons into badge image URLs.
type Builder struct {
	Provider Provider
	Style    string
	// EmbedSVG embeds glyphs even when the provider could render the slug.
	EmbedSVG bool
	// Verify fails the build when the service rejects a URL.
	Verify bool
	// Inline replaces every URL with the rendered badge as a data URI.
	Inline bool

	ShieldsBase string
	BadgenBase  string

	Embedder Embedder
	Glyphs   icons.Dataset
	Logos    *LogoCache
	Fetcher  *Fetcher
	Workers  int
}

// BuildAll sets URL on every entry. URLs are built concurrently; entries keep
// their positions.
func (b *Builder) BuildAll(ctx context.Context, entries []Entry) error {
	return forEach(len(entries), b.Workers, func(i int) error {
		u, err := b.Build(ctx, entries[i])
		if err != nil {
			return fmt.Errorf("building badge for %s: %w", entries[i].Icon.Slug, err)
		}
		entries[i].URL = u
		return nil
	})
}

// Build returns the badge URL for one entry.
func (b *Builder) Build(ctx context.Context, e Entry) (string, error) {
	var u string
	switch b.Provider {
	case Shields, "":
		u = b.shields(ctx, e)
	case Badgen:
		u = b.badgen(ctx, e)
	default:
		return "", fmt.Errorf("unknown provider %q", string(b.Provider))
	}

	if b.Inline && b.Fetcher != nil {
		u = b.Fetcher.Inline(ctx, u)
	}
	if b.Verify && b.Fetcher != nil {
		if err := b.Fetcher.Verify(ctx, u); err != nil {
			return "", err
		}
	}
	return u, nil
}

func (b *Builder) shields(ctx context.Context, e Entry) string {
	base := strings.TrimRight(b.ShieldsBase, "/")
	if base == "" {
		base = DefaultShieldsBase
	}
	rgb := e.RGB()
	contrast := color.Contrast(rgb[0], rgb[1], rgb[2])
	prefix := fmt.Sprintf("%s/badge/%s-%s.svg?style=%s", base, shieldsLabel(e.Icon.Title), e.Icon.Hex, url.QueryEscape(b.Style))
	native := fmt.Sprintf("%s&logo=%s&logoColor=%s", prefix, escapeAll(e.logo()), contrast)

	if !b.EmbedSVG && b.Logos.Available(ctx, e.logo()) {
		return native
	}

	uri, err := b.embed(ctx, e, contrast)
	if err != nil {
		log.Warnf("Could not embed logo for %s, using slug reference: %v", e.Icon.Slug, err)
		return native
	}
	log.Debugf("Embedded logo for %s", e.Icon.Slug)
	return fmt.Sprintf("%s&logo=%s", prefix, escapeAll(uri))
}

func (b *Builder) badgen(ctx context.Context, e Entry) string {
	base := strings.TrimRight(b.BadgenBase, "/")
	if base == "" {
		base = DefaultBadgenBase
	}
	rgb := e.RGB()
	contrast := color.Contrast(rgb[0], rgb[1], rgb[2])

	u := fmt.Sprintf("%s/badge/icon/%s/%s?label", base, escapeAll(e.Icon.Title), e.Icon.Hex)
	if b.Style == "flat" {
		u += "&style=flat"
	}

	uri, err := b.embed(ctx, e, contrast)
	if err != nil {
		log.Warnf("Could not embed logo for %s, rendering without icon: %v", e.Icon.Slug, err)
		return u
	}
	return u + "&icon=" + escapeAll(uri)
}

func (b *Builder) embed(ctx context.Context, e Entry, fill string) (string, error) {
	var glyph []byte
	switch {
	case e.Icon.SVG != "" && e.Logo == "":
		glyph = []byte(e.Icon.SVG)
	case b.Glyphs != nil:
		g, err := b.Glyphs.Glyph(ctx, e.logo())
		if err != nil {
			return "", err
		}
		glyph = g
	default:
		return "", fmt.Errorf("%w for %s", icons.ErrNoGlyph, e.logo())
	}
	return b.Embedder.DataURI(glyph, fill)
}
