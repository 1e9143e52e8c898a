package icons

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"fortio.org/log"
)

const (
	// DefaultCDN serves the simple-icons npm package.
	DefaultCDN = "https://cdn.jsdelivr.net/npm"
	// DefaultVersion tracks the newest simple-icons release.
	DefaultVersion = "latest"

	catalogPath = "/data/simple-icons.json"
	// floatingTTL bounds how long downloads of an unpinned version are reused.
	floatingTTL = 24 * time.Hour
	fetchLimit  = 32 << 20
)

// ErrOffline is returned when an offline catalog misses its cache.
var ErrOffline = errors.New("icons: not cached and offline")

// CatalogOptions configures LoadCatalog.
type CatalogOptions struct {
	CDN     string // defaults to DefaultCDN
	Version string // simple-icons version, defaults to DefaultVersion
	Client  *http.Client
	// Cache is optional; without it every run downloads the catalog.
	Cache *Cache
	// Offline serves only from Cache.
	Offline bool
}

// Catalog is the Simple Icons dataset. Metadata is loaded eagerly; glyphs
// are downloaded on first use.
type Catalog struct {
	base    string
	pinned  bool
	client  *http.Client
	cache   *Cache
	offline bool

	icons map[string]Icon
	slugs []string
}

type catalogIcon struct {
	Title string `json:"title"`
	Hex   string `json:"hex"`
	Slug  string `json:"slug"`
}

// LoadCatalog downloads (or reads from cache) the Simple Icons metadata.
func LoadCatalog(ctx context.Context, opts CatalogOptions) (*Catalog, error) {
	cdn := strings.TrimRight(opts.CDN, "/")
	if cdn == "" {
		cdn = DefaultCDN
	}
	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	c := &Catalog{
		base:    fmt.Sprintf("%s/simple-icons@%s", cdn, version),
		pinned:  isPinned(version),
		client:  client,
		cache:   opts.Cache,
		offline: opts.Offline,
	}

	data, err := c.fetch(ctx, c.base+catalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading simple-icons catalog: %w", err)
	}
	if err := c.parse(data); err != nil {
		return nil, fmt.Errorf("parsing simple-icons catalog: %w", err)
	}
	log.Debugf("Loaded %d icons from simple-icons@%s", len(c.slugs), version)
	return c, nil
}

func (c *Catalog) parse(data []byte) error {
	var raw []catalogIcon
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Icons []catalogIcon `json:"icons"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return err
		}
		raw = wrapped.Icons
	} else if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	c.icons = make(map[string]Icon, len(raw))
	c.slugs = make([]string, 0, len(raw))
	for _, r := range raw {
		slug := r.Slug
		if slug == "" {
			slug = TitleToSlug(r.Title)
		}
		icon, err := NewIcon(slug, r.Title, r.Hex, "")
		if err != nil {
			log.Warnf("Skipping catalog entry: %v", err)
			continue
		}
		if _, dup := c.icons[slug]; dup {
			continue
		}
		c.icons[slug] = icon
		c.slugs = append(c.slugs, slug)
	}
	slices.Sort(c.slugs)
	return nil
}

// Lookup returns the icon registered under slug.
func (c *Catalog) Lookup(slug string) (Icon, bool) {
	icon, ok := c.icons[slug]
	return icon, ok
}

// Slugs returns every slug in the catalog, sorted.
func (c *Catalog) Slugs() []string {
	return slices.Clone(c.slugs)
}

// Glyph returns the SVG source of slug.
func (c *Catalog) Glyph(ctx context.Context, slug string) ([]byte, error) {
	if _, ok := c.icons[slug]; !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoGlyph, slug)
	}
	return c.fetch(ctx, fmt.Sprintf("%s/icons/%s.svg", c.base, slug))
}

// fetch returns the body of rawURL, going through the cache when present.
// A failed download falls back to a stale cache entry.
func (c *Catalog) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	maxAge := floatingTTL
	if c.pinned {
		maxAge = 0
	}
	if c.cache != nil {
		if data, ok := c.cache.Lookup(rawURL, maxAge); ok {
			return data, nil
		}
	}
	if c.offline {
		if c.cache != nil {
			if data, ok := c.cache.Lookup(rawURL, 0); ok {
				return data, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrOffline, rawURL)
	}

	data, err := c.download(ctx, rawURL)
	if err != nil {
		if c.cache != nil {
			if stale, ok := c.cache.Lookup(rawURL, 0); ok {
				log.Warnf("Using cached copy of %s: %v", rawURL, err)
				return stale, nil
			}
		}
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Store(rawURL, data); err != nil {
			log.Warnf("Could not cache %s: %v", rawURL, err)
		}
	}
	return data, nil
}

func (c *Catalog) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	log.Debugf("Fetching %s", rawURL)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, fetchLimit))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return data, nil
}

// isPinned reports whether version names an exact release, whose files never
// change once published.
func isPinned(version string) bool {
	if version == "" || version == "latest" {
		return false
	}
	for _, r := range version {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return strings.Count(version, ".") == 2
}
