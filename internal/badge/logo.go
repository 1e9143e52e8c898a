package badge

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"fortio.org/log"
)

// LogoCache remembers, for one run, whether shields.io can render a logo by
// slug. It is safe for concurrent use.
type LogoCache struct {
	fetcher *Fetcher
	base    string
	skip    bool

	mu    sync.Mutex
	known map[string]bool
}

// NewLogoCache returns a cache that probes the shields.io instance at base.
// With skip set every slug is assumed to be available and nothing is probed.
func NewLogoCache(fetcher *Fetcher, base string, skip bool) *LogoCache {
	if base == "" {
		base = DefaultShieldsBase
	}
	return &LogoCache{
		fetcher: fetcher,
		base:    strings.TrimRight(base, "/"),
		skip:    skip,
		known:   make(map[string]bool),
	}
}

// Available reports whether the service renders slug as a logo. Probe
// failures are logged and count as available.
func (c *LogoCache) Available(ctx context.Context, slug string) bool {
	if c == nil || c.skip {
		return true
	}
	c.mu.Lock()
	ok, cached := c.known[slug]
	c.mu.Unlock()
	if cached {
		return ok
	}

	ok, err := c.probe(ctx, slug)
	if err != nil {
		log.Warnf("Could not check logo availability for %s: %v", slug, err)
		ok = true
	}
	log.Debugf("Logo %s available on shields.io: %v", slug, ok)

	c.mu.Lock()
	c.known[slug] = ok
	c.mu.Unlock()
	return ok
}

// probe renders a throwaway badge with the logo and looks for the embedded
// image element shields.io adds when it recognises the slug.
func (c *LogoCache) probe(ctx context.Context, slug string) (bool, error) {
	u := fmt.Sprintf("%s/badge/logo-000000.svg?logo=%s", c.base, escapeAll(slug))
	body, status, err := c.fetcher.Get(ctx, u)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("%s returned %d", u, status)
	}
	return bytes.Contains(body, []byte("<image")), nil
}
