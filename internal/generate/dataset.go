package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fortio.org/log"

	"github.com/chipwolf/badgesort/internal/config"
	"github.com/chipwolf/badgesort/internal/icons"
)

// DatasetOptions locates the icon sources for LoadDataset.
type DatasetOptions struct {
	// CDN overrides icons.DefaultCDN.
	CDN    string
	Client *http.Client
}

// LoadDataset opens the Simple Icons catalog through the on-disk cache and,
// when opts.Icons names a file, layers the user's icons over it. Offline runs
// with an uncached catalog fall back to the user's icons alone.
func LoadDataset(ctx context.Context, opts *config.Options, src DatasetOptions) (icons.Dataset, error) {
	dir := opts.CacheDir
	if dir == "" {
		d, err := icons.DefaultCacheDir()
		if err != nil {
			log.Warnf("No user cache directory, icons will not be cached: %v", err)
		}
		dir = d
	}

	var cache *icons.Cache
	if dir != "" {
		c, err := icons.NewCache(dir)
		if err != nil {
			log.Warnf("Icon cache disabled: %v", err)
		} else {
			cache = c
		}
	}

	var custom *icons.Static
	if opts.Icons != "" {
		c, err := icons.LoadFile(opts.Icons)
		if err != nil {
			return nil, fmt.Errorf("loading custom icons: %w", err)
		}
		log.Infof("Loaded %d custom icons from %s", len(c.Slugs()), opts.Icons)
		custom = c
	}

	catalog, err := icons.LoadCatalog(ctx, icons.CatalogOptions{
		CDN:     src.CDN,
		Version: opts.IconsVersion,
		Client:  src.Client,
		Cache:   cache,
		Offline: opts.Offline,
	})
	switch {
	case err != nil && custom != nil && errors.Is(err, icons.ErrOffline):
		log.Warnf("Simple Icons catalog is not cached, using only %s", opts.Icons)
		return custom, nil
	case err != nil:
		return nil, err
	case custom == nil:
		return catalog, nil
	}
	return icons.Layered{custom, catalog}, nil
}
