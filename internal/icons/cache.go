package icons

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// cacheManifestVersion is bumped when the cache format changes.
const cacheManifestVersion = "1"

// Cache keeps downloaded catalog metadata and glyphs on disk so repeated
// runs do not refetch them. All methods are safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	dir      string        // e.g. ~/.cache/badgesort/
	manifest CacheManifest // loaded from manifest.json
	now      func() time.Time
}

// CacheManifest is the top-level structure persisted as manifest.json.
type CacheManifest struct {
	Version string                 `json:"version"`
	Entries map[string]*CacheEntry `json:"entries"` // keyed by source URL
}

// CacheEntry records one cached download.
type CacheEntry struct {
	Filename    string `json:"filename"` // just the filename, stored in cache dir
	ContentHash string `json:"contentHash"`
	FetchedAt   int64  `json:"fetchedAt"`
}

// NewCache creates a Cache rooted at cacheDir. If a manifest.json already
// exists there it is loaded; otherwise an empty manifest is initialised.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	c := &Cache{
		dir: cacheDir,
		manifest: CacheManifest{
			Version: cacheManifestVersion,
			Entries: make(map[string]*CacheEntry),
		},
		now: time.Now,
	}

	data, err := os.ReadFile(filepath.Join(cacheDir, "manifest.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading cache manifest: %w", err)
	}

	var m CacheManifest
	if err := json.Unmarshal(data, &m); err != nil {
		// Corrupt manifest, start fresh.
		return c, nil
	}
	if m.Version != cacheManifestVersion {
		return c, nil
	}
	if m.Entries == nil {
		m.Entries = make(map[string]*CacheEntry)
	}
	c.manifest = m
	return c, nil
}

// DefaultCacheDir returns the per-user cache directory for downloaded icons.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "badgesort"), nil
}

// Lookup returns the cached bytes for key when they are younger than maxAge.
// maxAge <= 0 accepts entries of any age.
func (c *Cache) Lookup(key string, maxAge time.Duration) ([]byte, bool) {
	c.mu.Lock()
	entry, ok := c.manifest.Entries[key]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	if maxAge > 0 && c.now().Sub(time.Unix(entry.FetchedAt, 0)) > maxAge {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(c.dir, entry.Filename))
	if err != nil {
		return nil, false
	}
	if hashBytes(data) != entry.ContentHash {
		return nil, false
	}
	return data, true
}

// Store writes data for key and persists the manifest.
func (c *Cache) Store(key string, data []byte) error {
	hash := hashBytes(data)
	filename := hashBytes([]byte(key))[:24] + filepath.Ext(key)

	if err := os.WriteFile(filepath.Join(c.dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifest.Entries[key] = &CacheEntry{
		Filename:    filename,
		ContentHash: hash,
		FetchedAt:   c.now().Unix(),
	}
	return c.saveManifest()
}

// saveManifest writes the manifest; the caller holds c.mu.
func (c *Cache) saveManifest() error {
	data, err := json.MarshalIndent(c.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling cache manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(c.dir, "manifest.json"), data, 0o644)
}

func hashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
