package icons

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheStoreAndLookup(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	key := "https://cdn.example.com/simple-icons@latest/icons/github.svg"
	if err := c.Store(key, []byte("<svg/>")); err != nil {
		t.Fatalf("Store: %v", err)
	}

	data, ok := c.Lookup(key, time.Hour)
	if !ok {
		t.Fatal("expected cache hit after Store")
	}
	if string(data) != "<svg/>" {
		t.Errorf("got %q, want %q", data, "<svg/>")
	}

	// A fresh Cache over the same directory sees the persisted manifest.
	c2, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	data, ok = c2.Lookup(key, 0)
	if !ok {
		t.Fatal("expected cache hit from persisted manifest")
	}
	if string(data) != "<svg/>" {
		t.Errorf("got %q, want %q", data, "<svg/>")
	}

	if _, ok := c2.Lookup("https://cdn.example.com/other.svg", 0); ok {
		t.Error("unknown key should miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	if err := c.Store("k.json", []byte("{}")); err != nil {
		t.Fatalf("Store: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Lookup("k.json", time.Hour); ok {
		t.Error("entry older than maxAge should miss")
	}
	if _, ok := c.Lookup("k.json", 0); !ok {
		t.Error("maxAge 0 should accept stale entries")
	}
}

func TestCacheDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if err := c.Store("k.svg", []byte("original")); err != nil {
		t.Fatalf("Store: %v", err)
	}

	entry := c.manifest.Entries["k.svg"]
	if entry == nil {
		t.Fatal("manifest entry missing after Store")
	}
	if err := os.WriteFile(filepath.Join(dir, entry.Filename), []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Lookup("k.svg", 0); ok {
		t.Error("modified cache file should miss")
	}
}

func TestCacheCorruptManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewCache(dir)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if len(c.manifest.Entries) != 0 {
		t.Errorf("corrupt manifest should start empty, got %d entries", len(c.manifest.Entries))
	}
}
