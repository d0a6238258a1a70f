// Package cache is a persistent, content-addressable translation cache.
// Entries map a hash of (source language, target language, normalized text)
// to the translated string. The backing store is a flat JSON file so it can
// be inspected and repaired by hand; a corrupt or missing file simply
// yields an empty cache, since caching is an optimization, never a
// correctness requirement.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// DefaultAutoSaveInterval is the number of pending mutations after which
// the cache is flushed to disk.
const DefaultAutoSaveInterval = 10

// Cache is a translation cache persisted to a JSON file. All mutating
// operations are serialized by an internal lock; reads may run
// concurrently with other reads. One process owns the file at a time.
type Cache struct {
	path             string
	autoSaveInterval int

	mu      sync.RWMutex
	entries map[string]string
	order   []string // key insertion order, used by Cleanup
	pending int
}

// Stats summarises the cache state for observability.
type Stats struct {
	Entries       int
	Path          string
	FileExists    bool
	FileSizeBytes int64
	Pending       int
}

// DefaultPath returns the cache file location under the per-user cache
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, "doctran", "translations.json"), nil
}

// New opens (or creates) a cache backed by the file at path. An unreadable
// or invalid file is treated as empty rather than failing the run.
// autoSaveInterval ≤ 0 selects DefaultAutoSaveInterval.
func New(path string, autoSaveInterval int) (*Cache, error) {
	if autoSaveInterval <= 0 {
		autoSaveInterval = DefaultAutoSaveInterval
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		path:             path,
		autoSaveInterval: autoSaveInterval,
		entries:          make(map[string]string),
	}
	c.load()
	return c, nil
}

// Key returns the stable cache key for a translation: an MD5 hex digest of
// the lowercased language pair and the NFC-normalized, whitespace-trimmed
// text. Leading/trailing whitespace differences are cache-equivalent;
// internal whitespace differences are not.
func Key(text, sourceLang, targetLang string) string {
	normalized := norm.NFC.String(strings.TrimSpace(text))
	raw := strings.ToLower(sourceLang) + ":" + strings.ToLower(targetLang) + ":" + normalized
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached translation for (text, sourceLang, targetLang),
// or ok=false when absent.
func (c *Cache) Get(text, sourceLang, targetLang string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return text, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[Key(text, sourceLang, targetLang)]
	return v, ok
}

// Set stores a single translation and persists immediately.
func (c *Cache) Set(text, translation, sourceLang, targetLang string) error {
	if strings.TrimSpace(text) == "" || translation == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(Key(text, sourceLang, targetLang), translation)
	return c.saveLocked()
}

// SetBatch stores several text→translation pairs and persists once at the
// end. Pairs whose translation is empty or equal to the source are not
// cached.
func (c *Cache) SetBatch(pairs map[string]string, sourceLang, targetLang string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := 0
	for text, translation := range pairs {
		if strings.TrimSpace(text) == "" || translation == "" || translation == text {
			continue
		}
		c.put(Key(text, sourceLang, targetLang), translation)
		stored++
	}
	if stored == 0 {
		return nil
	}
	return c.saveLocked()
}

// Save flushes the in-memory entries to disk.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	c.order = nil
	c.pending = 0
	return c.saveLocked()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup evicts the oldest entries until at most maxEntries remain and
// reports how many were removed. The cache never calls this on its own.
func (c *Cache) Cleanup(maxEntries int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if maxEntries < 0 || len(c.entries) <= maxEntries {
		return 0, nil
	}

	removed := 0
	for _, key := range c.order {
		if len(c.entries) <= maxEntries {
			break
		}
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			removed++
		}
	}
	c.compactOrder()
	if err := c.saveLocked(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Stats returns a snapshot of the cache state.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := Stats{
		Entries: len(c.entries),
		Path:    c.path,
		Pending: c.pending,
	}
	if info, err := os.Stat(c.path); err == nil {
		st.FileExists = true
		st.FileSizeBytes = info.Size()
	}
	return st
}

// put records an entry under the lock and flushes when enough mutations
// accumulated.
func (c *Cache) put(key, translation string) {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = translation
	c.pending++
	if c.pending >= c.autoSaveInterval {
		// Interim flush; best-effort. The explicit Save/Set paths report
		// persistence errors to the caller.
		_ = c.saveLocked()
	}
}

// load reads the backing file. Any failure leaves the cache empty.
func (c *Cache) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return
	}
	c.entries = entries
	c.order = make([]string, 0, len(entries))
	for key := range entries {
		c.order = append(c.order, key)
	}
}

// saveLocked writes the cache file atomically: marshal to a sibling temp
// file, then rename over the primary. An interrupted write leaves either
// the old or the new complete file, never a torn one. Caller holds mu.
func (c *Cache) saveLocked() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	c.pending = 0
	return nil
}

// compactOrder drops order entries whose keys were evicted.
func (c *Cache) compactOrder() {
	kept := c.order[:0]
	for _, key := range c.order {
		if _, ok := c.entries[key]; ok {
			kept = append(kept, key)
		}
	}
	c.order = kept
}
