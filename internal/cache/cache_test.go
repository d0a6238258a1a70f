package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/valpere/doctran/internal/cache"
)

func newCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(filepath.Join(t.TempDir(), "translations.json"), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCache_RoundTrip(t *testing.T) {
	c := newCache(t)

	if err := c.Set("Hello", "Bonjour", "en", "fr"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get("Hello", "en", "fr")
	if !ok || got != "Bonjour" {
		t.Errorf("Get = (%q, %v), want (Bonjour, true)", got, ok)
	}
}

func TestCache_AbsentKey(t *testing.T) {
	c := newCache(t)
	if _, ok := c.Get("никогда", "ru", "en"); ok {
		t.Error("expected absent key to report ok=false")
	}
}

func TestCache_LanguagePairsAreDistinct(t *testing.T) {
	c := newCache(t)
	c.Set("Hello", "Bonjour", "en", "fr")
	c.Set("Hello", "Hallo", "en", "de")

	if got, _ := c.Get("Hello", "en", "fr"); got != "Bonjour" {
		t.Errorf("en→fr = %q, want Bonjour", got)
	}
	if got, _ := c.Get("Hello", "en", "de"); got != "Hallo" {
		t.Errorf("en→de = %q, want Hallo", got)
	}
}

func TestCache_WhitespaceTrimmedEquivalence(t *testing.T) {
	c := newCache(t)
	c.Set("Hello", "Bonjour", "en", "fr")

	if got, ok := c.Get("  Hello  ", "en", "fr"); !ok || got != "Bonjour" {
		t.Errorf("padded lookup = (%q, %v), want cache hit", got, ok)
	}
	// Internal whitespace is significant.
	if _, ok := c.Get("He llo", "en", "fr"); ok {
		t.Error("internal-whitespace variant must miss")
	}
}

func TestCache_LanguageCaseInsensitive(t *testing.T) {
	c := newCache(t)
	c.Set("Hello", "Bonjour", "EN", "FR")
	if got, ok := c.Get("Hello", "en", "fr"); !ok || got != "Bonjour" {
		t.Errorf("lowercase lookup = (%q, %v), want hit", got, ok)
	}
}

func TestCache_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.json")

	c1, err := cache.New(path, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c1.Set("Hello", "Bonjour", "en", "fr")

	c2, err := cache.New(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, ok := c2.Get("Hello", "en", "fr"); !ok || got != "Bonjour" {
		t.Errorf("reopened cache Get = (%q, %v), want hit", got, ok)
	}
}

func TestCache_CorruptFileYieldsEmptyCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := cache.New(path, 0)
	if err != nil {
		t.Fatalf("New on corrupt file: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("corrupt file should load as empty, got %d entries", c.Len())
	}

	// The cache stays usable and overwrites the corrupt file on save.
	if err := c.Set("Hello", "Bonjour", "en", "fr"); err != nil {
		t.Fatalf("Set after corruption: %v", err)
	}
	c2, _ := cache.New(path, 0)
	if got, ok := c2.Get("Hello", "en", "fr"); !ok || got != "Bonjour" {
		t.Errorf("recovered cache Get = (%q, %v), want hit", got, ok)
	}
}

func TestCache_EmptyTextNeverCached(t *testing.T) {
	c := newCache(t)
	c.Set("   ", "whatever", "en", "fr")
	if c.Len() != 0 {
		t.Errorf("expected empty text to be ignored, got %d entries", c.Len())
	}
}

func TestCache_SetBatch(t *testing.T) {
	c := newCache(t)
	err := c.SetBatch(map[string]string{
		"Hello":   "Bonjour",
		"World":   "Monde",
		"same":    "same", // untranslated, must not be cached
		"skipped": "",
	}, "en", "fr")
	if err != nil {
		t.Fatalf("SetBatch: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("same", "en", "fr"); ok {
		t.Error("identity translation must not be cached")
	}
}

func TestCache_Cleanup(t *testing.T) {
	c := newCache(t)
	c.Set("one", "un", "en", "fr")
	c.Set("two", "deux", "en", "fr")
	c.Set("three", "trois", "en", "fr")

	removed, err := c.Cleanup(1)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if removed != 2 || c.Len() != 1 {
		t.Fatalf("Cleanup removed %d (len %d), want 2 removed, 1 left", removed, c.Len())
	}
	// Insertion-order eviction keeps the newest entry.
	if got, ok := c.Get("three", "en", "fr"); !ok || got != "trois" {
		t.Errorf("expected newest entry to survive, got (%q, %v)", got, ok)
	}
}

func TestCache_Clear(t *testing.T) {
	c := newCache(t)
	c.Set("Hello", "Bonjour", "en", "fr")
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
}

func TestCache_SaveIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translations.json")
	c, _ := cache.New(path, 0)
	c.Set("Hello", "Bonjour", "en", "fr")

	// No temp file may linger after a completed save.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("cache file missing after save: %v", err)
	}
}

func TestKey_Stable(t *testing.T) {
	k1 := cache.Key("Hello", "en", "fr")
	k2 := cache.Key("  Hello ", "EN", "FR")
	if k1 != k2 {
		t.Errorf("equivalent inputs produced different keys: %s vs %s", k1, k2)
	}
	if k1 == cache.Key("Hello", "en", "de") {
		t.Error("different target languages must produce different keys")
	}
}
