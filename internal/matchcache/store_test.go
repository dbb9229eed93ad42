package matchcache

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "saved_searches.txt"), "discogs", testLogger())
}

func TestIdentityKey(t *testing.T) {
	got := IdentityKey("Artist feat. Other", "Album Name", "2020")
	want := "artist other - album name - 2020"
	if got != want {
		t.Errorf("IdentityKey = %q, want %q", got, want)
	}
}

func TestAppendLookupRoundTrip(t *testing.T) {
	s := newTestStore(t)

	key := "artist x - album y - 2020"
	if err := s.Append(key, "12345"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	id, ok := s.Lookup(key)
	if !ok {
		t.Fatal("Lookup missed after Append")
	}
	if id != "12345" {
		t.Errorf("id = %q, want 12345", id)
	}
}

func TestLookupCaseInsensitivePrefix(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append("artist x - album y - 2020", "111"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if id, ok := s.Lookup("Artist X - Album Y"); !ok || id != "111" {
		t.Errorf("prefix lookup = %q, %v; want 111, true", id, ok)
	}
}

func TestLookupMissing(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.Lookup("nothing here"); ok {
		t.Error("expected miss on empty store")
	}
	if _, ok := s.Lookup(""); ok {
		t.Error("empty key must never match")
	}
}

func TestLookupPrefersExactMatch(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append("artist - album - 2020 deluxe", "first"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append("artist - album - 2020", "exact"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// The deluxe line is stored first and prefix-matches the key, but
	// the exact line must win over any earlier prefix match.
	if id, ok := s.Lookup("artist - album - 2020"); !ok || id != "exact" {
		t.Errorf("lookup = %q, %v; want exact, true", id, ok)
	}
}

func TestLookupAmbiguousPrefixReturnsFirst(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append("artist - album - 2020", "aaa"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append("artist - album - 2021", "bbb"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if id, ok := s.Lookup("artist - album"); !ok || id != "aaa" {
		t.Errorf("ambiguous lookup = %q, %v; want first stored (aaa), true", id, ok)
	}
}

func TestStoreIsAppendOnly(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"1", "2", "3"} {
		if err := s.Append("same key", id); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("reading store: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "same key discogs:1" {
		t.Errorf("line format = %q", lines[0])
	}

	// Duplicate keys keep their first stored ID on lookup.
	if id, _ := s.Lookup("same key"); id != "1" {
		t.Errorf("lookup = %q, want first appended", id)
	}
}
