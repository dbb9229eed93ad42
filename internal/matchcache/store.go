// Package matchcache remembers confirmed catalog matches across runs so
// items a human already resolved are never re-prompted. The store is an
// append-only text file, one "<identityKey> <marker>:<externalID>" line
// per confirmed decision; it is never rewritten or deduplicated.
package matchcache

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/sydlexius/tagmatch/internal/normalize"
)

// Store is the confirmed-match cache contract the pipeline depends on.
// Lookup never fails: any underlying error means "no cached decision".
type Store interface {
	// Lookup returns the external ID recorded for key, if any.
	Lookup(key string) (string, bool)
	// Append records a confirmed decision. Appends are serialized.
	Append(key, externalID string) error
}

// IdentityKey builds the normalized lookup key for a file's identifying
// tags: feat-stripped artist and album joined with the year, lowercased.
func IdentityKey(artist, album, year string) string {
	parts := []string{normalize.StripFeat(artist), normalize.StripFeat(album), year}
	key := strings.Join(parts, " - ")
	return strings.ToLower(strings.TrimSpace(key))
}

// FileStore is the file-backed Store. Reads scan the file line by line;
// writes append under a lock so concurrent confirmations cannot
// interleave partial lines.
type FileStore struct {
	path   string
	marker string
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileStore creates a store backed by the file at path. The marker
// names the catalog the external IDs belong to, e.g. "discogs".
func NewFileStore(path, marker string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		marker: marker,
		logger: logger.With(slog.String("component", "matchcache")),
	}
}

// Lookup scans stored lines for a case-insensitive prefix match on key.
// An exact key match is preferred; among plain prefix matches the first
// stored line wins. When several prefix matches disagree on the external
// ID the collision is logged, since a short key could silently pick up
// another entry's ID.
func (s *FileStore) Lookup(key string) (string, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", false
	}

	f, err := os.Open(s.path)
	if err != nil {
		return "", false
	}
	defer f.Close() //nolint:errcheck

	needle := s.marker + ":"
	var firstID string
	ambiguous := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(strings.ToLower(line), key) {
			continue
		}
		idx := strings.Index(line, needle)
		if idx < 0 {
			continue
		}
		id := strings.TrimSpace(line[idx+len(needle):])
		if id == "" {
			continue
		}

		stored := strings.ToLower(strings.TrimSpace(line[:idx]))
		if stored == key {
			// Exact match always wins.
			return id, true
		}
		if firstID == "" {
			firstID = id
		} else if id != firstID {
			ambiguous = true
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("cache scan failed", slog.String("error", err.Error()))
		return "", false
	}

	if firstID == "" {
		return "", false
	}
	if ambiguous {
		s.logger.Warn("ambiguous cache prefix, using first stored match",
			slog.String("key", key))
	}
	return firstID, true
}

// Append writes one confirmed decision line. The file is opened in
// append mode so the store stays append-only even across processes.
func (s *FileStore) Append(key, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer f.Close() //nolint:errcheck

	line := fmt.Sprintf("%s %s:%s\n", strings.TrimSpace(key), s.marker, externalID)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("appending cache line: %w", err)
	}
	return nil
}
