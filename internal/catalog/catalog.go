// Package catalog defines the contracts for external music catalogs.
// The pipeline core only consumes these interfaces; concrete adapters
// (Discogs, test fakes) live in subpackages.
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Candidate is a single search hit from a catalog. Identity is ID;
// DisplayTitle is the "Artist - Title" string the ranker scores against.
type Candidate struct {
	ID           string `json:"id"`
	DisplayTitle string `json:"display_title"`
	Title        string `json:"title,omitempty"`
	Year         string `json:"year,omitempty"`
	Country      string `json:"country,omitempty"`
}

// Format describes one physical or digital format entry on a release,
// e.g. {Name: "Vinyl", Descriptions: ["12\"", "Single"]}.
type Format struct {
	Name         string   `json:"name"`
	Descriptions []string `json:"descriptions,omitempty"`
}

// Label is a record label credit with its catalog number.
type Label struct {
	Name          string `json:"name"`
	CatalogNumber string `json:"catalog_number,omitempty"`
}

// Image is a single artwork resource on a release.
type Image struct {
	URL    string `json:"url"`
	Type   string `json:"type,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Release is the full detail record for a catalog release.
type Release struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artists  []string `json:"artists"`
	Year     int      `json:"year,omitempty"`
	Released string   `json:"released,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Labels   []Label  `json:"labels,omitempty"`
	Formats  []Format `json:"formats,omitempty"`
	Images   []Image  `json:"images,omitempty"`
	URL      string   `json:"url,omitempty"`
}

// JoinedArtists returns all artist credits joined with "; ", each with
// its numeric disambiguation suffix stripped, or "Unknown Artist" when
// the release carries none.
func (r *Release) JoinedArtists() string {
	if len(r.Artists) == 0 {
		return "Unknown Artist"
	}
	cleaned := make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		cleaned = append(cleaned, CleanArtistName(a))
	}
	return strings.Join(cleaned, "; ")
}

// HasFormat reports whether any format entry's name or descriptions
// contain the given substring, case-insensitively. Used for single/EP
// detection on album titles.
func (r *Release) HasFormat(substr string) bool {
	substr = strings.ToLower(substr)
	for _, f := range r.Formats {
		if strings.Contains(strings.ToLower(f.Name), substr) {
			return true
		}
		for _, d := range f.Descriptions {
			if strings.Contains(strings.ToLower(d), substr) {
				return true
			}
		}
	}
	return false
}

var artistSuffixRe = regexp.MustCompile(`\s*\(\d+\)$`)

// CleanArtistName strips the numeric disambiguation suffix some catalogs
// append to artist names, e.g. "Nirvana (2)" -> "Nirvana".
func CleanArtistName(name string) string {
	return strings.TrimSpace(artistSuffixRe.ReplaceAllString(name, ""))
}

// Searcher searches a catalog by free-text query. An empty result set is
// not an error; only transport failures are.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Detailer fetches the full release record for a candidate ID. It may
// fail per-ID even after a successful search.
type Detailer interface {
	Detail(ctx context.Context, id string) (*Release, error)
}

// Client combines search and detail lookup against one catalog.
type Client interface {
	Searcher
	Detailer
}

// ErrTransport indicates the catalog was unreachable or returned a
// server-side failure. Items hitting this are skipped, not aborted.
type ErrTransport struct {
	Catalog string
	Cause   error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("catalog %s unavailable: %v", e.Catalog, e.Cause)
}

func (e *ErrTransport) Unwrap() error { return e.Cause }

// ErrNotFound indicates the catalog has no record for the requested ID.
type ErrNotFound struct {
	Catalog string
	ID      string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("catalog %s: release %s not found", e.Catalog, e.ID)
}

// ErrAuthRequired indicates the catalog needs a token but none is
// configured, or the configured one was rejected.
type ErrAuthRequired struct {
	Catalog string
}

func (e *ErrAuthRequired) Error() string {
	return fmt.Sprintf("catalog %s: API token not configured or rejected", e.Catalog)
}
