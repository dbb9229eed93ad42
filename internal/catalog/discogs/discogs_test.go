package discogs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sydlexius/tagmatch/internal/catalog"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("loading fixture %s: %v", name, err)
	}
	return data
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !strings.HasPrefix(r.Header.Get("Authorization"), "Discogs token=") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case r.URL.Path == "/database/search":
			if r.URL.Query().Get("q") == "nothing matches this" {
				w.Write([]byte(`{"results":[]}`)) //nolint:errcheck
				return
			}
			w.Write(loadFixture(t, "search_release.json")) //nolint:errcheck

		case r.URL.Path == "/releases/12345":
			w.Write(loadFixture(t, "release_detail.json")) //nolint:errcheck

		case r.URL.Path == "/releases/404":
			w.WriteHeader(http.StatusNotFound)

		case r.URL.Path == "/releases/503":
			w.WriteHeader(http.StatusServiceUnavailable)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewWithBaseURL("test-token", "tagmatch/test", logger, baseURL)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	results, err := c.Search(context.Background(), "Artist Name - Cool Song")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// Duplicate IDs stay in the raw result; deduplication is the ranker's job.
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	r := results[0]
	if r.ID != "12345" {
		t.Errorf("id = %s", r.ID)
	}
	if r.DisplayTitle != "Artist Name - Cool Song" {
		t.Errorf("display title = %q", r.DisplayTitle)
	}
	if r.Year != "2020" || r.Country != "US" {
		t.Errorf("year/country = %q/%q", r.Year, r.Country)
	}
}

func TestSearchEmpty(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	results, err := c.Search(context.Background(), "nothing matches this")
	if err != nil {
		t.Fatalf("empty result must not be an error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestDetail(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	rel, err := c.Detail(context.Background(), "12345")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}

	if rel.ID != "12345" || rel.Title != "Cool Song" {
		t.Errorf("id/title = %s/%q", rel.ID, rel.Title)
	}
	if len(rel.Artists) != 2 || rel.Artists[0] != "Artist Name" {
		t.Errorf("artists = %v, want numeric suffix cleaned", rel.Artists)
	}
	if rel.Year != 2020 || rel.Released != "2020-06-19" {
		t.Errorf("year/released = %d/%q", rel.Year, rel.Released)
	}
	if len(rel.Labels) != 1 || rel.Labels[0].CatalogNumber != "BL-001" {
		t.Errorf("labels = %+v", rel.Labels)
	}
	if !rel.HasFormat("single") {
		t.Error("expected single format")
	}
	if len(rel.Images) != 1 || rel.Images[0].URL != "https://img.example.com/r/primary.jpg" {
		t.Errorf("images = %+v, want resource_url preferred", rel.Images)
	}
	if rel.URL != "https://www.discogs.com/release/12345-Artist-Name-Cool-Song" {
		t.Errorf("url = %q", rel.URL)
	}
}

func TestDetailNotFound(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.Detail(context.Background(), "404")
	var notFound *catalog.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDetailServerError(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.Detail(context.Background(), "503")
	var transport *catalog.ErrTransport
	if !errors.As(err, &transport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestMissingToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	c := NewWithBaseURL("", "tagmatch/test", logger, "http://localhost")

	_, err := c.Search(context.Background(), "anything")
	var auth *catalog.ErrAuthRequired
	if !errors.As(err, &auth) {
		t.Errorf("expected ErrAuthRequired, got %v", err)
	}
}
