// Package discogs adapts the Discogs release database to the catalog
// contracts.
package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sydlexius/tagmatch/internal/catalog"
)

const defaultBaseURL = "https://api.discogs.com"

const catalogName = "discogs"

// Marker is the prefix confirmed-match lines use for Discogs IDs.
const Marker = "discogs"

// Client implements catalog.Client against the Discogs HTTP API.
type Client struct {
	client    *http.Client
	limiter   *rate.Limiter
	token     string
	userAgent string
	logger    *slog.Logger
	baseURL   string
}

// New creates a Discogs client with the default base URL. The token is a
// personal access token; the Discogs API rejects anonymous searches.
func New(token, userAgent string, logger *slog.Logger) *Client {
	return NewWithBaseURL(token, userAgent, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Discogs client with a custom base URL (for testing).
func NewWithBaseURL(token, userAgent string, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		client:    &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(1, 1), // documented limit: 1 req/s authenticated
		token:     token,
		userAgent: userAgent,
		logger:    logger.With(slog.String("catalog", catalogName)),
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Search queries Discogs for releases matching the free-text query.
// The candidate display title is Discogs' "Artist - Title" result title.
func (c *Client) Search(ctx context.Context, query string) ([]catalog.Candidate, error) {
	params := url.Values{
		"q":    {query},
		"type": {"release"},
	}
	body, err := c.doRequest(ctx, c.baseURL+"/database/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	results := make([]catalog.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, catalog.Candidate{
			ID:           strconv.Itoa(r.ID),
			DisplayTitle: r.Title,
			Title:        r.Title,
			Year:         r.Year,
			Country:      r.Country,
		})
	}
	return results, nil
}

// Detail fetches the full release record for a Discogs release ID.
func (c *Client) Detail(ctx context.Context, id string) (*catalog.Release, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("%s/releases/%s", c.baseURL, url.PathEscape(id)))
	if err != nil {
		return nil, err
	}

	var detail releaseDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("parsing release response: %w", err)
	}

	return mapRelease(&detail), nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if c.token == "" {
		return nil, &catalog.ErrAuthRequired{Catalog: catalogName}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &catalog.ErrTransport{
			Catalog: catalogName,
			Cause:   fmt.Errorf("rate limiter: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Discogs token="+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting", slog.String("url", reqURL))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &catalog.ErrTransport{Catalog: catalogName, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &catalog.ErrNotFound{Catalog: catalogName, ID: reqURL}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &catalog.ErrAuthRequired{Catalog: catalogName}
	case resp.StatusCode != http.StatusOK:
		return nil, &catalog.ErrTransport{
			Catalog: catalogName,
			Cause:   fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(resp.Body)
}

func mapRelease(d *releaseDetail) *catalog.Release {
	rel := &catalog.Release{
		ID:       strconv.Itoa(d.ID),
		Title:    d.Title,
		Year:     d.Year,
		Released: d.Released,
		Genres:   d.Genres,
		URL:      d.URI,
	}

	for _, a := range d.Artists {
		rel.Artists = append(rel.Artists, catalog.CleanArtistName(a.Name))
	}
	for _, l := range d.Labels {
		rel.Labels = append(rel.Labels, catalog.Label{Name: l.Name, CatalogNumber: l.CatNo})
	}
	for _, f := range d.Formats {
		rel.Formats = append(rel.Formats, catalog.Format{Name: f.Name, Descriptions: f.Descriptions})
	}
	for _, img := range d.Images {
		u := img.ResourceURL
		if u == "" {
			u = img.URI
		}
		rel.Images = append(rel.Images, catalog.Image{
			URL:    u,
			Type:   img.Type,
			Width:  img.Width,
			Height: img.Height,
		})
	}

	return rel
}
