// Package cover fetches release artwork and normalizes it to the
// canonical embedded-cover form: a center-cropped square resized to a
// fixed resolution, encoded as JPEG.
package cover

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
	_ "image/gif"               // register GIF decoder
	_ "image/png"               // register PNG decoder
)

// CanonicalSize is the edge length of a normalized cover.
const CanonicalSize = 720

const jpegQuality = 85

// MIMEJPEG is the MIME type of normalized cover bytes.
const MIMEJPEG = "image/jpeg"

// Fetcher retrieves raw image bytes from a URL. Failures are non-fatal
// for the pipeline and fall through to "no cover".
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches images over HTTP with a bounded timeout. Some
// catalogs reject requests without a browser user agent.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher with the given user agent string.
func NewHTTPFetcher(userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: userAgent,
	}
}

// Fetch downloads the image at url, limited to 10MB.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image response")
	}
	return data, nil
}

// Normalize decodes an image, center-crops it to a square with side
// min(width, height), scales it to CanonicalSize, and re-encodes it as
// JPEG. Returns the bytes and their MIME type.
func Normalize(data []byte) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	side := w
	if h < side {
		side = h
	}
	if side < 1 {
		return nil, "", fmt.Errorf("image has no pixels")
	}

	left := bounds.Min.X + (w-side)/2
	top := bounds.Min.Y + (h-side)/2
	src := image.Rect(left, top, left+side, top+side)

	dst := image.NewRGBA(image.Rect(0, 0, CanonicalSize, CanonicalSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), MIMEJPEG, nil
}
