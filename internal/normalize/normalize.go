// Package normalize turns noisy free-text media titles into structured
// catalog queries. The cleanup is an ordered rule table so each rule is
// testable on its own; the whole transformation is idempotent.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldASCII decomposes accented characters, drops the combining marks,
// and removes anything left outside ASCII (emoji, pictographs, smart
// punctuation). "Beyoncé" -> "Beyonce".
var foldASCII = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Fold applies unicode normalization: diacritics folded to ASCII,
// non-ASCII symbols removed, typographic dashes mapped to hyphens.
func Fold(s string) string {
	s = dashRe.ReplaceAllString(s, "-")
	out, _, err := transform.String(foldASCII, s)
	if err != nil {
		return s
	}
	return out
}

// Query is the structured form of a raw title: a catalog-ready artist
// and song. Features holds the featured artists that were merged into
// Artist as a single "feat. X" suffix.
type Query struct {
	Artist   string
	Song     string
	Features []string
}

// Title normalizes a raw title into a Query. When the title carries no
// "Artist - Song" delimiter, the uploader name (with any " - Topic"
// suffix stripped) is used as the artist and the whole cleaned title as
// the song. An empty Song after cleanup is returned as-is; the caller
// decides on a placeholder.
func Title(raw, uploader string) Query {
	s := Fold(strings.TrimSpace(raw))

	var artist, song string
	if idx := strings.Index(s, " - "); idx >= 0 {
		artist = strings.TrimSpace(s[:idx])
		song = strings.TrimSpace(s[idx+3:])
	} else {
		artist = CleanUploader(Fold(uploader))
		song = s
	}

	artist, feats := extractFeat(artist)
	song, songFeats := extractFeat(song)
	feats = append(feats, songFeats...)

	artist = applyRules(artist)
	song = applyRules(song)

	if len(feats) > 0 {
		artist = artist + " feat. " + strings.Join(feats, ", ")
	}

	return Query{Artist: artist, Song: song, Features: feats}
}

// String renders the natural "Artist - Song" ordering.
func (q Query) String() string {
	if q.Artist == "" {
		return q.Song
	}
	return q.Artist + " - " + q.Song
}

// Flipped renders the "Song - Artist" ordering for catalogs that index
// primarily by title.
func (q Query) Flipped() string {
	if q.Artist == "" {
		return q.Song
	}
	return q.Song + " - " + q.Artist
}

// SearchString is the catalog search form: natural ordering with
// featured-artist markers stripped.
func (q Query) SearchString() string {
	return StripFeat(q.String())
}
