// Package describe extracts first-party metadata from uploader-provided
// description blobs. Auto-generated music uploads follow a fixed layout
// ("Provided to YouTube by ...", "Title · Artist", "Released on: ...",
// "℗ year publisher") that carries publisher data more reliable than
// catalog inference, so these fields take precedence during merge.
package describe

import (
	"regexp"
	"strings"
)

// Fields holds the metadata parsed out of a description blob. Empty
// strings mean the line was absent.
type Fields struct {
	Title      string
	Artist     string
	Year       string
	Publisher  string
	ReleasedOn string
	Composer   string
	Lyrics     string
}

var (
	soundRecordingRe = regexp.MustCompile(`℗\s*(\d{4})?\s*(.+)`)
	providedByRe     = regexp.MustCompile(`(?i)Provided to YouTube by (.+)`)
	titleArtistRe    = regexp.MustCompile(`(.+?) · (.+)`)
	releasedOnRe     = regexp.MustCompile(`(?i)Released on:\s*([0-9]{4}-[0-9]{2}-[0-9]{2})`)
	composerRe       = regexp.MustCompile(`(?i)Composer:\s*(.+)`)
	lyricsRe         = regexp.MustCompile(`(?is)lyrics[:\-\n]+(.+)`)
)

// Parse scans a description blob for known metadata lines. Multiple
// publisher sources are joined with "; ", as are multiple composers.
func Parse(description string) Fields {
	var f Fields
	if description == "" {
		return f
	}

	if m := soundRecordingRe.FindStringSubmatch(description); m != nil {
		if m[1] != "" {
			f.Year = m[1]
		}
		addPublisher(&f, strings.TrimSpace(m[2]))
	}

	if m := providedByRe.FindStringSubmatch(description); m != nil {
		addPublisher(&f, strings.TrimSpace(m[1]))
	}

	if m := titleArtistRe.FindStringSubmatch(description); m != nil {
		f.Title = strings.TrimSpace(m[1])
		f.Artist = strings.TrimSpace(strings.ReplaceAll(m[2], " · ", "; "))
	}

	if m := releasedOnRe.FindStringSubmatch(description); m != nil {
		f.ReleasedOn = m[1]
	}

	var composers []string
	for _, m := range composerRe.FindAllStringSubmatch(description, -1) {
		composers = append(composers, strings.TrimSpace(m[1]))
	}
	if len(composers) > 0 {
		f.Composer = strings.Join(composers, "; ")
	}

	if m := lyricsRe.FindStringSubmatch(description); m != nil {
		f.Lyrics = strings.TrimSpace(m[1])
	}

	return f
}

func addPublisher(f *Fields, publisher string) {
	if publisher == "" {
		return
	}
	switch {
	case f.Publisher == "":
		f.Publisher = publisher
	case f.Publisher != publisher:
		f.Publisher = f.Publisher + "; " + publisher
	}
}
