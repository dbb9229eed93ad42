package tags

import (
	"strconv"
	"strings"

	"github.com/sydlexius/tagmatch/internal/catalog"
	"github.com/sydlexius/tagmatch/internal/describe"
	"github.com/sydlexius/tagmatch/internal/normalize"
)

// apply writes value into field respecting the policy: under
// PolicyFillMissing an existing non-empty value is kept. Empty resolved
// values never overwrite anything.
func apply(rec *Record, f Field, value string, policy Policy) {
	if value == "" {
		return
	}
	if policy == PolicyFillMissing && rec.Has(f) {
		return
	}
	rec.Set(f, value)
}

// AlbumTitle derives the album field from a release title, appending
// " [Single]" or " [EP]" when any format entry indicates one.
func AlbumTitle(rel *catalog.Release) string {
	album := rel.Title
	switch {
	case rel.HasFormat("single"):
		album += " [Single]"
	case rel.HasFormat("ep"):
		album += " [EP]"
	}
	return album
}

// MergeRelease merges a resolved release and any description-parsed
// fields into rec. Description fields win over catalog inference for
// year, release date, and publisher since they are first-party data.
// The catalog-URL marker is always written so later runs short-circuit.
func MergeRelease(rec *Record, rel *catalog.Release, desc describe.Fields, policy Policy) {
	joined := rel.JoinedArtists()

	apply(rec, FieldAlbum, AlbumTitle(rel), policy)
	apply(rec, FieldAlbumArtist, joined, policy)
	if rel.HasFormat("single") {
		// A single's lead artist is the full joined credit.
		apply(rec, FieldArtist, joined, policy)
	}

	if len(rel.Genres) > 0 {
		apply(rec, FieldGenre, rel.Genres[0], policy)
	}

	year := ""
	if rel.Year > 0 {
		year = strconv.Itoa(rel.Year)
	}
	if desc.Year != "" {
		year = desc.Year
	}
	apply(rec, FieldYear, year, policy)

	released := rel.Released
	if desc.ReleasedOn != "" {
		released = desc.ReleasedOn
	}
	apply(rec, FieldReleaseDate, released, policy)

	publisher := joinLabels(rel.Labels)
	if desc.Publisher != "" {
		publisher = desc.Publisher
	}
	apply(rec, FieldPublisher, publisher, policy)

	if len(rel.Labels) > 0 {
		apply(rec, FieldCatalogNumber, rel.Labels[0].CatalogNumber, policy)
	}

	apply(rec, FieldComposer, desc.Composer, policy)
	apply(rec, FieldLyrics, desc.Lyrics, policy)

	if rel.URL != "" {
		rec.Set(FieldCatalogURL, rel.URL)
	}
}

// MergeResolved merges a resolved release into rec. The query and
// description seed the fields the catalog does not carry (title, the
// feat-preserving artist credit), the release then overrides everything
// it resolves, and the combined set is applied to rec in one pass under
// the run policy. The catalog-URL marker bypasses the policy so later
// runs always see the release that was actually merged.
func MergeResolved(rec *Record, rel *catalog.Release, q normalize.Query,
	desc describe.Fields, uploadDate string, policy Policy) {
	resolved := NewRecord()
	MergeSource(resolved, q, desc, uploadDate, PolicyOverwriteAll)
	MergeRelease(resolved, rel, desc, PolicyOverwriteAll)

	for f, v := range resolved.Fields {
		if f == FieldCatalogURL {
			rec.Set(f, v)
			continue
		}
		apply(rec, f, v, policy)
	}
}

// MergeSource fills rec from the normalized query and description alone,
// for items tagged without a catalog match. The album defaults to the
// song title marked as a single, the way standalone uploads are tagged.
func MergeSource(rec *Record, q normalize.Query, desc describe.Fields, uploadDate string, policy Policy) {
	apply(rec, FieldTitle, q.Song, policy)
	apply(rec, FieldArtist, q.Artist, policy)
	apply(rec, FieldAlbumArtist, normalize.MergeFeat(q.Artist), policy)
	if q.Song != "" {
		apply(rec, FieldAlbum, q.Song+" [Single]", policy)
	}

	// Explicit description fields override upload-date inference.
	year := ""
	if len(uploadDate) >= 4 {
		year = uploadDate[:4]
	}
	if desc.Year != "" {
		year = desc.Year
	}
	apply(rec, FieldYear, year, policy)

	released := uploadDate
	if desc.ReleasedOn != "" {
		released = desc.ReleasedOn
	}
	apply(rec, FieldReleaseDate, released, policy)

	apply(rec, FieldPublisher, desc.Publisher, policy)
	apply(rec, FieldComposer, desc.Composer, policy)
	apply(rec, FieldLyrics, desc.Lyrics, policy)
}

// SetCover embeds cover art respecting the policy: under
// PolicyFillMissing an existing cover is kept.
func SetCover(rec *Record, data []byte, mime string, policy Policy) {
	if len(data) == 0 {
		return
	}
	if policy == PolicyFillMissing && rec.HasCover() {
		return
	}
	rec.CoverArt = data
	rec.CoverMIME = mime
}

func joinLabels(labels []catalog.Label) string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return strings.Join(names, "; ")
}
