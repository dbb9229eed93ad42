// Package tags models a file's tag set and merges resolved catalog and
// description metadata into it under an overwrite policy. The binary
// tag-container encoding is owned by Sink implementations, not by this
// package.
package tags

// Field names a logical tag field. The set mirrors the fields the
// pipeline can resolve; sinks map them onto their container's frames.
type Field string

// Known tag fields.
const (
	FieldTitle         Field = "title"
	FieldArtist        Field = "artist"
	FieldAlbumArtist   Field = "album_artist"
	FieldAlbum         Field = "album"
	FieldGenre         Field = "genre"
	FieldYear          Field = "year"
	FieldReleaseDate   Field = "release_date"
	FieldPublisher     Field = "publisher"
	FieldCatalogNumber Field = "catalog_number"
	FieldComposer      Field = "composer"
	FieldLyrics        Field = "lyrics"
	FieldComment       Field = "comment"
	// FieldCatalogURL is the marker field: once set, the file counts as
	// fully resolved and later runs skip it unless overwrite is forced.
	FieldCatalogURL Field = "catalog_url"
)

// Record is a file's tag set: named text fields plus embedded cover art.
type Record struct {
	Fields    map[Field]string `json:"fields"`
	CoverArt  []byte           `json:"cover_art,omitempty"`
	CoverMIME string           `json:"cover_mime,omitempty"`
}

// NewRecord returns an empty tag record.
func NewRecord() *Record {
	return &Record{Fields: make(map[Field]string)}
}

// Get returns the value of a field, or "" when absent.
func (r *Record) Get(f Field) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[f]
}

// Set stores a field value unconditionally.
func (r *Record) Set(f Field, value string) {
	if r.Fields == nil {
		r.Fields = make(map[Field]string)
	}
	r.Fields[f] = value
}

// Has reports whether the field is present and non-empty.
func (r *Record) Has(f Field) bool {
	return r.Get(f) != ""
}

// HasCover reports whether the record carries embedded cover art.
func (r *Record) HasCover() bool {
	return len(r.CoverArt) > 0
}

// Resolved reports whether the record carries the catalog-URL marker,
// meaning a previous run already tagged this file.
func (r *Record) Resolved() bool {
	return r.Has(FieldCatalogURL)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := NewRecord()
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	if len(r.CoverArt) > 0 {
		out.CoverArt = append([]byte(nil), r.CoverArt...)
		out.CoverMIME = r.CoverMIME
	}
	return out
}

// Policy governs whether merge may replace existing non-empty values.
type Policy string

// Overwrite policies.
const (
	PolicyFillMissing  Policy = "fill_missing"
	PolicyOverwriteAll Policy = "overwrite_all"
)

// ValidPolicy reports whether p is a recognized overwrite policy.
func ValidPolicy(p Policy) bool {
	return p == PolicyFillMissing || p == PolicyOverwriteAll
}

// Sink reads and writes tag records for file handles. Write must be
// atomic per file and must preserve existing fields the record does not
// touch.
type Sink interface {
	Read(handle string) (*Record, error)
	Write(handle string, rec *Record) error
}
