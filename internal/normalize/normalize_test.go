package normalize

import "testing"

func TestTitleSplitsArtistAndSong(t *testing.T) {
	q := Title("Artist Name - Cool Song", "")
	if q.Artist != "Artist Name" {
		t.Errorf("artist = %q", q.Artist)
	}
	if q.Song != "Cool Song" {
		t.Errorf("song = %q", q.Song)
	}
}

func TestTitleUploaderFallback(t *testing.T) {
	q := Title("Cool Song", "Artist Name - Topic")
	if q.Artist != "Artist Name" {
		t.Errorf("artist = %q, want uploader without Topic suffix", q.Artist)
	}
	if q.Song != "Cool Song" {
		t.Errorf("song = %q", q.Song)
	}
}

func TestTitleNoiseStripping(t *testing.T) {
	q := Title("Song Title (Official Video) [HD]", "")
	if q.Song != "Song Title" {
		t.Errorf("song = %q, want %q", q.Song, "Song Title")
	}
	if q.Artist != "" {
		t.Errorf("artist = %q, want empty", q.Artist)
	}
}

func TestTitleFeatureMerge(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		wantA string
		wantS string
	}{
		{
			name:  "feat in artist segment",
			raw:   "Artist (feat. Other) - Song",
			wantA: "Artist feat. Other",
			wantS: "Song",
		},
		{
			name:  "feat in song parentheses",
			raw:   "Artist - Song (feat. Other)",
			wantA: "Artist feat. Other",
			wantS: "Song",
		},
		{
			name:  "inline ft in song",
			raw:   "Artist Name - Cool Song (Official Video) feat. Other Artist",
			wantA: "Artist Name feat. Other Artist",
			wantS: "Cool Song",
		},
		{
			name:  "noise trails the inline feat",
			raw:   "Artist - Song feat. Other (Official Video)",
			wantA: "Artist feat. Other",
			wantS: "Song",
		},
		{
			name:  "bracket noise trails the inline feat",
			raw:   "Artist - Song ft. Other [HD]",
			wantA: "Artist feat. Other",
			wantS: "Song",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Title(tt.raw, "")
			if q.Artist != tt.wantA {
				t.Errorf("artist = %q, want %q", q.Artist, tt.wantA)
			}
			if q.Song != tt.wantS {
				t.Errorf("song = %q, want %q", q.Song, tt.wantS)
			}
			if len(q.Features) != 1 {
				t.Errorf("features = %v, want one entry", q.Features)
			}
		})
	}
}

func TestTitleIdempotent(t *testing.T) {
	raws := []string{
		"Artist Name - Cool Song (Official Video) feat. Other Artist",
		"Beyoncé - Déjà Vu (Lyrics) [HD]",
		"Song Title (Official Audio)",
		"A – B",
		"Artist (feat. Other) - Song [Remastered]",
	}
	for _, raw := range raws {
		once := Title(raw, "Some Uploader")
		twice := Title(once.String(), "Some Uploader")
		if once.Artist != twice.Artist || once.Song != twice.Song {
			t.Errorf("normalize(%q) not idempotent: %+v vs %+v", raw, once, twice)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Beyoncé", "Beyonce"},
		{"Björk", "Bjork"},
		{"A – B", "A - B"},
		{"A — B", "A - B"},
		{"A_B", "A-B"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldRemovesEmoji(t *testing.T) {
	q := Title("Artist - Song \U0001F525\U0001F525", "")
	if q.Song != "Song" {
		t.Errorf("song = %q, want emoji removed", q.Song)
	}
}

func TestQueryOrderings(t *testing.T) {
	q := Query{Artist: "Artist", Song: "Song"}
	if got := q.String(); got != "Artist - Song" {
		t.Errorf("String() = %q", got)
	}
	if got := q.Flipped(); got != "Song - Artist" {
		t.Errorf("Flipped() = %q", got)
	}
}

func TestQuerySearchStringStripsFeat(t *testing.T) {
	q := Query{Artist: "Artist feat. Other", Song: "Song"}
	if got := q.SearchString(); got != "Artist Other - Song" {
		t.Errorf("SearchString() = %q", got)
	}
}

func TestStripFeat(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Song (feat. Other)", "Song Other"},
		{"Artist feat. Other", "Artist Other"},
		{"Artist ft. Other", "Artist Other"},
		{"No Features Here", "No Features Here"},
	}
	for _, tt := range tests {
		if got := StripFeat(tt.in); got != tt.want {
			t.Errorf("StripFeat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMergeFeat(t *testing.T) {
	if got := MergeFeat("Artist feat. Other"); got != "Artist; Other" {
		t.Errorf("MergeFeat = %q", got)
	}
	if got := MergeFeat("Solo Artist"); got != "Solo Artist" {
		t.Errorf("MergeFeat = %q, want unchanged", got)
	}
}

func TestCleanUploader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Artist Name - Topic", "Artist Name"},
		{"Artist Name - topic", "Artist Name"},
		{"Artist Name", "Artist Name"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanUploader(tt.in); got != tt.want {
			t.Errorf("CleanUploader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a/b:c", "abc"},
		{`What? "No"`, "What No"},
		{"plain name", "plain name"},
	}
	for _, tt := range tests {
		if got := SafeFilename(tt.in); got != tt.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleEmptySongPreserved(t *testing.T) {
	// The normalizer never invents placeholders; callers do.
	q := Title("(Official Video)", "Uploader")
	if q.Song != "" {
		t.Errorf("song = %q, want empty", q.Song)
	}
}
