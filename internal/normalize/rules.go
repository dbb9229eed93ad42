package normalize

import (
	"regexp"
	"strings"
)

// noiseWords is the fixed vocabulary of phrases that carry no catalog
// signal when they appear in a video or file title. Matched inside
// parentheses, inside brackets, or as standalone words.
var noiseWords = []string{
	"official video", "official music video", "official audio", "letra/lyrics",
	"lyrics", "hd", "remastered", "full album", "mv",
	"official lyrics", "official lyric video", "official visualizer",
	"original mix", "extended mix", "letra", "lyric video", "melodic, progressive house",
	"lyric visualizer", "visualizer", "audio",
}

// rule is one ordered entry in the cleanup table: a pattern and its
// replacement, applied in sequence by applyRules.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

var cleanRules = buildCleanRules()

func buildCleanRules() []rule {
	escaped := make([]string, len(noiseWords))
	for i, w := range noiseWords {
		escaped[i] = regexp.QuoteMeta(w)
	}
	alts := strings.Join(escaped, "|")

	return []rule{
		// Noise phrases in parentheses, brackets, or standalone.
		{regexp.MustCompile(`(?i)\(\s*(?:` + alts + `)\s*\)`), ""},
		{regexp.MustCompile(`(?i)\[\s*(?:` + alts + `)\s*\]`), ""},
		{regexp.MustCompile(`(?i)\b(?:` + alts + `)\b`), ""},
		// Leftover empty groupings after noise removal.
		{regexp.MustCompile(`\(\s*\)`), ""},
		{regexp.MustCompile(`\[\s*\]`), ""},
		// Collapse runs of whitespace.
		{regexp.MustCompile(`\s{2,}`), " "},
	}
}

// applyRules runs the ordered rule table over s and trims the leftovers.
func applyRules(s string) string {
	for _, r := range cleanRules {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return strings.Trim(s, " -")
}

// dashRe maps typographic dashes and underscores to plain hyphens so the
// "Artist - Song" delimiter is recognized regardless of source styling.
var dashRe = regexp.MustCompile(`[–—_]+`)

var (
	featParenRe  = regexp.MustCompile(`(?i)\(\s*(?:feat\.?|ft\.?)\s+([^)]+)\)`)
	featInlineRe = regexp.MustCompile(`(?i)\b(?:feat\.?|ft\.)\s+(.+)$`)
	topicRe      = regexp.MustCompile(`(?i)\s*-\s*Topic$`)
	forbiddenRe  = regexp.MustCompile(`[\\/:*?"<>|]`)
)

// CleanUploader strips the " - Topic" suffix auto-generated channels carry.
func CleanUploader(uploader string) string {
	return strings.TrimSpace(topicRe.ReplaceAllString(uploader, ""))
}

// SafeFilename removes characters that are forbidden in file names on
// common platforms.
func SafeFilename(name string) string {
	return strings.TrimSpace(forbiddenRe.ReplaceAllString(name, ""))
}

// StripFeat removes featured-artist markers while keeping the featured
// names themselves: "Song (feat. X)" and "A feat. B" both lose only the
// marker token. Used when building search strings and identity keys.
func StripFeat(s string) string {
	s = featParenRe.ReplaceAllString(s, "$1")
	s = featInlineRe.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}

// MergeFeat rewrites "A feat. B" into the multi-artist credit "A; B"
// used for album-artist fields.
func MergeFeat(artist string) string {
	m := featInlineRe.FindStringSubmatch(artist)
	if m == nil {
		return artist
	}
	base := strings.TrimSpace(featInlineRe.ReplaceAllString(artist, ""))
	return base + "; " + strings.TrimSpace(m[1])
}

// extractFeat removes any featured-artist marker from s and returns the
// cleaned string plus the extracted featured names, in order. The inline
// form captures to end-of-string, so each name goes through the noise
// rules before it can reach an artist credit.
func extractFeat(s string) (string, []string) {
	var feats []string
	add := func(name string) {
		name = applyRules(name)
		if name != "" {
			feats = append(feats, name)
		}
	}
	for _, m := range featParenRe.FindAllStringSubmatch(s, -1) {
		add(strings.TrimSpace(m[1]))
	}
	s = featParenRe.ReplaceAllString(s, "")
	if m := featInlineRe.FindStringSubmatch(s); m != nil {
		add(strings.TrimSpace(m[1]))
		s = featInlineRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s), feats
}
