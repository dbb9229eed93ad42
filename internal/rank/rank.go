// Package rank scores catalog search candidates against a query using
// token-order-insensitive fuzzy string similarity.
package rank

import (
	"errors"
	"math"
	"sort"
	"strings"

	edlib "github.com/hbollon/go-edlib"

	"github.com/sydlexius/tagmatch/internal/catalog"
)

// ErrNoCandidates is returned when the candidate list is empty after
// deduplication. Callers treat it as "skip this item", not a failure.
var ErrNoCandidates = errors.New("no candidates to rank")

// ScoredCandidate pairs a candidate with its similarity score (0-100).
type ScoredCandidate struct {
	Score     int
	Candidate catalog.Candidate
}

// Score computes the token-sort similarity between two strings: both are
// lowercased, tokenized, sorted, and rejoined before an edit-distance
// similarity is taken. The result is symmetric, 0-100, exact match = 100.
func Score(a, b string) int {
	sim, err := edlib.StringsSimilarity(tokenSort(a), tokenSort(b), edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return int(math.Round(float64(sim) * 100))
}

func tokenSort(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Rank deduplicates candidates by ID (first occurrence wins), caps the
// list at max (0 = no cap), scores each survivor against query, and
// returns them sorted by descending score. The sort is stable, so ties
// keep the catalog's original order.
func Rank(query string, candidates []catalog.Candidate, max int) ([]ScoredCandidate, error) {
	seen := make(map[string]struct{}, len(candidates))
	var unique []catalog.Candidate
	for _, c := range candidates {
		if max > 0 && len(unique) >= max {
			break
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		unique = append(unique, c)
	}

	if len(unique) == 0 {
		return nil, ErrNoCandidates
	}

	scored := make([]ScoredCandidate, len(unique))
	for i, c := range unique {
		scored[i] = ScoredCandidate{Score: Score(query, c.DisplayTitle), Candidate: c}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored, nil
}
