// Package decision classifies a ranked candidate list into an automatic
// accept, a deferred manual review, or a skip. Pure logic, no I/O.
package decision

import (
	"fmt"

	"github.com/sydlexius/tagmatch/internal/rank"
)

// Outcome is the kind of decision reached for one item.
type Outcome string

// Decision outcomes.
const (
	OutcomeAuto   Outcome = "auto"
	OutcomeManual Outcome = "manual"
	OutcomeSkip   Outcome = "skip"
)

// Decision is the terminal classification of a ranked list. Auto carries
// the accepted candidate; Manual carries the viable candidates, sorted
// best-first, for an external reviewer.
type Decision struct {
	Outcome    Outcome
	Accepted   *rank.ScoredCandidate
	Candidates []rank.ScoredCandidate
}

// Thresholds parameterizes the classifier. MinScore is the floor below
// which a candidate is not viable at all; AutoThreshold is the score at
// which the top candidate is accepted without review.
type Thresholds struct {
	MinScore      int
	AutoThreshold int
}

// DefaultThresholds returns the standard classifier settings.
func DefaultThresholds() Thresholds {
	return Thresholds{MinScore: 50, AutoThreshold: 75}
}

// Validate checks that the thresholds are ordered and in range.
func (t Thresholds) Validate() error {
	if t.MinScore < 0 || t.MinScore > 100 {
		return fmt.Errorf("min score %d out of range", t.MinScore)
	}
	if t.AutoThreshold < 0 || t.AutoThreshold > 100 {
		return fmt.Errorf("auto threshold %d out of range", t.AutoThreshold)
	}
	if t.MinScore > t.AutoThreshold {
		return fmt.Errorf("min score %d exceeds auto threshold %d", t.MinScore, t.AutoThreshold)
	}
	return nil
}

// Decide classifies a sorted candidate list:
//
//   - no candidate at or above MinScore -> Skip
//   - top viable candidate at or above AutoThreshold -> Auto
//   - otherwise -> Manual with the viable candidates
//
// The input must already be sorted by descending score.
func Decide(scored []rank.ScoredCandidate, t Thresholds) Decision {
	var viable []rank.ScoredCandidate
	for _, sc := range scored {
		if sc.Score >= t.MinScore {
			viable = append(viable, sc)
		}
	}

	if len(viable) == 0 {
		return Decision{Outcome: OutcomeSkip}
	}

	if viable[0].Score >= t.AutoThreshold {
		top := viable[0]
		return Decision{Outcome: OutcomeAuto, Accepted: &top}
	}

	return Decision{Outcome: OutcomeManual, Candidates: viable}
}
