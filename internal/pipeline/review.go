package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sydlexius/tagmatch/internal/tags"
)

// SelectionKind is the kind of answer a reviewer gives for one pending item.
type SelectionKind string

// Reviewer answers.
const (
	// SelectionPick accepts the candidate at Selection.Index.
	SelectionPick SelectionKind = "pick"
	// SelectionSkip declines every candidate. Terminal, not an error.
	SelectionSkip SelectionKind = "skip"
	// SelectionInstrumental declines the candidates and marks the item
	// as an instrumental tagged from its source metadata.
	SelectionInstrumental SelectionKind = "instrumental"
)

// Selection is a reviewer's answer for one pending item.
type Selection struct {
	Kind  SelectionKind
	Index int
}

// Reviewer supplies the external decision for deferred manual items.
// It is invoked exactly once per pending item, after the scan pass.
type Reviewer interface {
	Review(ctx context.Context, pending Pending) (Selection, error)
}

// ResolvePending asks the reviewer for each deferred item in turn and
// applies the answer: picks are finalized like auto matches (cache
// append plus merge), skips are terminal, instrumentals are tagged from
// source metadata. Reviewer errors fail only their own item.
func (p *Pipeline) ResolvePending(ctx context.Context, pending []Pending, reviewer Reviewer) []Result {
	results := make([]Result, 0, len(pending))

	for _, pend := range pending {
		if ctx.Err() != nil {
			break
		}
		results = append(results, p.resolveOne(ctx, pend, reviewer))
	}

	return results
}

func (p *Pipeline) resolveOne(ctx context.Context, pend Pending, reviewer Reviewer) Result {
	sel, err := reviewer.Review(ctx, pend)
	if err != nil {
		return p.failed(pend.Item, pend.Query, fmt.Errorf("review: %w", err))
	}

	switch sel.Kind {
	case SelectionPick:
		if sel.Index < 0 || sel.Index >= len(pend.Candidates) {
			return p.failed(pend.Item, pend.Query,
				fmt.Errorf("review: selection %d out of range", sel.Index))
		}
		chosen := pend.Candidates[sel.Index]

		rec, err := p.sink.Read(pend.Item.Handle)
		if err != nil {
			return p.failed(pend.Item, pend.Query, fmt.Errorf("reading tags: %w", err))
		}
		rel, err := p.detail.Detail(ctx, chosen.Candidate.ID)
		if err != nil {
			p.logger.Warn("detail fetch failed for selected candidate",
				slog.String("release", chosen.Candidate.ID),
				slog.String("error", err.Error()))
			return Result{Item: pend.Item, Status: StatusSkipped, Query: pend.Query,
				Reason: "detail fetch failed"}
		}
		if err := p.finalize(ctx, pend.Item, pend.Query, rec, rel, pend.Desc, pend.Key); err != nil {
			return p.failed(pend.Item, pend.Query, err)
		}
		return Result{Item: pend.Item, Status: StatusTagged, Query: pend.Query}

	case SelectionInstrumental:
		rec, err := p.sink.Read(pend.Item.Handle)
		if err != nil {
			return p.failed(pend.Item, pend.Query, fmt.Errorf("reading tags: %w", err))
		}
		rec.Set(tags.FieldGenre, "Instrumental")
		res := p.tagFromSource(pend.Item, pend.Query, pend.Desc, rec)
		res.Reason = "marked instrumental"
		return res

	default:
		p.logger.Info("review skipped", slog.String("handle", pend.Item.Handle))
		return Result{Item: pend.Item, Status: StatusSkipped, Query: pend.Query,
			Reason: "skipped by reviewer"}
	}
}
