// Package pipeline wires the resolution stages together: normalize the
// raw title, consult the confirmed-match cache, search the catalog, rank
// and classify candidates, and merge the chosen release into the file's
// tag record. Items are processed strictly one at a time; manual
// decisions are deferred into a review queue instead of blocking the
// scan pass.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sydlexius/tagmatch/internal/catalog"
	"github.com/sydlexius/tagmatch/internal/cover"
	"github.com/sydlexius/tagmatch/internal/decision"
	"github.com/sydlexius/tagmatch/internal/describe"
	"github.com/sydlexius/tagmatch/internal/matchcache"
	"github.com/sydlexius/tagmatch/internal/normalize"
	"github.com/sydlexius/tagmatch/internal/rank"
	"github.com/sydlexius/tagmatch/internal/tags"
)

// Item is one unit of work: a file handle plus the raw text the
// collaborators fetched for it.
type Item struct {
	Handle      string
	Title       string
	Uploader    string
	Description string
	UploadDate  string // YYYY-MM-DD
}

// Status classifies what happened to an item during a pass.
type Status string

// Item statuses.
const (
	StatusTagged          Status = "tagged"
	StatusCached          Status = "cached"
	StatusDeferred        Status = "deferred"
	StatusSkipped         Status = "skipped"
	StatusAlreadyResolved Status = "already_resolved"
	StatusFailed          Status = "failed"
)

// Result reports the outcome for a single item. Err is set only for
// StatusFailed; failures never abort the batch.
type Result struct {
	Item   Item
	Status Status
	Query  normalize.Query
	Reason string
	Err    error
}

// Pending is a deferred manual decision: the item, its query context,
// and the viable candidates awaiting an external selection.
type Pending struct {
	Item       Item
	Query      normalize.Query
	Desc       describe.Fields
	Key        string
	Candidates []rank.ScoredCandidate
}

// Options parameterizes one pipeline run.
type Options struct {
	Thresholds    decision.Thresholds
	Policy        tags.Policy
	MaxCandidates int
	// FlipQuery retries an empty search with the "Song - Artist"
	// ordering, for catalogs that index primarily by title.
	FlipQuery bool
	// TagFromSource tags unmatched items from the normalized query and
	// parsed description alone instead of leaving them untouched.
	TagFromSource bool
}

// DefaultOptions returns the standard run settings.
func DefaultOptions() Options {
	return Options{
		Thresholds:    decision.DefaultThresholds(),
		Policy:        tags.PolicyFillMissing,
		MaxCandidates: 15,
		FlipQuery:     true,
	}
}

// Pipeline resolves items against a catalog and writes merged tags.
// All collaborators are injected; the pipeline itself performs no I/O
// beyond what they provide.
type Pipeline struct {
	search catalog.Searcher
	detail catalog.Detailer
	cache  matchcache.Store
	sink   tags.Sink
	covers cover.Fetcher
	logger *slog.Logger
	opts   Options

	untitled int
}

// New creates a pipeline. covers may be nil to disable cover art.
func New(search catalog.Searcher, detail catalog.Detailer, cache matchcache.Store,
	sink tags.Sink, covers cover.Fetcher, logger *slog.Logger, opts Options) *Pipeline {
	if !tags.ValidPolicy(opts.Policy) {
		opts.Policy = tags.PolicyFillMissing
	}
	return &Pipeline{
		search: search,
		detail: detail,
		cache:  cache,
		sink:   sink,
		covers: covers,
		logger: logger.With(slog.String("component", "pipeline")),
		opts:   opts,
	}
}

// Run processes items sequentially and returns per-item results plus the
// deferred manual decisions. Every failure is isolated to its item.
func (p *Pipeline) Run(ctx context.Context, items []Item) ([]Result, []Pending) {
	results := make([]Result, 0, len(items))
	var pending []Pending

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		res, pend := p.Process(ctx, item)
		results = append(results, res)
		if pend != nil {
			pending = append(pending, *pend)
		}
	}

	return results, pending
}

// Process runs the full pipeline for one item. A non-nil Pending means
// the item awaits an external decision before any tag write happens.
func (p *Pipeline) Process(ctx context.Context, item Item) (Result, *Pending) {
	rec, err := p.sink.Read(item.Handle)
	if err != nil {
		return p.failed(item, normalize.Query{}, fmt.Errorf("reading tags: %w", err)), nil
	}

	if rec.Resolved() && p.opts.Policy != tags.PolicyOverwriteAll {
		p.logger.Debug("already resolved, skipping",
			slog.String("handle", item.Handle),
			slog.String("url", rec.Get(tags.FieldCatalogURL)))
		return Result{Item: item, Status: StatusAlreadyResolved}, nil
	}

	q := normalize.Title(item.Title, item.Uploader)
	if q.Song == "" {
		p.untitled++
		q.Song = fmt.Sprintf("Untitled %d", p.untitled)
	}
	desc := describe.Parse(item.Description)

	year := desc.Year
	if year == "" && len(item.UploadDate) >= 4 {
		year = item.UploadDate[:4]
	}
	key := matchcache.IdentityKey(q.Artist, q.Song, year)

	if id, ok := p.cache.Lookup(key); ok {
		rel, err := p.detail.Detail(ctx, id)
		if err == nil {
			p.logger.Info("using cached match",
				slog.String("handle", item.Handle),
				slog.String("release", id))
			if err := p.merge(ctx, item, q, rec, rel, desc); err != nil {
				return p.failed(item, q, err), nil
			}
			return Result{Item: item, Status: StatusCached, Query: q}, nil
		}
		// Stale or unreachable cached release: fall back to a live search.
		p.logger.Warn("cached release fetch failed",
			slog.String("release", id),
			slog.String("error", err.Error()))
	}

	scored, res := p.searchAndRank(ctx, item, q)
	if scored == nil {
		if res.Status == StatusSkipped && p.opts.TagFromSource {
			return p.tagFromSource(item, q, desc, rec), nil
		}
		return res, nil
	}

	d := decision.Decide(scored, p.opts.Thresholds)
	switch d.Outcome {
	case decision.OutcomeAuto:
		return p.acceptAuto(ctx, item, q, desc, key, rec, scored)

	case decision.OutcomeManual:
		p.logger.Info("deferring for review",
			slog.String("handle", item.Handle),
			slog.Int("candidates", len(d.Candidates)),
			slog.Int("top_score", d.Candidates[0].Score))
		return Result{Item: item, Status: StatusDeferred, Query: q},
			&Pending{Item: item, Query: q, Desc: desc, Key: key, Candidates: d.Candidates}

	default:
		p.logger.Info("no candidate above minimum score",
			slog.String("handle", item.Handle))
		if p.opts.TagFromSource {
			return p.tagFromSource(item, q, desc, rec), nil
		}
		return Result{Item: item, Status: StatusSkipped, Query: q, Reason: "low confidence"}, nil
	}
}

// searchAndRank runs the catalog search (natural ordering first, flipped
// on an empty result when enabled) and ranks what comes back. A nil
// slice means the returned Result is final for this stage.
func (p *Pipeline) searchAndRank(ctx context.Context, item Item, q normalize.Query) ([]rank.ScoredCandidate, Result) {
	query := q.SearchString()
	candidates, err := p.search.Search(ctx, query)
	if err != nil {
		p.logger.Warn("catalog search failed",
			slog.String("handle", item.Handle),
			slog.String("error", err.Error()))
		return nil, Result{Item: item, Status: StatusSkipped, Query: q, Reason: "search failed"}
	}

	if len(candidates) == 0 && p.opts.FlipQuery {
		flipped := normalize.StripFeat(q.Flipped())
		candidates, err = p.search.Search(ctx, flipped)
		if err != nil {
			p.logger.Warn("flipped catalog search failed",
				slog.String("handle", item.Handle),
				slog.String("error", err.Error()))
			return nil, Result{Item: item, Status: StatusSkipped, Query: q, Reason: "search failed"}
		}
	}

	scored, err := rank.Rank(query, candidates, p.opts.MaxCandidates)
	if err != nil {
		return nil, Result{Item: item, Status: StatusSkipped, Query: q, Reason: "no candidates"}
	}
	return scored, Result{}
}

// acceptAuto fetches detail for the auto-accepted candidate. When that
// lookup fails the candidate is dropped and the next one reconsidered;
// remaining viable candidates below the auto threshold go to review.
func (p *Pipeline) acceptAuto(ctx context.Context, item Item, q normalize.Query,
	desc describe.Fields, key string, rec *tags.Record, scored []rank.ScoredCandidate) (Result, *Pending) {

	var viable []rank.ScoredCandidate
	for _, sc := range scored {
		if sc.Score >= p.opts.Thresholds.MinScore {
			viable = append(viable, sc)
		}
	}
	for i, sc := range viable {
		if sc.Score < p.opts.Thresholds.AutoThreshold {
			rest := viable[i:]
			return Result{Item: item, Status: StatusDeferred, Query: q},
				&Pending{Item: item, Query: q, Desc: desc, Key: key, Candidates: rest}
		}

		rel, err := p.detail.Detail(ctx, sc.Candidate.ID)
		if err != nil {
			p.logger.Warn("detail fetch failed, dropping candidate",
				slog.String("release", sc.Candidate.ID),
				slog.String("error", err.Error()))
			continue
		}

		p.logger.Info("auto-accepted match",
			slog.String("handle", item.Handle),
			slog.String("release", rel.ID),
			slog.Int("score", sc.Score))

		if err := p.finalize(ctx, item, q, rec, rel, desc, key); err != nil {
			return p.failed(item, q, err), nil
		}
		return Result{Item: item, Status: StatusTagged, Query: q}, nil
	}

	return Result{Item: item, Status: StatusSkipped, Query: q, Reason: "detail fetch failed"}, nil
}

// finalize records the confirmed decision in the cache and merges the
// release into the tag record. The cache line is appended exactly once
// per finalized decision.
func (p *Pipeline) finalize(ctx context.Context, item Item, q normalize.Query, rec *tags.Record,
	rel *catalog.Release, desc describe.Fields, key string) error {
	if err := p.cache.Append(key, rel.ID); err != nil {
		// A cache miss next run just means one extra prompt.
		p.logger.Warn("cache append failed", slog.String("error", err.Error()))
	}
	return p.merge(ctx, item, q, rec, rel, desc)
}

// merge applies the combined release and source fields, then cover art,
// and performs the single atomic sink write for this invocation. The
// catalog record wins over query-derived guesses for every field it
// resolves; the query only supplies what the release cannot.
func (p *Pipeline) merge(ctx context.Context, item Item, q normalize.Query, rec *tags.Record,
	rel *catalog.Release, desc describe.Fields) error {
	tags.MergeResolved(rec, rel, q, desc, item.UploadDate, p.opts.Policy)

	if p.covers != nil && len(rel.Images) > 0 {
		if p.opts.Policy == tags.PolicyOverwriteAll || !rec.HasCover() {
			if data, mime, ok := p.fetchCover(ctx, rel.Images[0].URL); ok {
				tags.SetCover(rec, data, mime, p.opts.Policy)
			}
		}
	}

	if err := p.sink.Write(item.Handle, rec); err != nil {
		return fmt.Errorf("writing tags: %w", err)
	}
	return nil
}

func (p *Pipeline) fetchCover(ctx context.Context, url string) ([]byte, string, bool) {
	if url == "" {
		return nil, "", false
	}
	raw, err := p.covers.Fetch(ctx, url)
	if err != nil {
		p.logger.Warn("cover fetch failed",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil, "", false
	}
	data, mime, err := cover.Normalize(raw)
	if err != nil {
		p.logger.Warn("cover normalize failed", slog.String("error", err.Error()))
		return nil, "", false
	}
	return data, mime, true
}

// tagFromSource writes a record built from the normalized query and the
// parsed description alone, for items with no usable catalog match.
func (p *Pipeline) tagFromSource(item Item, q normalize.Query, desc describe.Fields, rec *tags.Record) Result {
	tags.MergeSource(rec, q, desc, item.UploadDate, p.opts.Policy)
	if err := p.sink.Write(item.Handle, rec); err != nil {
		return p.failed(item, q, fmt.Errorf("writing tags: %w", err))
	}
	return Result{Item: item, Status: StatusTagged, Query: q, Reason: "tagged from source metadata"}
}

func (p *Pipeline) failed(item Item, q normalize.Query, err error) Result {
	p.logger.Error("item failed",
		slog.String("handle", item.Handle),
		slog.String("error", err.Error()))
	return Result{Item: item, Status: StatusFailed, Query: q, Err: err}
}
