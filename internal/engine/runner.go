// Package engine implements the incremental crawl engine: the per-source
// day runner and the backward-in-time orchestrator.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/finscope/newscrawl/internal/dedup"
	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/extractor"
	"github.com/finscope/newscrawl/internal/listing"
	"github.com/finscope/newscrawl/internal/logger"
	"github.com/finscope/newscrawl/internal/sink"
)

// ListingPager fetches one parsed listing page.
type ListingPager interface {
	Page(ctx context.Context, oid string, day time.Time, page int) (*listing.Result, error)
}

// ArticleExtractor turns a reference into an article record.
type ArticleExtractor interface {
	Extract(ctx context.Context, ref domain.Reference) (*domain.Article, error)
}

// Runner walks one source for one calendar day. All operations within a
// runner are strictly sequential: the stop-on-duplicate verdict depends
// on listing order, newest to oldest.
type Runner struct {
	pager     ListingPager
	extractor ArticleExtractor
	store     dedup.Store
	sink      sink.Sink
	mode      domain.Mode
	log       logger.Interface
}

// NewRunner creates a day runner.
func NewRunner(
	pager ListingPager,
	articleExtractor ArticleExtractor,
	store dedup.Store,
	out sink.Sink,
	mode domain.Mode,
	log logger.Interface,
) *Runner {
	return &Runner{
		pager:     pager,
		extractor: articleExtractor,
		store:     store,
		sink:      out,
		mode:      mode,
		log:       log,
	}
}

// RunDay processes one (source, date) pair and reports whether the
// source reached its frontier. In incremental mode a listing that never
// materializes on page 1 counts as caught up; in gap-filling mode the
// day is skipped so the walk still reaches the floor date.
func (r *Runner) RunDay(
	ctx context.Context,
	source domain.SourceTarget,
	day time.Time,
) (domain.Verdict, error) {
	log := r.log.WithSource(source.Name).WithDate(day)
	session := dedup.NewSession()

	var verdict domain.Verdict

	for page := 1; ; page++ {
		result, err := r.pager.Page(ctx, source.OID, day, page)
		if err != nil {
			if errors.Is(err, listing.ErrNoListing) {
				if page == 1 {
					if r.mode == domain.ModeGapFill {
						// A content-free day must not truncate the backfill.
						log.Warn("listing unavailable, skipping date")
						return verdict, nil
					}
					log.Warn("listing unavailable, treating source as caught up")
					return domain.Verdict{Stopped: true}, nil
				}
				return verdict, nil
			}
			if ctx.Err() != nil {
				return verdict, ctx.Err()
			}
			// Transient listing failure ends the day's walk; the source
			// stays active for older dates.
			log.Error("listing page failed", "page", page, "error", err)
			return verdict, nil
		}

		// A page with no references ends the walk for this date even when
		// a next-page affordance is still rendered.
		if len(result.Refs) == 0 {
			return verdict, nil
		}

		stopped, refErr := r.processRefs(ctx, log, session, result.Refs, &verdict)
		if refErr != nil {
			return verdict, refErr
		}
		if stopped {
			verdict.Stopped = true
			return verdict, nil
		}

		if !result.HasNext {
			return verdict, nil
		}
	}
}

// processRefs handles one page's references in listing order. Returns
// true when an incremental-mode duplicate proves the frontier is
// reached; remaining references are never evaluated.
func (r *Runner) processRefs(
	ctx context.Context,
	log logger.Interface,
	session *dedup.Session,
	refs []domain.Reference,
	verdict *domain.Verdict,
) (bool, error) {
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		if domain.ExcludedURL(ref.URL) {
			continue
		}

		// Pagination shift protection: listing pages re-render items
		// already handled earlier in this (source, date) walk.
		if session.Seen(ref.URL) {
			continue
		}

		known, hasErr := r.store.Has(ctx, ref.URL)
		if hasErr != nil {
			log.Error("dedup check failed", "url", ref.URL, "error", hasErr)
			continue
		}
		if known {
			if r.mode == domain.ModeGapFill {
				// Historical listings interleave already-known items;
				// stopping here would silently truncate the backfill.
				continue
			}
			log.Info("reached existing data, stopping source", "url", ref.URL)
			return true, nil
		}

		if ingested := r.ingest(ctx, log, ref); ingested {
			session.Mark(ref.URL)
			verdict.Inserted++
		}
	}

	return false, nil
}

// ingest extracts one reference and hands it to the sink. The dedup
// record is written only after the sink accepted the article, so a
// failed write leaves the URL retryable on the next run.
func (r *Runner) ingest(ctx context.Context, log logger.Interface, ref domain.Reference) bool {
	article, err := r.extractor.Extract(ctx, ref)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrExcluded):
			log.Debug("skipping excluded vertical", "url", ref.URL)
		case errors.Is(err, extractor.ErrNotAnArticle):
			log.Debug("skipping non-article page", "url", ref.URL)
		default:
			log.Warn("extraction failed, skipping", "url", ref.URL, "error", err)
		}
		return false
	}

	if saveErr := r.sink.Save(ctx, article); saveErr != nil {
		log.Error("sink write failed, reference will be retried next run",
			"url", ref.URL, "error", saveErr)
		return false
	}

	if recordErr := r.store.Record(ctx, ref.URL); recordErr != nil {
		log.Warn("dedup record failed", "url", ref.URL, "error", recordErr)
	}

	return true
}
