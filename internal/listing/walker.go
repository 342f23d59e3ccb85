// Package listing walks a source's daily listing pages and produces
// article references.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/fetcher"
	"github.com/finscope/newscrawl/internal/logger"
)

// ErrNoListing is returned when the listing container never appears for
// a (source, date) page. On page 1 the day runner treats this as "no
// content for this date"; it is not a crawl error.
var ErrNoListing = errors.New("listing container not found")

// listURLFormat builds the daily listing URL for one outlet and date.
const listURLFormat = "https://news.naver.com/main/list.naver?mode=LPOD&mid=sec&oid=%s&date=%s&page=%d"

// dateParam is the listing URL's date format.
const dateParam = "20060102"

// Listing page selectors.
const (
	listBodySelector = "#main_content > div.list_body"
	pagingSelector   = "#main_content > div.paging"
	nextGroupClass   = "a.next"
)

// anchorSelectors locate article anchors, headline block first. Photo
// cells carry duplicate links and are skipped.
var anchorSelectors = []string{
	"#main_content > div.list_body.newsflash_body > ul.type06_headline > li dl > dt:not(.photo) > a",
	"#main_content > div.list_body.newsflash_body > ul.type06 > li dl > dt:not(.photo) > a",
}

// PageURL returns the listing URL for an outlet, day, and 1-based page.
func PageURL(oid string, day time.Time, page int) string {
	return fmt.Sprintf(listURLFormat, oid, day.Format(dateParam), page)
}

// Fetcher navigates to a listing page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error)
}

// Result is one parsed listing page.
type Result struct {
	// Refs are the article references on the page, excluded verticals
	// already filtered out, in listing order (newest first)
	Refs []domain.Reference
	// HasNext reports a usable affordance for the following page: a
	// direct numbered link, or the next-group control
	HasNext bool
}

// Walker pages through a source's daily listing.
type Walker struct {
	fetcher Fetcher
	log     logger.Interface
}

// NewWalker creates a walker over the given fetch session.
func NewWalker(f Fetcher, log logger.Interface) *Walker {
	return &Walker{fetcher: f, log: log}
}

// Page fetches and parses one listing page. A missing listing container
// yields ErrNoListing; transient fetch failures surface as errors.
func (w *Walker) Page(ctx context.Context, oid string, day time.Time, page int) (*Result, error) {
	pageURL := PageURL(oid, day, page)

	fetched, err := w.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("listing page %d: %w", page, err)
	}

	doc := fetched.Doc
	if doc.Find(listBodySelector).Length() == 0 {
		return nil, ErrNoListing
	}

	result := &Result{
		Refs:    extractRefs(doc, oid),
		HasNext: hasNextPage(doc, page),
	}

	w.log.Debug("listing page parsed",
		"oid", oid,
		"page", page,
		"refs", len(result.Refs),
		"has_next", result.HasNext,
	)

	return result, nil
}

// extractRefs collects article anchors from both listing blocks.
func extractRefs(doc *goquery.Document, oid string) []domain.Reference {
	var refs []domain.Reference
	seen := make(map[string]struct{})

	for _, selector := range anchorSelectors {
		doc.Find(selector).Each(func(_ int, anchor *goquery.Selection) {
			href, ok := anchor.Attr("href")
			if !ok || href == "" {
				return
			}
			if domain.ExcludedURL(href) {
				return
			}
			// Headline and plain blocks can overlap on re-rendered pages.
			if _, dup := seen[href]; dup {
				return
			}
			seen[href] = struct{}{}
			refs = append(refs, domain.Reference{URL: href, OID: oid})
		})
	}

	return refs
}

// hasNextPage checks the paging block for a way forward: the direct
// numbered link to page+1 wins, then the next-group arrow.
func hasNextPage(doc *goquery.Document, page int) bool {
	paging := doc.Find(pagingSelector)
	if paging.Length() == 0 {
		return false
	}

	next := strconv.Itoa(page + 1)
	found := false
	paging.Find("a").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		if strings.TrimSpace(anchor.Text()) == next {
			found = true
			return false
		}
		return true
	})
	if found {
		return true
	}

	return paging.Find(nextGroupClass).Length() > 0
}
