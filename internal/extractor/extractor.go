// Package extractor turns fetched article pages into structured records,
// trying several strategies per field and degrading to sentinel values
// instead of failing the whole extraction.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/fetcher"
	"github.com/finscope/newscrawl/internal/logger"
)

// Skip-class outcomes. Callers check with errors.Is and move on; neither
// aborts a source's run.
var (
	// ErrExcluded marks a page that resolved into an excluded vertical.
	ErrExcluded = errors.New("excluded content vertical")
	// ErrNotAnArticle marks a page without the article title region.
	ErrNotAnArticle = errors.New("page is not an article")
)

// Article page selectors.
const (
	titleSelector   = "#title_area > span"
	contentSelector = "#dic_area"
	// stripSelector removes captions and boilerplate summaries that sit
	// inside the content region but are not article text
	stripSelector = ".img_desc, .media_end_summary"

	datestampSelector = ".media_end_head_info_datestamp"
	dateTimeAttr      = "data-date-time"
)

// dateSelectors is the strict priority order for the raw timestamp text.
// The machine-readable attribute on the datestamp container is the last
// resort, handled separately.
var dateSelectors = []string{
	".media_end_head_info_datestamp .media_end_head_info_datestamp_time",
	".media_end_head_info_datestamp span",
	".t11",
}

// Fetcher navigates to an article page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error)
}

// Extractor extracts article fields from fetched pages.
type Extractor struct {
	fetcher Fetcher
	log     logger.Interface
}

// New creates an extractor over the given fetch session.
func New(f Fetcher, log logger.Interface) *Extractor {
	return &Extractor{fetcher: f, log: log}
}

// Extract fetches the referenced page and produces an article record.
// Only a total page failure is an error; individual field misses degrade
// to sentinels. Excluded verticals and non-article pages return the
// package's skip errors.
func (e *Extractor) Extract(ctx context.Context, ref domain.Reference) (*domain.Article, error) {
	page, err := e.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		return nil, fmt.Errorf("article page: %w", err)
	}

	// Cheap short-circuit: vertical redirects reveal themselves in the
	// resolved URL before any field work.
	if domain.ExcludedURL(page.ResolvedURL) {
		return nil, ErrExcluded
	}

	doc := page.Doc
	if doc.Find(titleSelector).Length() == 0 {
		return nil, ErrNotAnArticle
	}

	article := &domain.Article{
		Link:        ref.URL,
		OID:         ref.OID,
		Title:       extractTitle(doc),
		Content:     extractContent(doc),
		PublishedAt: NormalizeDate(extractRawDate(doc)),
	}

	e.log.Debug("article extracted",
		"url", ref.URL,
		"title", truncate(article.Title, 20),
		"published_at", article.PublishedAt,
	)

	return article, nil
}

// extractTitle reads the primary title selector.
func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find(titleSelector).First().Text())
	if title == "" {
		return domain.SentinelTitle
	}
	return title
}

// extractContent reads the main content region with non-content
// sub-elements stripped and line breaks collapsed to single spaces.
func extractContent(doc *goquery.Document) string {
	region := doc.Find(contentSelector).First()
	if region.Length() == 0 {
		return domain.SentinelContent
	}

	region.Find(stripSelector).Remove()

	text := region.Text()
	text = strings.NewReplacer("\r", " ", "\n", " ").Replace(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.SentinelContent
	}
	return text
}

// extractRawDate walks the timestamp strategies in priority order and
// returns the first non-empty raw value.
func extractRawDate(doc *goquery.Document) string {
	for _, selector := range dateSelectors {
		if raw := strings.TrimSpace(doc.Find(selector).First().Text()); raw != "" {
			return raw
		}
	}

	if attr, ok := doc.Find(datestampSelector).First().Attr(dateTimeAttr); ok {
		if raw := strings.TrimSpace(attr); raw != "" {
			return raw
		}
	}

	return domain.SentinelDate
}

// truncate shortens log output for long titles.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
