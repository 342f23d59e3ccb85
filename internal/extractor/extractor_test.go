package extractor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/extractor"
	"github.com/finscope/newscrawl/internal/fetcher"
	"github.com/finscope/newscrawl/internal/logger"
)

// fakeFetcher serves one canned page, or an error.
type fakeFetcher struct {
	page *fetcher.Page
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*fetcher.Page, error) {
	return f.page, f.err
}

func pageFromHTML(t *testing.T, html, resolvedURL string) *fetcher.Page {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return &fetcher.Page{Doc: doc, ResolvedURL: resolvedURL}
}

const articleHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="media_end_head_info_datestamp" data-date-time="2025-12-15 13:23:00">
		<span class="media_end_head_info_datestamp_time">2025.12.15. 오후 1:23</span>
	</div>
	<h2 id="title_area"><span>삼성전자, 신규 공장 착공</span></h2>
	<article id="dic_area">
		첫 문단입니다.
		<span class="img_desc">사진 설명은 본문이 아니다</span>
		둘째 문단입니다.
		<div class="media_end_summary">요약도 본문이 아니다</div>
	</article>
</body>
</html>`

func TestExtract_FullArticle(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{page: pageFromHTML(t, articleHTML, "https://n.news.naver.com/article/009/0001")}
	e := extractor.New(f, logger.NewNoOp())

	ref := domain.Reference{URL: "https://n.news.naver.com/article/009/0001", OID: "009"}
	article, err := e.Extract(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, ref.URL, article.Link)
	assert.Equal(t, "009", article.OID)
	assert.Equal(t, "삼성전자, 신규 공장 착공", article.Title)
	assert.Equal(t, "2025-12-15 13:23:00", article.PublishedAt)
	assert.Contains(t, article.Content, "첫 문단입니다.")
	assert.Contains(t, article.Content, "둘째 문단입니다.")
	assert.NotContains(t, article.Content, "사진 설명은 본문이 아니다")
	assert.NotContains(t, article.Content, "요약도 본문이 아니다")
	assert.NotContains(t, article.Content, "\n")
}

func TestExtract_ContentSentinelWhenBodyMissing(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h2 id="title_area"><span>제목만 있는 페이지</span></h2>
	</body></html>`

	f := &fakeFetcher{page: pageFromHTML(t, html, "https://n.news.naver.com/article/009/0002")}
	e := extractor.New(f, logger.NewNoOp())

	article, err := e.Extract(context.Background(), domain.Reference{URL: "u", OID: "009"})
	require.NoError(t, err)

	assert.Equal(t, domain.SentinelContent, article.Content)
	assert.Equal(t, domain.SentinelDate, article.PublishedAt)
}

func TestExtract_DateFallsBackToAttribute(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<div class="media_end_head_info_datestamp" data-date-time="2025-12-14 09:00:00"></div>
		<h2 id="title_area"><span>속성 날짜</span></h2>
		<article id="dic_area">본문</article>
	</body></html>`

	f := &fakeFetcher{page: pageFromHTML(t, html, "https://n.news.naver.com/article/009/0003")}
	e := extractor.New(f, logger.NewNoOp())

	article, err := e.Extract(context.Background(), domain.Reference{URL: "u", OID: "009"})
	require.NoError(t, err)

	// The attribute value is already canonical; normalization keeps it.
	assert.Equal(t, "2025-12-14 09:00:00", article.PublishedAt)
}

func TestExtract_LegacyDateSelector(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<span class="t11">기사입력 2019.03.02. 오전 11:15</span>
		<h2 id="title_area"><span>옛날 기사</span></h2>
		<article id="dic_area">본문</article>
	</body></html>`

	f := &fakeFetcher{page: pageFromHTML(t, html, "https://n.news.naver.com/article/009/0004")}
	e := extractor.New(f, logger.NewNoOp())

	article, err := e.Extract(context.Background(), domain.Reference{URL: "u", OID: "009"})
	require.NoError(t, err)

	assert.Equal(t, "2019-03-02 11:15:00", article.PublishedAt)
}

func TestExtract_ExcludedVerticalRedirect(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{page: pageFromHTML(t, articleHTML,
		"https://entertain.naver.com/read?oid=009&aid=0001")}
	e := extractor.New(f, logger.NewNoOp())

	_, err := e.Extract(context.Background(), domain.Reference{URL: "u", OID: "009"})
	assert.ErrorIs(t, err, extractor.ErrExcluded)
}

func TestExtract_NotAnArticle(t *testing.T) {
	t.Parallel()

	html := `<html><body><div id="dic_area">본문은 있는데 제목 영역이 없다</div></body></html>`

	f := &fakeFetcher{page: pageFromHTML(t, html, "https://n.news.naver.com/article/009/0005")}
	e := extractor.New(f, logger.NewNoOp())

	_, err := e.Extract(context.Background(), domain.Reference{URL: "u", OID: "009"})
	assert.ErrorIs(t, err, extractor.ErrNotAnArticle)
}

func TestExtract_FetchErrorPropagates(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("connection reset")
	e := extractor.New(&fakeFetcher{err: fetchErr}, logger.NewNoOp())

	_, err := e.Extract(context.Background(), domain.Reference{URL: "u", OID: "009"})
	assert.ErrorIs(t, err, fetchErr)
}

func TestExtract_EmptyTitleTextYieldsSentinel(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h2 id="title_area"><span>   </span></h2>
		<article id="dic_area">본문</article>
	</body></html>`

	f := &fakeFetcher{page: pageFromHTML(t, html, "https://n.news.naver.com/article/009/0006")}
	e := extractor.New(f, logger.NewNoOp())

	article, err := e.Extract(context.Background(), domain.Reference{URL: "u", OID: "009"})
	require.NoError(t, err)
	assert.Equal(t, domain.SentinelTitle, article.Title)
}
