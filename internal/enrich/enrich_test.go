package enrich_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/enrich"
	"github.com/finscope/newscrawl/internal/logger"
)

// fakeStore keeps articles in memory keyed by link.
type fakeStore struct {
	articles  map[string]*domain.Article
	order     []string
	listCalls int
}

func newFakeStore(articles ...*domain.Article) *fakeStore {
	s := &fakeStore{articles: make(map[string]*domain.Article)}
	for _, a := range articles {
		s.articles[a.Link] = a
		s.order = append(s.order, a.Link)
	}
	return s
}

func (s *fakeStore) ListUnclassified(_ context.Context, limit int) ([]domain.Article, error) {
	s.listCalls++
	var out []domain.Article
	for _, link := range s.order {
		if len(out) == limit {
			break
		}
		if s.articles[link].Industry == "" {
			out = append(out, *s.articles[link])
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateIndustry(_ context.Context, link, industry string) error {
	s.articles[link].Industry = industry
	return nil
}

func (s *fakeStore) ListUnscored(
	_ context.Context,
	industries []string,
	limit int,
) ([]domain.Article, error) {
	target := make(map[string]bool, len(industries))
	for _, ind := range industries {
		target[ind] = true
	}

	var out []domain.Article
	for _, link := range s.order {
		if len(out) == limit {
			break
		}
		a := s.articles[link]
		if a.SentScore == "" && target[a.Industry] {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateSentiment(_ context.Context, link, score string) error {
	s.articles[link].SentScore = score
	return nil
}

// fakeClassifier labels everything with a fixed mapping.
type fakeClassifier struct {
	labels map[string]string
	err    error
}

func (c *fakeClassifier) Classify(_ context.Context, texts []string) ([]enrich.Label, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := make([]enrich.Label, len(texts))
	for i, text := range texts {
		out[i] = enrich.Label{Name: c.labels[text], Confidence: 0.9}
	}
	return out, nil
}

// fakeScorer returns a constant score per call and records the texts.
type fakeScorer struct {
	score float64
	texts []string
}

func (s *fakeScorer) Score(_ context.Context, texts []string) ([]float64, error) {
	s.texts = append(s.texts, texts...)
	out := make([]float64, len(texts))
	for i := range out {
		out[i] = s.score
	}
	return out, nil
}

func TestRun_LabelsThenScores(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		&domain.Article{Link: "a", Title: "현대차 실적 발표", Content: "본문 A"},
		&domain.Article{Link: "b", Title: "은행 금리 인하", Content: "본문 B"},
		&domain.Article{Link: "c", Title: "아파트 분양 시작", Content: "본문 C"},
	)
	classifier := &fakeClassifier{labels: map[string]string{
		"현대차 실적 발표": "자동차",
		"은행 금리 인하":  "금융",
		"아파트 분양 시작": "건설",
	}}
	scorer := &fakeScorer{score: -0.1234}

	filler := enrich.NewFiller(store, classifier, scorer, 2, nil, logger.NewNoOp())
	require.NoError(t, filler.Run(context.Background()))

	assert.Equal(t, "자동차", store.articles["a"].Industry)
	assert.Equal(t, "금융", store.articles["b"].Industry)
	assert.Equal(t, "건설", store.articles["c"].Industry)

	// Only the default target industries get sentiment scores.
	assert.Equal(t, "-0.1234", store.articles["a"].SentScore)
	assert.Empty(t, store.articles["b"].SentScore)
	assert.Equal(t, "-0.1234", store.articles["c"].SentScore)
}

func TestFillSentiment_FeedsTitleAndBoundedContent(t *testing.T) {
	t.Parallel()

	longBody := strings.Repeat("가", 500)
	store := newFakeStore(
		&domain.Article{Link: "a", Title: "제목", Content: longBody, Industry: "자동차"},
	)
	scorer := &fakeScorer{score: 0.5}

	filler := enrich.NewFiller(store, &fakeClassifier{}, scorer, 10, nil, logger.NewNoOp())
	require.NoError(t, filler.FillSentiment(context.Background()))

	require.Len(t, scorer.texts, 1)
	assert.Equal(t, "제목 "+strings.Repeat("가", 200), scorer.texts[0])
	assert.Equal(t, "0.5000", store.articles["a"].SentScore)
}

func TestFillIndustries_EmptyLabelsDoNotLoopForever(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		&domain.Article{Link: "a", Title: "라벨 없는 기사"},
	)
	// Classifier returns empty labels, so no row ever progresses.
	classifier := &fakeClassifier{labels: map[string]string{}}

	filler := enrich.NewFiller(store, classifier, &fakeScorer{}, 5, nil, logger.NewNoOp())
	require.NoError(t, filler.FillIndustries(context.Background()))

	assert.Empty(t, store.articles["a"].Industry)
	assert.Equal(t, 1, store.listCalls)
}

func TestFillIndustries_ClassifierErrorAborts(t *testing.T) {
	t.Parallel()

	store := newFakeStore(&domain.Article{Link: "a", Title: "기사"})
	classifier := &fakeClassifier{err: errors.New("model unavailable")}

	filler := enrich.NewFiller(store, classifier, &fakeScorer{}, 5, nil, logger.NewNoOp())
	err := filler.FillIndustries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestNewFiller_CustomIndustries(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		&domain.Article{Link: "a", Title: "제목", Content: "본문", Industry: "금융"},
		&domain.Article{Link: "b", Title: "제목", Content: "본문", Industry: "자동차"},
	)
	scorer := &fakeScorer{score: 1}

	filler := enrich.NewFiller(store, &fakeClassifier{}, scorer, 10,
		[]string{"금융"}, logger.NewNoOp())
	require.NoError(t, filler.FillSentiment(context.Background()))

	assert.Equal(t, "1.0000", store.articles["a"].SentScore)
	assert.Empty(t, store.articles["b"].SentScore)
}
