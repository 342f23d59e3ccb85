// Package enrich fills the classification and sentiment fields of
// already persisted articles. The models live behind injected
// collaborator interfaces; the crawl engine never blocks on them.
package enrich

import (
	"context"
	"fmt"
	"strconv"

	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/logger"
)

// DefaultTargetIndustries limits sentiment scoring to the industries
// the risk pipeline tracks.
var DefaultTargetIndustries = []string{"자동차", "건설", "헬스케어"}

// contentPrefixRunes is how much article body joins the title for
// sentiment scoring.
const contentPrefixRunes = 200

// Label is one classification result.
type Label struct {
	Name       string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier assigns industry labels to texts in batch.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]Label, error)
}

// Scorer assigns sentiment scores to texts in batch.
type Scorer interface {
	Score(ctx context.Context, texts []string) ([]float64, error)
}

// Store reads and updates persisted articles for enrichment.
type Store interface {
	ListUnclassified(ctx context.Context, limit int) ([]domain.Article, error)
	UpdateIndustry(ctx context.Context, link, industry string) error
	ListUnscored(ctx context.Context, industries []string, limit int) ([]domain.Article, error)
	UpdateSentiment(ctx context.Context, link, score string) error
}

// Filler runs the enrichment passes over the store.
type Filler struct {
	store      Store
	classifier Classifier
	scorer     Scorer
	batchSize  int
	industries []string
	log        logger.Interface
}

// NewFiller creates a filler. An empty industries slice falls back to
// the default target set.
func NewFiller(
	store Store,
	classifier Classifier,
	scorer Scorer,
	batchSize int,
	industries []string,
	log logger.Interface,
) *Filler {
	if len(industries) == 0 {
		industries = DefaultTargetIndustries
	}
	return &Filler{
		store:      store,
		classifier: classifier,
		scorer:     scorer,
		batchSize:  batchSize,
		industries: industries,
		log:        log,
	}
}

// Run executes both passes: industry labels first, then sentiment for
// the target industries.
func (f *Filler) Run(ctx context.Context) error {
	if err := f.FillIndustries(ctx); err != nil {
		return err
	}
	return f.FillSentiment(ctx)
}

// FillIndustries labels every article with an empty industry field,
// classifying titles in batches.
func (f *Filler) FillIndustries(ctx context.Context) error {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := f.store.ListUnclassified(ctx, f.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		titles := make([]string, len(batch))
		for i, article := range batch {
			titles[i] = article.Title
		}

		labels, classifyErr := f.classifier.Classify(ctx, titles)
		if classifyErr != nil {
			return fmt.Errorf("classify batch: %w", classifyErr)
		}
		if len(labels) != len(batch) {
			return fmt.Errorf("classifier returned %d labels for %d texts", len(labels), len(batch))
		}

		updated := 0
		for i, article := range batch {
			if labels[i].Name == "" {
				f.log.Warn("classifier returned empty label", "url", article.Link)
				continue
			}
			if updateErr := f.store.UpdateIndustry(ctx, article.Link, labels[i].Name); updateErr != nil {
				return updateErr
			}
			updated++
		}
		total += updated

		// A batch that updates nothing would be re-listed forever.
		if updated == 0 {
			f.log.Warn("industry batch made no progress, stopping pass", "batch_size", len(batch))
			break
		}
	}

	f.log.Info("industry labeling complete", "labeled", total)
	return nil
}

// FillSentiment scores every unscored article in the target industries,
// feeding title plus a bounded content prefix to the model.
func (f *Filler) FillSentiment(ctx context.Context) error {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := f.store.ListUnscored(ctx, f.industries, f.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		texts := make([]string, len(batch))
		for i, article := range batch {
			texts[i] = article.Title + " " + prefixRunes(article.Content, contentPrefixRunes)
		}

		scores, scoreErr := f.scorer.Score(ctx, texts)
		if scoreErr != nil {
			return fmt.Errorf("score batch: %w", scoreErr)
		}
		if len(scores) != len(batch) {
			return fmt.Errorf("scorer returned %d scores for %d texts", len(scores), len(batch))
		}

		for i, article := range batch {
			score := strconv.FormatFloat(scores[i], 'f', 4, 64)
			if updateErr := f.store.UpdateSentiment(ctx, article.Link, score); updateErr != nil {
				return updateErr
			}
		}
		total += len(batch)
	}

	f.log.Info("sentiment scoring complete", "scored", total)
	return nil
}

// prefixRunes returns at most n runes of s.
func prefixRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
