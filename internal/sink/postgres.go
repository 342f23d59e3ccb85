package sink

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/finscope/newscrawl/internal/domain"
)

// PostgresSink writes articles to the articles table. It also serves the
// enrichment pass with read/update access to persisted rows.
type PostgresSink struct {
	db *sqlx.DB
}

// NewPostgresSink creates a sink over the given connection.
func NewPostgresSink(db *sqlx.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// Save inserts one article. Duplicate-link attempts are swallowed by
// the conflict clause; anything else is surfaced to the caller.
func (s *PostgresSink) Save(ctx context.Context, article *domain.Article) error {
	query := `
		INSERT INTO articles (link, ndate, title, content, oid, industry, sent_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (link) DO NOTHING
	`

	_, err := s.db.ExecContext(
		ctx, query,
		article.Link, article.PublishedAt, article.Title,
		article.Content, article.OID, article.Industry, article.SentScore,
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// Close is a no-op; the shared connection is owned by the caller.
func (s *PostgresSink) Close() error {
	return nil
}

// articleColumns lists the columns selected for enrichment reads.
const articleColumns = `link, ndate, title, content, oid, industry, sent_score`

// ListUnclassified returns articles with an empty industry label.
func (s *PostgresSink) ListUnclassified(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE industry = ''
		ORDER BY id
		LIMIT $1
	`

	var articles []domain.Article
	if err := s.db.SelectContext(ctx, &articles, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list unclassified articles: %w", err)
	}
	return articles, nil
}

// UpdateIndustry sets the industry label for one article.
func (s *PostgresSink) UpdateIndustry(ctx context.Context, link, industry string) error {
	query := `UPDATE articles SET industry = $1 WHERE link = $2`
	if _, err := s.db.ExecContext(ctx, query, industry, link); err != nil {
		return fmt.Errorf("failed to update industry: %w", err)
	}
	return nil
}

// ListUnscored returns articles in the target industries that have no
// sentiment score yet.
func (s *PostgresSink) ListUnscored(
	ctx context.Context,
	industries []string,
	limit int,
) ([]domain.Article, error) {
	query, args, err := sqlx.In(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE sent_score = '' AND industry IN (?)
		ORDER BY id
		LIMIT ?
	`, industries, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build unscored query: %w", err)
	}

	var articles []domain.Article
	if selectErr := s.db.SelectContext(ctx, &articles, s.db.Rebind(query), args...); selectErr != nil {
		return nil, fmt.Errorf("failed to list unscored articles: %w", selectErr)
	}
	return articles, nil
}

// UpdateSentiment sets the sentiment score for one article.
func (s *PostgresSink) UpdateSentiment(ctx context.Context, link, score string) error {
	query := `UPDATE articles SET sent_score = $1 WHERE link = $2`
	if _, err := s.db.ExecContext(ctx, query, score, link); err != nil {
		return fmt.Errorf("failed to update sentiment score: %w", err)
	}
	return nil
}
