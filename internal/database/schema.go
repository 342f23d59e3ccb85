package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// articlesSchema creates the articles table. The unique link constraint
// backs both the dedup index and the sink's duplicate-key swallowing.
const articlesSchema = `
CREATE TABLE IF NOT EXISTS articles (
	id BIGSERIAL PRIMARY KEY,
	link TEXT NOT NULL UNIQUE,
	ndate TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	oid TEXT NOT NULL,
	industry TEXT NOT NULL DEFAULT '',
	sent_score TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_articles_oid ON articles (oid);
CREATE INDEX IF NOT EXISTS idx_articles_industry ON articles (industry);
`

// EnsureSchema creates the articles table if it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, articlesSchema); err != nil {
		return fmt.Errorf("failed to ensure articles schema: %w", err)
	}
	return nil
}
