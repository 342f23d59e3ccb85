// Package sink persists extracted articles. Sinks are append-only and
// accept one record at a time; the engine calls Save per successfully
// extracted article.
package sink

import (
	"context"

	"github.com/finscope/newscrawl/internal/domain"
)

// Sink accepts extracted article records.
type Sink interface {
	// Save persists one article. A duplicate of an already persisted
	// link must be swallowed, not returned as an error; any other
	// failure surfaces so the caller can leave the URL unrecorded in
	// the dedup index and retry it on the next run.
	Save(ctx context.Context, article *domain.Article) error
	// Close releases sink resources.
	Close() error
}
