// Package dedup tracks previously ingested article URLs so a reference
// is never re-extracted and re-inserted.
package dedup

import "context"

// Store is the durable deduplication index. It only grows: there is no
// deletion operation. Implementations must be safe for concurrent use
// across parallel source workers.
type Store interface {
	// Has reports whether the URL was ingested in this run or any prior run.
	Has(ctx context.Context, url string) (bool, error)
	// Record marks the URL as ingested. Idempotent. Callers invoke it only
	// after the sink accepted the write for that record.
	Record(ctx context.Context, url string) error
}
