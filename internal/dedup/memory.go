package dedup

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory dedup index. The CSV sink path seeds it
// from the sink file's LINK column at startup, which makes it durable
// across runs as long as the sink file is; tests use it bare.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

// Seed loads previously known URLs in bulk.
func (s *MemoryStore) Seed(urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range urls {
		s.seen[u] = struct{}{}
	}
}

// Has reports whether the URL is known.
func (s *MemoryStore) Has(_ context.Context, url string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[url]
	return ok, nil
}

// Record marks the URL as known.
func (s *MemoryStore) Record(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[url] = struct{}{}
	return nil
}

// Len returns the number of known URLs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
