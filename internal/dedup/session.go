package dedup

// Session is the same-run visit cache for one (source, date) pair.
// Listing pages re-render overlapping items across pagination steps;
// the session keeps those from being visited twice. It is discarded
// when the day's walk ends and is not a substitute for the Store.
// Not safe for concurrent use; each day runner owns its own.
type Session struct {
	seen map[string]struct{}
}

// NewSession creates an empty session cache.
func NewSession() *Session {
	return &Session{seen: make(map[string]struct{})}
}

// Seen reports whether the URL was visited earlier in this session.
func (s *Session) Seen(url string) bool {
	_, ok := s.seen[url]
	return ok
}

// Mark records a visited URL.
func (s *Session) Mark(url string) {
	s.seen[url] = struct{}{}
}
