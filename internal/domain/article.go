// Package domain provides domain models used across the application.
package domain

// SentinelTitle is recorded when the title region yields no text.
const SentinelTitle = "제목 없음"

// SentinelContent is recorded when the article body yields no text.
const SentinelContent = "본문 없음"

// SentinelDate is recorded when every date strategy comes up empty.
const SentinelDate = "날짜 없음"

// SourceTarget identifies one press outlet to harvest.
type SourceTarget struct {
	// Name is the human-readable outlet name
	Name string `yaml:"name" json:"name"`
	// OID is the outlet's stable numeric identifier on the portal
	OID string `yaml:"oid" json:"oid"`
}

// Reference is a candidate article discovered on a listing page.
// References are ephemeral; only ingested articles are persisted.
type Reference struct {
	// URL is the unique key for the article
	URL string `json:"url"`
	// OID is the outlet the reference was listed under
	OID string `json:"oid"`
}

// Article is one extracted news record handed to the sink.
type Article struct {
	// Link is the unique article URL
	Link string `json:"link" db:"link"`
	// PublishedAt is the canonical "2006-01-02 15:04:05" timestamp, or the
	// raw source text when normalization could not parse it
	PublishedAt string `json:"published_at" db:"ndate"`
	// Title of the article (sentinel when extraction failed)
	Title string `json:"title" db:"title"`
	// Content is the article body with line breaks collapsed
	Content string `json:"content" db:"content"`
	// OID is the outlet identifier
	OID string `json:"oid" db:"oid"`
	// Industry is filled later by the classifier; empty at ingest
	Industry string `json:"industry,omitempty" db:"industry"`
	// SentScore is filled later by the sentiment scorer; empty at ingest
	SentScore string `json:"sent_score,omitempty" db:"sent_score"`
}
