// Package fetcher provides the sequential page session used by the
// crawl engine. One session is reused across all navigations of a
// single source worker; sessions are not safe for concurrent use.
package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
)

// DefaultUserAgent identifies the crawler when none is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Page is one fetched and parsed page.
type Page struct {
	// Doc is the parsed document
	Doc *goquery.Document
	// ResolvedURL is the final URL after redirects; vertical redirects
	// (entertainment/sports) are detected on this value, not the request URL
	ResolvedURL string
}

// Config parameterizes a session.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
	// Delay is the politeness pause between requests
	Delay time.Duration
}

// Session wraps a colly collector for strictly sequential navigation.
type Session struct {
	collector *colly.Collector

	// Per-visit results, written by the collector callbacks. A session
	// serves one goroutine, so plain fields are sufficient.
	lastPage *Page
	lastErr  error
}

// NewSession creates a configured session.
func NewSession(cfg Config) (*Session, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	collector.SetRequestTimeout(cfg.RequestTimeout)

	if cfg.Delay > 0 {
		if err := collector.Limit(&colly.LimitRule{
			DomainGlob: "*",
			Delay:      cfg.Delay,
		}); err != nil {
			return nil, fmt.Errorf("configure rate limit: %w", err)
		}
	}

	s := &Session{collector: collector}

	collector.OnResponse(func(r *colly.Response) {
		doc, parseErr := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if parseErr != nil {
			s.lastErr = fmt.Errorf("parse page: %w", parseErr)
			return
		}
		s.lastPage = &Page{
			Doc:         doc,
			ResolvedURL: r.Request.URL.String(),
		}
	})

	collector.OnError(func(r *colly.Response, visitErr error) {
		s.lastErr = visitErr
	})

	return s, nil
}

// Fetch navigates to the URL and returns the parsed page. The request
// is bounded by the session's configured timeout.
func (s *Session) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.lastPage = nil
	s.lastErr = nil

	if err := s.collector.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if s.lastErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, s.lastErr)
	}
	if s.lastPage == nil {
		return nil, fmt.Errorf("fetch %s: no response received", rawURL)
	}

	return s.lastPage, nil
}
