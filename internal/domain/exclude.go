package domain

import "strings"

// excludedVerticals lists host fragments of content verticals that share
// the portal's network but are never ingested (entertainment, sports).
var excludedVerticals = []string{
	"entertain.naver.com",
	"sports.news.naver.com",
	"sports.naver.com",
}

// ExcludedURL reports whether the URL belongs to an excluded vertical.
// The check runs before dedup and extraction, and again on the resolved
// URL after redirects.
func ExcludedURL(rawURL string) bool {
	for _, fragment := range excludedVerticals {
		if strings.Contains(rawURL, fragment) {
			return true
		}
	}
	return false
}
