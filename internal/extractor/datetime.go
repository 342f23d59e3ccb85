package extractor

import (
	"strings"
	"time"
)

// Raw timestamp vocabulary on article pages.
const (
	markerAM = "오전"
	markerPM = "오후"
)

// boilerplatePrefixes are stripped from raw timestamps before parsing.
// Order matters: the longer "기사입력" must go before "입력".
var boilerplatePrefixes = []string{"기사입력", "입력"}

// Timestamp layouts.
const (
	rawLayout       = "2006.01.02. 15:04"
	rawDateOnly     = "2006.01.02."
	canonicalLayout = "2006-01-02 15:04:05"
)

// NormalizeDate converts a raw article timestamp such as
// "2025.12.15. 오후 1:23" to the canonical "2025-12-15 13:23:00" form.
// The 12-hour clock folds to 24-hour: noon stays 12 under the PM marker
// and becomes 0 under the AM marker; other PM hours gain 12. Any parse
// failure returns the input unchanged so callers can preserve it as-is.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range boilerplatePrefixes {
		s = strings.ReplaceAll(s, prefix, "")
	}

	isPM := strings.Contains(s, markerPM)
	isAM := strings.Contains(s, markerAM)

	if !isPM && !isAM {
		// Listing-era pages carry a bare calendar date.
		if t, err := time.Parse(rawDateOnly, strings.TrimSpace(s)); err == nil {
			return t.Format(canonicalLayout)
		}
		return raw
	}

	s = strings.ReplaceAll(s, markerAM, "")
	s = strings.ReplaceAll(s, markerPM, "")
	s = strings.Join(strings.Fields(s), " ")

	t, err := time.Parse(rawLayout, s)
	if err != nil {
		return raw
	}

	switch {
	case isPM && t.Hour() != 12:
		t = t.Add(12 * time.Hour)
	case isAM && t.Hour() == 12:
		t = t.Add(-12 * time.Hour)
	}

	return t.Format(canonicalLayout)
}
