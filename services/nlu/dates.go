package nlu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateNormalizer converts loose date phrases ("December 25th", "in 2 weeks")
// into a canonical "YYYY-MM-DD" date, or a "YYYY-MM" partial when only the
// month is known. A phrase with no month token and no digit date pattern
// normalizes to nothing at all, so callers can tell "no date" apart from a
// garbage value; a garbage string must never reach the catalog store as if
// it were a calendar date.
type DateNormalizer struct {
	referenceYear int
	now           func() time.Time
}

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var (
	canonicalRe  = regexp.MustCompile(`^\d{4}-\d{2}(-\d{2})?$`)
	ordinalRe    = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)
	dayMonthRe   = regexp.MustCompile(`(\d{1,2})\s+([a-z]+)\.?\s*(\d{4})?`)
	monthDayRe   = regexp.MustCompile(`([a-z]+)\.?\s+(\d{1,2})\b,?\s*(\d{4})?`)
	letterRunRe  = regexp.MustCompile(`[a-z]+`)
	digitRe      = regexp.MustCompile(`\d+`)
	yearRe       = regexp.MustCompile(`\b\d{4}\b`)
	digitDateRe  = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}`)
)

// NewDateNormalizer builds a normalizer. referenceYear is assumed for
// phrases with no year; now supplies the clock for relative offsets.
func NewDateNormalizer(referenceYear int, now func() time.Time) *DateNormalizer {
	if now == nil {
		now = time.Now
	}
	return &DateNormalizer{referenceYear: referenceYear, now: now}
}

// Normalize applies the rule cascade in fixed order. ok is false when the
// input contains nothing date-like.
func (n *DateNormalizer) Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	// Already canonical: pass through unchanged, which makes Normalize
	// idempotent over its own output.
	if canonicalRe.MatchString(raw) {
		return raw, true
	}

	clean := ordinalRe.ReplaceAllString(strings.ToLower(raw), "$1")

	// Day then month ("3rd January 2026").
	if m := dayMonthRe.FindStringSubmatch(clean); m != nil {
		if month := monthFromName(m[2]); month > 0 {
			day, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%d-%02d-%02d", n.yearOrDefault(m[3]), month, day), true
		}
	}

	// Month then day ("January 3rd 2026", "Dec 25").
	if m := monthDayRe.FindStringSubmatch(clean); m != nil {
		if month := monthFromName(m[1]); month > 0 {
			day, _ := strconv.Atoi(m[2])
			return fmt.Sprintf("%d-%02d-%02d", n.yearOrDefault(m[3]), month, day), true
		}
	}

	// Month only ("in December") -> partial key for prefix search. A bare
	// "january 2026" keeps its explicit year.
	for _, word := range letterRunRe.FindAllString(clean, -1) {
		if month := monthFromName(word); month > 0 {
			return fmt.Sprintf("%d-%02d", n.yearOrDefault(yearRe.FindString(clean)), month), true
		}
	}

	// Relative offsets, computed from the current date.
	if strings.Contains(clean, "week") {
		weeks := 1
		if d := digitRe.FindString(clean); d != "" {
			weeks, _ = strconv.Atoi(d)
		}
		return n.now().AddDate(0, 0, 7*weeks).Format("2006-01-02"), true
	}
	if strings.Contains(clean, "day") && !strings.Contains(clean, "today") {
		days := 1
		if d := digitRe.FindString(clean); d != "" {
			days, _ = strconv.Atoi(d)
		}
		return n.now().AddDate(0, 0, days).Format("2006-01-02"), true
	}
	if strings.Contains(clean, "tomorrow") || strings.Contains(clean, "today") {
		days := 1
		if strings.Contains(clean, "today") {
			days = 0
		}
		return n.now().AddDate(0, 0, days).Format("2006-01-02"), true
	}

	// Nothing parsed. Keep inputs that still look date-like (a month token
	// or a digit-dash/slash pattern) so the caller can decide; reject the
	// rest outright.
	if hasMonthToken(clean) || digitDateRe.MatchString(clean) {
		return raw, true
	}
	return "", false
}

func (n *DateNormalizer) yearOrDefault(year string) int {
	if year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			return y
		}
	}
	return n.referenceYear
}

// monthFromName resolves a word to a month number; "december" and "dec"
// both hit via prefix containment.
func monthFromName(name string) int {
	for prefix, num := range monthNumbers {
		if strings.Contains(name, prefix) {
			return num
		}
	}
	return 0
}

func hasMonthToken(s string) bool {
	for prefix := range monthNumbers {
		if strings.Contains(s, prefix) {
			return true
		}
	}
	return false
}
