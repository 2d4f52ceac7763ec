package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"voyago/models"
)

// Extractor turns one free-text utterance into an intent and candidate slot
// values. It is a pure function of (utterance, vocabulary): no session
// state, no side effects. Ambiguity is never an error; the ordered rules
// below resolve it silently.
type Extractor struct {
	vocab   Vocabulary
	intents []intentRule
}

// intentRule is one entry of the ordered intent table; the first rule whose
// match function fires wins.
type intentRule struct {
	intent models.Intent
	match  func(text string) bool
}

var (
	originRe    = regexp.MustCompile(`\b(?:from|departing|leaving)\s+([a-zA-Z][a-zA-Z ]*?)(?:\s+(?:to|for|on)\b|$)`)
	budgetRe    = regexp.MustCompile(`(?:\$|budget\s?|under\s?)(\d+)`)
	datePhrase  = regexp.MustCompile(`\b(?:on|from|starting)\b\s+(.{4,25})`)
	monthDateRe = regexp.MustCompile(`(?:in\s)?(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?(\s+\d{1,2}(st|nd|rd|th)?)?(\s+\d{4})?`)
	relativeRe  = regexp.MustCompile(`\b(?:in\s+\d+\s+(?:weeks?|days?)|next\s+week|tomorrow)\b`)
	travelersRe = regexp.MustCompile(`(\d+)\s*(?:adults?|guests?|people|pax|travellers?)|family of\s*(\d+)`)
	nightsRe    = regexp.MustCompile(`for\s+(\d+)\s*(?:nights?|days?)`)
	indexRe     = regexp.MustCompile(`(?:option|number|bundle|#)\s?(\d+)`)
	selectionRe = regexp.MustCompile(`(?:go with|choose|select|book|chose)\s+(\w+)`)
)

// selectionStopwords are words a selection-by-name match must reject; they
// show up as false positives in phrases like "choose option 2".
var selectionStopwords = map[string]bool{
	"option": true, "number": true, "flight": true, "deal": true,
}

// NewExtractor builds an extractor over the given vocabulary.
func NewExtractor(vocab Vocabulary) *Extractor {
	e := &Extractor{vocab: vocab}

	containsAny := func(words ...string) func(string) bool {
		return func(text string) bool {
			for _, w := range words {
				if strings.Contains(text, w) {
					return true
				}
			}
			return false
		}
	}

	// Priority order: watch > book > bundle > show_flights > refine > search.
	e.intents = []intentRule{
		{models.IntentWatch, containsAny("watch", "track", "alert")},
		{models.IntentBook, containsAny("book", "select", "choose", "chose", "go with", "pick")},
		{models.IntentBundle, containsAny("bundle", "package")},
		{models.IntentShowFlights, func(text string) bool {
			return strings.Contains(text, "flight") &&
				(strings.Contains(text, "show") || strings.Contains(text, "again") || strings.Contains(text, "list"))
		}},
		{models.IntentRefine, func(text string) bool {
			if strings.Contains(text, "hotel") {
				return true
			}
			for _, kw := range vocab.IntentAmenityKeywords {
				if strings.Contains(text, kw) {
					return true
				}
			}
			return false
		}},
	}
	return e
}

// Extract runs the full rule set over one utterance.
func (e *Extractor) Extract(utterance string) models.ExtractedSlots {
	text := strings.ToLower(utterance)
	result := models.ExtractedSlots{Intent: models.IntentSearch}

	for _, rule := range e.intents {
		if rule.match(text) {
			result.Intent = rule.intent
			break
		}
	}

	// Origin phrase is resolved first so the destination scan can skip it.
	var rawOrigin string
	if m := originRe.FindStringSubmatch(text); m != nil {
		rawOrigin = strings.TrimSpace(m[1])
		result.Origin = titleCase(rawOrigin)
	}

	// Destination: first vocabulary city in the text that is not the origin.
	for _, city := range e.vocab.Cities {
		lower := strings.ToLower(city)
		if !strings.Contains(text, lower) {
			continue
		}
		if lower == rawOrigin {
			continue
		}
		result.Destination = city
		break
	}

	if m := budgetRe.FindStringSubmatch(text); m != nil {
		if amt, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.Budget = &amt
		}
	}

	result.Dates = e.extractDates(text)

	if m := travelersRe.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if n, err := strconv.Atoi(raw); err == nil {
			result.Travelers = &n
		}
	}

	if m := nightsRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			result.Nights = &n
		}
	}

	for _, tag := range e.vocab.Amenities {
		if strings.Contains(text, tag) {
			result.Amenities = append(result.Amenities, tag)
		}
	}

	// Selection is only meaningful on a book intent.
	if result.Intent == models.IntentBook {
		if m := indexRe.FindStringSubmatch(text); m != nil {
			if idx, err := strconv.Atoi(m[1]); err == nil {
				result.SelectionIndex = &idx
			}
		}
		if m := selectionRe.FindStringSubmatch(text); m != nil {
			if candidate := m[1]; !selectionStopwords[candidate] {
				result.SelectionName = titleCase(candidate)
			}
		}
	}

	return result
}

// extractDates runs the two-stage date strategy. Stage (a) captures a short
// phrase after on/from/starting, rejected if it is actually a city name;
// unconstrained capture swallows unrelated trailing text otherwise. Stage
// (b) falls back to month names and relative phrases.
func (e *Extractor) extractDates(text string) string {
	if m := datePhrase.FindStringSubmatch(text); m != nil {
		raw := m[1]
		if i := strings.Index(raw, " to "); i >= 0 {
			raw = raw[:i]
		}
		if i := strings.Index(raw, " for "); i >= 0 {
			raw = raw[:i]
		}
		raw = strings.TrimSpace(raw)

		isCity := false
		for _, city := range e.vocab.Cities {
			if strings.Contains(strings.ToLower(raw), strings.ToLower(city)) {
				isCity = true
				break
			}
		}
		if !isCity && raw != "" {
			return raw
		}
	}

	if m := monthDateRe.FindString(text); m != "" {
		return strings.TrimSpace(strings.TrimPrefix(m, "in "))
	}
	if m := relativeRe.FindString(text); m != "" {
		return m
	}
	return ""
}

// titleCase capitalizes each word, for display ("new york" -> "New York").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
