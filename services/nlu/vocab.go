package nlu

// Vocabulary is the static word lists the extractor matches against. It is
// deliberately small: the extractor is rule-based, not learned.
type Vocabulary struct {
	// Cities are matched in order; the first hit that is not the origin wins.
	Cities []string
	// Amenities are matched in order; all hits are collected.
	Amenities []string
	// IntentAmenityKeywords trigger the refine intent even without "hotel".
	IntentAmenityKeywords []string
}

// DefaultVocabulary returns the built-in destination and amenity lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Cities: []string{
			"Mumbai", "Delhi", "Bangalore", "Goa", "Chennai",
			"Paris", "Tokyo", "London", "Dubai", "New York",
		},
		Amenities: []string{
			"wifi", "pool", "spa", "pet", "dog", "gym",
			"breakfast", "parking", "ocean", "sea", "mountain",
		},
		IntentAmenityKeywords: []string{
			"pet", "pool", "wifi", "breakfast", "gym", "spa",
			"parking", "ocean", "mountain", "friendly",
		},
	}
}
