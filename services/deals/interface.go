package deals

import "voyago/models"

// BundleEngine answers recommendation and bundle queries over the catalog.
type BundleEngine interface {
	// GetRecommendations returns flat candidates for a destination,
	// optionally capped by budget and narrowed to one category. An empty
	// category returns both kinds. Date filtering degrades through a
	// deterministic three-tier fallback rather than returning nothing.
	GetRecommendations(dest string, budget *float64, category models.CandidateType, date string) ([]models.Candidate, error)

	// CreateBundles cross-products the cheapest flights and lodgings for a
	// destination into scored bundles, best fit first, at most three.
	CreateBundles(dest, origin, date string, budget *float64, amenities []string) ([]models.Bundle, error)
}

// Broadcaster delivers one text frame to every live session.
type Broadcaster interface {
	Broadcast(text string)
}
