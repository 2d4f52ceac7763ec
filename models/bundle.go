package models

// PolicySnippets carries the policy lines shown alongside a bundle.
type PolicySnippets struct {
	Cancellation string `json:"cancellation"`
	Pets         string `json:"pets"`
}

// Bundle pairs a flight with a lodging, scored for fit. Bundles are
// regenerated per query and never persisted.
type Bundle struct {
	ID         string         `json:"id"`
	Flight     Flight         `json:"flight"`
	Lodging    Lodging        `json:"lodging"`
	TotalPrice float64        `json:"total_price"`
	FitScore   int            `json:"fit_score"` // always within [10,100]
	WhyThis    []string       `json:"why_this"`
	WatchOut   []string       `json:"what_to_watch"`
	Policies   PolicySnippets `json:"policies"`
}

// Quote is a derived, non-persisted price breakdown for a selected
// candidate or bundle.
type Quote struct {
	Base         float64 `json:"base"`
	Tax          float64 `json:"tax"`
	Fees         float64 `json:"fees"`
	Total        float64 `json:"total"`
	Cancellation string  `json:"cancellation"`
}

// Recommendation is one entry of a session's last shown results, kept only
// so a later "book option 2" can select by index. Exactly one field is set.
type Recommendation struct {
	Bundle    *Bundle    `json:"bundle,omitempty"`
	Candidate *Candidate `json:"candidate,omitempty"`
}

// BasePrice returns the amount a quote for this recommendation starts from.
func (r Recommendation) BasePrice() float64 {
	if r.Bundle != nil {
		return r.Bundle.TotalPrice
	}
	if r.Candidate != nil {
		return r.Candidate.Price()
	}
	return 0
}
