package deals

import (
	"fmt"
	"strings"

	"voyago/models"
)

// Scoring weights; the resulting fit score is always clamped to [10,100].
const (
	scoreBase          = 50
	scoreSavingsMax    = 30
	scoreAmenityBonus  = 5  // each of wifi/pool/breakfast/spa present
	scoreRequestedHit  = 15 // each explicitly requested amenity matched
	scorePerfectMatch  = 10 // all requested amenities matched
	scoreWithinBudget  = 10
	scoreFloor         = 10
	scoreCeil          = 100
)

var bonusAmenities = []string{"wifi", "pool", "breakfast", "spa"}

// FitScore ranks one flight+lodging pair. Savings against the category
// medians carry the most weight, then amenity matches, then budget
// adherence.
func FitScore(flight models.Flight, lodging models.Lodging, fMed, hMed float64, budget *float64, amenities []string) int {
	score := scoreBase

	var savings float64
	if fMed > 0 {
		savings += (fMed - flight.Price) / fMed
	}
	if hMed > 0 {
		savings += (hMed - lodging.Price) / hMed
	}
	bonus := int(savings * 50)
	if bonus > scoreSavingsMax {
		bonus = scoreSavingsMax
	}
	score += bonus

	tags := strings.ToLower(lodging.Amenities)
	for _, a := range bonusAmenities {
		if strings.Contains(tags, a) {
			score += scoreAmenityBonus
		}
	}

	if len(amenities) > 0 {
		matched := 0
		for _, req := range amenities {
			if strings.Contains(tags, strings.ToLower(req)) {
				score += scoreRequestedHit
				matched++
			}
		}
		if matched == len(amenities) {
			score += scorePerfectMatch
		}
	}

	if budget != nil && flight.Price+lodging.Price <= *budget {
		score += scoreWithinBudget
	}

	if score > scoreCeil {
		score = scoreCeil
	}
	if score < scoreFloor {
		score = scoreFloor
	}
	return score
}

// Explanations collects qualitative reasons and caution flags for a pair.
// Reasons are evaluated in a stable priority order and the first two
// distinct hits are shown; the selection is deterministic.
func Explanations(flight models.Flight, lodging models.Lodging, fMed, hMed float64, amenities []string) (why []string, watchOut []string) {
	tags := strings.ToLower(lodging.Amenities)
	airline := strings.ToLower(flight.Airline)
	total := flight.Price + lodging.Price
	medianTotal := fMed + hMed

	var reasons []string

	// Price first, but only when the savings are significant.
	if medianTotal > 0 && total < medianTotal {
		pct := int((1 - total/medianTotal) * 100)
		if pct >= 10 {
			reasons = append(reasons, fmt.Sprintf("%d%% cheaper than average", pct))
		}
	}

	if len(amenities) > 0 {
		var matched []string
		for _, a := range amenities {
			if strings.Contains(tags, strings.ToLower(a)) {
				matched = append(matched, a)
			}
		}
		if len(matched) > 0 {
			reasons = append(reasons, "Matches your request: "+strings.Join(matched, ", "))
		}
	}

	if flight.Stops == 0 {
		reasons = append(reasons, "Direct flight - no layovers")
	}
	if strings.Contains(airline, "indigo") || strings.Contains(airline, "airasia") {
		reasons = append(reasons, fmt.Sprintf("Popular carrier (%s)", flight.Airline))
	}
	if flight.SeatsLeft < 10 {
		reasons = append(reasons, "High demand - limited availability")
	}

	if strings.Contains(tags, "superhost") {
		reasons = append(reasons, "Superhost property - highly rated")
	}
	if strings.Contains(tags, "wifi") {
		reasons = append(reasons, "Free WiFi included")
	}
	if strings.Contains(tags, "breakfast") {
		reasons = append(reasons, "Breakfast included")
	}
	if strings.Contains(tags, "pool") {
		reasons = append(reasons, "Pool access for relaxation")
	}
	if strings.Contains(tags, "spa") {
		reasons = append(reasons, "Spa facilities available")
	}
	if strings.Contains(tags, "mountain") || strings.Contains(tags, "river") || strings.Contains(tags, "ocean") {
		reasons = append(reasons, "Scenic views")
	}
	if strings.Contains(tags, "villa") || strings.Contains(tags, "bungalow") {
		reasons = append(reasons, "Private accommodation")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Great value option")
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}

	if flight.SeatsLeft < 5 {
		watchOut = append(watchOut, fmt.Sprintf("Only %d seats left!", flight.SeatsLeft))
	}
	if lodging.Amenities == "" {
		watchOut = append(watchOut, "Basic amenities")
	}

	return reasons, watchOut
}

// PolicySnippets derives policy lines from the lodging's amenity text.
func PolicySnippets(lodging models.Lodging) models.PolicySnippets {
	tags := strings.ToLower(lodging.Amenities)

	policies := models.PolicySnippets{
		Pets:         "No pets",
		Cancellation: "Non-refundable",
	}
	if strings.Contains(tags, "pet") || strings.Contains(tags, "dog") {
		policies.Pets = "Pets allowed"
	}
	if strings.Contains(tags, "cancel") {
		policies.Cancellation = "Free cancellation"
	}
	return policies
}
