package concierge

import (
	"encoding/json"
	"fmt"
	"strings"

	"voyago/models"
)

// prompt is the structured question frame shown when a slot is missing.
// Actions become quick-reply buttons on capable clients.
type prompt struct {
	Text    string   `json:"text"`
	Actions []string `json:"actions"`
}

func promptJSON(text string, actions ...string) string {
	if actions == nil {
		actions = []string{}
	}
	b, _ := json.Marshal(prompt{Text: text, Actions: actions})
	return string(b)
}

func formatBundles(dest string, bundles []models.Bundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 **Flight+Hotel Bundles for %s:**\n\n", dest)
	for i, bundle := range bundles {
		fmt.Fprintf(&b, "**Bundle %d:**\n", i+1)
		fmt.Fprintf(&b, "   - ✈️ Flight: %s ($%.2f)\n", bundle.Flight.Airline, bundle.Flight.Price)
		fmt.Fprintf(&b, "   - 🏨 Hotel: %s ($%.2f/night)\n", bundle.Lodging.Area, bundle.Lodging.Price)
		fmt.Fprintf(&b, "   - 💰 **Total: $%.2f**\n", bundle.TotalPrice)
		fmt.Fprintf(&b, "   - 🎯 Fit Score: **%d/100**\n", bundle.FitScore)
		fmt.Fprintf(&b, "   - ✅ Why This: %s\n", strings.Join(bundle.WhyThis, ", "))
		if len(bundle.WatchOut) > 0 {
			fmt.Fprintf(&b, "   - ⚠️ Watch Out: %s\n", strings.Join(bundle.WatchOut, ", "))
		}
		fmt.Fprintf(&b, "   - 📋 Policies: %s; %s\n\n", bundle.Policies.Cancellation, bundle.Policies.Pets)
	}
	b.WriteString("Say 'Book bundle 1' to confirm!")
	return b.String()
}

func formatRefinedBundles(dest string, bundles []models.Bundle, amenities []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I've refined your options for %s (filtering for %s):\n\n", dest, strings.Join(amenities, ", "))
	for i, bundle := range bundles {
		fmt.Fprintf(&b, "%d. 📦 Bundle: Flight: %s + Hotel: %s - $%.2f\n",
			i+1, bundle.Flight.Airline, bundle.Lodging.Area, bundle.TotalPrice)
		if len(bundle.WhyThis) > 0 {
			fmt.Fprintf(&b, "   Explain: %s\n", bundle.WhyThis[0])
		}
		if len(amenities) > 0 {
			fmt.Fprintf(&b, "   Matched: %s\n", strings.Join(amenities, ", "))
		}
	}
	return b.String()
}

func formatFlights(dest string, recs []models.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✈️ **Flights to %s:**\n\n", dest)
	n := 0
	for _, rec := range recs {
		if rec.Flight == nil {
			continue
		}
		n++
		if n > 10 {
			break
		}
		f := rec.Flight
		fmt.Fprintf(&b, "%d. %s%s - $%.2f%s\n", n, dealTag(rec), f.Airline, f.Price, scarcityNote(f))
		fmt.Fprintf(&b, "   Departs: %s\n", f.DepartureDate)
	}
	return b.String()
}

func formatCandidates(dest string, recs []models.Candidate, category models.CandidateType, amenities []string) string {
	label := "Flight"
	if category == models.CandidateLodging {
		label = "Hotel"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are the %ss for %s:\n\n", label, dest)
	for i, rec := range recs {
		if i >= 10 {
			break
		}
		tag := dealTag(rec)
		switch {
		case rec.Lodging != nil:
			l := rec.Lodging
			if matched := matchedAmenities(l.Amenities, amenities); len(matched) > 0 {
				tag += fmt.Sprintf("✅ Matches %s ", strings.Join(matched, ", "))
			}
			fmt.Fprintf(&b, "%d. %s🏨 %s - $%.2f\n", i+1, tag, l.Area, l.Price)
			if l.Amenities != "" {
				fmt.Fprintf(&b, "   Tags: %s\n", l.Amenities)
			}
		case rec.Flight != nil:
			f := rec.Flight
			fmt.Fprintf(&b, "%d. %s✈️ %s - $%.2f%s\n", i+1, tag, f.Airline, f.Price, scarcityNote(f))
		}
	}
	return b.String()
}

func formatTopDeals(dest string, recs []models.Candidate, budget *float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are the top deals for %s:\n\n", dest)
	for i, rec := range recs {
		if i >= 10 {
			break
		}
		// Coarse per-item match score against the budget cap.
		score := 100
		if budget != nil && rec.Price() > *budget {
			score -= 50
		}

		tag := dealTag(rec)
		switch {
		case rec.Lodging != nil:
			l := rec.Lodging
			fmt.Fprintf(&b, "%d. %s🏨 %s - $%.2f\n", i+1, tag, l.Area, l.Price)
			if l.Amenities != "" {
				fmt.Fprintf(&b, "   Tags: %s\n", l.Amenities)
			}
			if l.Avg30dPrice > 0 {
				fmt.Fprintf(&b, "   (Avg 30d: $%.2f)\n", l.Avg30dPrice)
			}
			b.WriteString("   Type: Hotel Stay\n")
		case rec.Flight != nil:
			f := rec.Flight
			fmt.Fprintf(&b, "%d. %s✈️ %s - $%.2f%s\n", i+1, tag, f.Airline, f.Price, scarcityNote(f))
			fmt.Fprintf(&b, "   Departs: %s\n", f.DepartureDate)
		}
		fmt.Fprintf(&b, "   Score: %d/100 match\n", score)
	}
	return b.String()
}

func buildQuote(rec models.Recommendation) models.Quote {
	base := rec.BasePrice()
	tax := base * 0.12
	fees := 25.0

	cancellation := "Partially Refundable"
	if rec.Bundle != nil {
		cancellation = rec.Bundle.Policies.Cancellation
	}
	return models.Quote{
		Base:         base,
		Tax:          tax,
		Fees:         fees,
		Total:        base + tax + fees,
		Cancellation: cancellation,
	}
}

func formatQuote(q models.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "   - Base Fare/Rate: $%.2f\n", q.Base)
	fmt.Fprintf(&b, "   - Taxes (12%%): $%.2f\n", q.Tax)
	fmt.Fprintf(&b, "   - Booking Fees: $%.2f\n", q.Fees)
	fmt.Fprintf(&b, "   - Total Estimate: $%.2f\n", q.Total)
	fmt.Fprintf(&b, "   - Cancellation: %s", q.Cancellation)
	return b.String()
}

func formatBookingConfirmation(rec models.Recommendation, quote models.Quote, result models.BookingResult) string {
	var b strings.Builder
	switch {
	case rec.Bundle != nil:
		b.WriteString("✅ **Booking Confirmed!**\n\n")
		fmt.Fprintf(&b, "📦 **Bundle**: Flight: %s + Hotel: %s\n",
			rec.Bundle.Flight.Airline, rec.Bundle.Lodging.Area)
	case rec.Candidate != nil && rec.Candidate.Flight != nil:
		b.WriteString("✅ **Flight Confirmed!**\n\n")
		fmt.Fprintf(&b, "✈️ **%s** to %s\n",
			rec.Candidate.Flight.Airline, rec.Candidate.Flight.Destination)
	case rec.Candidate != nil && rec.Candidate.Lodging != nil:
		b.WriteString("✅ **Hotel Confirmed!**\n\n")
		fmt.Fprintf(&b, "🏨 **%s** (ID: %s)\n",
			rec.Candidate.Lodging.Area, rec.Candidate.Lodging.ID)
	}
	fmt.Fprintf(&b, "💳 **Invoice**:\n%s\n\n", formatQuote(quote))
	fmt.Fprintf(&b, "Confirmation #%s", result.Reference)
	return b.String()
}

func dealTag(rec models.Candidate) string {
	isDeal := false
	switch {
	case rec.Flight != nil:
		isDeal = rec.Flight.IsPromo || rec.Flight.Price < 300
	case rec.Lodging != nil:
		isDeal = rec.Lodging.IsDeal || rec.Lodging.Price < 300
	}
	if isDeal {
		return "🔥 DEAL! "
	}
	return ""
}

func scarcityNote(f *models.Flight) string {
	if f.SeatsLeft < 10 {
		return fmt.Sprintf(" ⚠️ Only %d seats left!", f.SeatsLeft)
	}
	return ""
}

func matchedAmenities(tags string, requested []string) []string {
	lower := strings.ToLower(tags)
	var matched []string
	for _, a := range requested {
		if strings.Contains(lower, strings.ToLower(a)) {
			matched = append(matched, a)
		}
	}
	return matched
}
