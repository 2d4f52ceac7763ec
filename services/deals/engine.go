package deals

import (
	"fmt"
	"sort"
	"strings"

	catalogRepo "voyago/database/repository/catalog"
	"voyago/models"

	"go.uber.org/zap"
)

// DefaultBundleEngine implements BundleEngine over the catalog repository.
type DefaultBundleEngine struct {
	Catalog catalogRepo.CatalogRepository
	Logger  *zap.Logger
}

// NewBundleEngine wires an engine over the catalog store.
func NewBundleEngine(catalog catalogRepo.CatalogRepository, logger *zap.Logger) *DefaultBundleEngine {
	return &DefaultBundleEngine{Catalog: catalog, Logger: logger}
}

// GetRecommendations queries flights and/or lodgings for a destination.
// When a date filter yields zero flights it retries with the year-month
// prefix, then with the date dropped entirely, keeping destination and
// budget both times, so the caller always gets the widest non-empty set.
func (e *DefaultBundleEngine) GetRecommendations(dest string, budget *float64, category models.CandidateType, date string) ([]models.Candidate, error) {
	var recommendations []models.Candidate

	if category == "" || category == models.CandidateFlight {
		limit := int64(10)
		if category == models.CandidateFlight {
			limit = 20
		}
		flights, err := e.searchFlightsWithFallback(dest, budget, date, limit)
		if err != nil {
			return nil, err
		}
		for i := range flights {
			recommendations = append(recommendations, models.Candidate{
				Type:   models.CandidateFlight,
				Flight: &flights[i],
			})
		}
	}

	if category == "" || category == models.CandidateLodging {
		limit := int64(5)
		if category == models.CandidateLodging {
			limit = 10
		}
		lodgings, err := e.Catalog.SearchLodgings(dest, budget, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to search lodgings: %w", err)
		}
		for i := range lodgings {
			recommendations = append(recommendations, models.Candidate{
				Type:    models.CandidateLodging,
				Lodging: &lodgings[i],
			})
		}
	}

	return recommendations, nil
}

// searchFlightsWithFallback runs the three-tier date fallback.
func (e *DefaultBundleEngine) searchFlightsWithFallback(dest string, budget *float64, date string, limit int64) ([]models.Flight, error) {
	flights, err := e.Catalog.SearchFlights(dest, budget, date, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	if len(flights) > 0 || date == "" {
		return flights, nil
	}

	if len(date) >= 7 {
		ym := date[:7]
		if ym != date {
			e.Logger.Debug("no flights for exact date, retrying with month prefix",
				zap.String("date", date), zap.String("prefix", ym))
			flights, err = e.Catalog.SearchFlights(dest, budget, ym, limit)
			if err != nil {
				return nil, fmt.Errorf("failed to search flights by month: %w", err)
			}
			if len(flights) > 0 {
				return flights, nil
			}
		}
	}

	e.Logger.Debug("no flights for requested month, relaxing date filter",
		zap.String("date", date))
	flights, err = e.Catalog.SearchFlights(dest, budget, "", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights without date: %w", err)
	}
	return flights, nil
}

// CreateBundles pairs the top 5 cheapest flights with the top 5 cheapest
// lodgings, drops pairs over budget, hard-filters lodgings missing any
// requested amenity, scores the rest, and returns the top 3 by fit.
// Refinement is a strict filter, not a soft preference.
func (e *DefaultBundleEngine) CreateBundles(dest, origin, date string, budget *float64, amenities []string) ([]models.Bundle, error) {
	flightRecs, err := e.GetRecommendations(dest, nil, models.CandidateFlight, date)
	if err != nil {
		return nil, err
	}
	lodgingRecs, err := e.GetRecommendations(dest, nil, models.CandidateLodging, "")
	if err != nil {
		return nil, err
	}
	if len(flightRecs) == 0 || len(lodgingRecs) == 0 {
		return nil, nil
	}

	flights := make([]models.Flight, 0, len(flightRecs))
	for _, r := range flightRecs {
		flights = append(flights, *r.Flight)
	}
	lodgings := make([]models.Lodging, 0, len(lodgingRecs))
	for _, r := range lodgingRecs {
		lodgings = append(lodgings, *r.Lodging)
	}

	fMed := medianFlightPrice(flights)
	hMed := medianLodgingPrice(lodgings)

	sort.SliceStable(flights, func(i, j int) bool { return flights[i].Price < flights[j].Price })
	sort.SliceStable(lodgings, func(i, j int) bool { return lodgings[i].Price < lodgings[j].Price })
	if len(flights) > 5 {
		flights = flights[:5]
	}
	if len(lodgings) > 5 {
		lodgings = lodgings[:5]
	}

	var bundles []models.Bundle
	for _, f := range flights {
		for _, l := range lodgings {
			total := f.Price + l.Price
			if budget != nil && total > *budget {
				continue
			}
			if missesRequestedAmenity(l, amenities) {
				continue
			}

			why, watchOut := Explanations(f, l, fMed, hMed, amenities)
			bundles = append(bundles, models.Bundle{
				ID:         fmt.Sprintf("b_%s_%s", f.ID, l.ID),
				Flight:     f,
				Lodging:    l,
				TotalPrice: round2(total),
				FitScore:   FitScore(f, l, fMed, hMed, budget, amenities),
				WhyThis:    why,
				WatchOut:   watchOut,
				Policies:   PolicySnippets(l),
			})
		}
	}

	sort.SliceStable(bundles, func(i, j int) bool { return bundles[i].FitScore > bundles[j].FitScore })
	if len(bundles) > 3 {
		bundles = bundles[:3]
	}
	return bundles, nil
}

// missesRequestedAmenity reports whether the lodging lacks any of the
// requested amenity tags. All requested amenities must be present.
func missesRequestedAmenity(l models.Lodging, amenities []string) bool {
	if len(amenities) == 0 {
		return false
	}
	tags := strings.ToLower(l.Amenities)
	for _, a := range amenities {
		if !strings.Contains(tags, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

func medianFlightPrice(flights []models.Flight) float64 {
	prices := make([]float64, 0, len(flights))
	for _, f := range flights {
		prices = append(prices, f.Price)
	}
	return median(prices)
}

func medianLodgingPrice(lodgings []models.Lodging) float64 {
	prices := make([]float64, 0, len(lodgings))
	for _, l := range lodgings {
		prices = append(prices, l.Price)
	}
	return median(prices)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
