package deals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voyago/models"
)

// fakeCatalog is an in-memory CatalogRepository with the same filter
// semantics as the store-backed one: destination contains, price cap,
// date prefix, cheapest first.
type fakeCatalog struct {
	flights  []models.Flight
	lodgings []models.Lodging
}

func (f *fakeCatalog) SearchFlights(dest string, maxPrice *float64, datePrefix string, limit int64) ([]models.Flight, error) {
	var out []models.Flight
	for _, fl := range f.flights {
		if dest != "" && fl.Destination != dest {
			continue
		}
		if maxPrice != nil && fl.Price > *maxPrice {
			continue
		}
		if datePrefix != "" && !hasPrefix(fl.DepartureDate, datePrefix) {
			continue
		}
		out = append(out, fl)
	}
	sortFlightsByPrice(out)
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalog) SearchLodgings(dest string, maxPrice *float64, limit int64) ([]models.Lodging, error) {
	var out []models.Lodging
	for _, l := range f.lodgings {
		if dest != "" && l.Area != dest {
			continue
		}
		if maxPrice != nil && l.Price > *maxPrice {
			continue
		}
		out = append(out, l)
	}
	sortLodgingsByPrice(out)
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Sampling mirrors the store-backed repo: an empty collection yields a nil
// record with no error.
func (f *fakeCatalog) SampleFlight() (*models.Flight, error) {
	if len(f.flights) == 0 {
		return nil, nil
	}
	return &f.flights[0], nil
}

func (f *fakeCatalog) SampleLodging() (*models.Lodging, error) {
	if len(f.lodgings) == 0 {
		return nil, nil
	}
	return &f.lodgings[0], nil
}

func (f *fakeCatalog) CountFlights() (int64, error)  { return int64(len(f.flights)), nil }
func (f *fakeCatalog) CountLodgings() (int64, error) { return int64(len(f.lodgings)), nil }

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func sortFlightsByPrice(flights []models.Flight) {
	for i := 1; i < len(flights); i++ {
		for j := i; j > 0 && flights[j].Price < flights[j-1].Price; j-- {
			flights[j], flights[j-1] = flights[j-1], flights[j]
		}
	}
}

func sortLodgingsByPrice(lodgings []models.Lodging) {
	for i := 1; i < len(lodgings); i++ {
		for j := i; j > 0 && lodgings[j].Price < lodgings[j-1].Price; j-- {
			lodgings[j], lodgings[j-1] = lodgings[j-1], lodgings[j]
		}
	}
}

func goaCatalog() *fakeCatalog {
	return &fakeCatalog{
		flights: []models.Flight{
			{ID: "f1", Destination: "Goa", Airline: "IndiGo", Price: 120, DepartureDate: "2025-12-25", SeatsLeft: 40},
			{ID: "f2", Destination: "Goa", Airline: "Vistara", Price: 180, DepartureDate: "2025-12-10", SeatsLeft: 30},
			{ID: "f3", Destination: "Goa", Airline: "AirAsia", Price: 250, DepartureDate: "2025-11-02", SeatsLeft: 25},
		},
		lodgings: []models.Lodging{
			{ID: "h1", Area: "Goa", Price: 80, Amenities: "WiFi,Pool,Breakfast"},
			{ID: "h2", Area: "Goa", Price: 60, Amenities: "WiFi"},
			{ID: "h3", Area: "Goa", Price: 200, Amenities: "Pool,Spa,Pet friendly"},
		},
	}
}

func newTestEngine(catalog *fakeCatalog) *DefaultBundleEngine {
	return NewBundleEngine(catalog, zap.NewNop())
}

func TestGetRecommendations_DateFallbackTiers(t *testing.T) {
	engine := newTestEngine(goaCatalog())

	// Exact date hit.
	recs, err := engine.GetRecommendations("Goa", nil, models.CandidateFlight, "2025-12-25")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "f1", recs[0].Flight.ID)

	// No flight on the exact date: fall back to the month.
	recs, err = engine.GetRecommendations("Goa", nil, models.CandidateFlight, "2025-12-31")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// No flight in the month either: drop the date but keep destination.
	recs, err = engine.GetRecommendations("Goa", nil, models.CandidateFlight, "2025-03-01")
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestGetRecommendations_FallbackKeepsBudget(t *testing.T) {
	engine := newTestEngine(goaCatalog())
	budget := 200.0

	recs, err := engine.GetRecommendations("Goa", &budget, models.CandidateFlight, "2025-03-01")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.LessOrEqual(t, r.Flight.Price, budget)
	}
}

func TestGetRecommendations_BothCategories(t *testing.T) {
	engine := newTestEngine(goaCatalog())

	recs, err := engine.GetRecommendations("Goa", nil, "", "")
	require.NoError(t, err)

	var flights, lodgings int
	for _, r := range recs {
		switch r.Type {
		case models.CandidateFlight:
			flights++
		case models.CandidateLodging:
			lodgings++
		}
	}
	assert.Equal(t, 3, flights)
	assert.Equal(t, 3, lodgings)
}

func TestCreateBundles_TopThreeByFitDescending(t *testing.T) {
	engine := newTestEngine(goaCatalog())

	bundles, err := engine.CreateBundles("Goa", "Mumbai", "", nil, nil)
	require.NoError(t, err)
	require.Len(t, bundles, 3)

	for i := 1; i < len(bundles); i++ {
		assert.GreaterOrEqual(t, bundles[i-1].FitScore, bundles[i].FitScore)
	}
	for _, b := range bundles {
		assert.GreaterOrEqual(t, b.FitScore, 10)
		assert.LessOrEqual(t, b.FitScore, 100)
		assert.InDelta(t, b.Flight.Price+b.Lodging.Price, b.TotalPrice, 0.01)
	}
}

func TestCreateBundles_AmenityFilterIsHard(t *testing.T) {
	engine := newTestEngine(goaCatalog())

	bundles, err := engine.CreateBundles("Goa", "", "", nil, []string{"pet"})
	require.NoError(t, err)
	require.NotEmpty(t, bundles)
	for _, b := range bundles {
		assert.Contains(t, b.Lodging.Amenities, "Pet")
	}

	// No lodging satisfies all requested amenities at once.
	bundles, err = engine.CreateBundles("Goa", "", "", nil, []string{"pet", "breakfast"})
	require.NoError(t, err)
	assert.Empty(t, bundles)
}

func TestCreateBundles_BudgetExcludesPairs(t *testing.T) {
	engine := newTestEngine(goaCatalog())
	budget := 200.0

	bundles, err := engine.CreateBundles("Goa", "", "", &budget, nil)
	require.NoError(t, err)
	require.NotEmpty(t, bundles)
	for _, b := range bundles {
		assert.LessOrEqual(t, b.TotalPrice, budget)
	}
}

func TestCreateBundles_EmptyCatalogYieldsNone(t *testing.T) {
	engine := newTestEngine(&fakeCatalog{})

	bundles, err := engine.CreateBundles("Goa", "", "", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, bundles)
}
