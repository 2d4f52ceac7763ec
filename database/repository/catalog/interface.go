package catalogRepo

import "voyago/models"

// CatalogRepository answers range/contains queries over flight and lodging
// records. It is the service's window into the catalog store; durability of
// raw records is the store's concern, not the pipeline's.
type CatalogRepository interface {
	// SearchFlights returns flights whose destination contains dest,
	// optionally capped by maxPrice and filtered by a departure-date prefix
	// ("2025-12" matches "2025-12-25"). Results are cheapest first.
	SearchFlights(dest string, maxPrice *float64, datePrefix string, limit int64) ([]models.Flight, error)

	// SearchLodgings returns lodgings whose area contains dest, optionally
	// capped by maxPrice. Results are cheapest first.
	SearchLodgings(dest string, maxPrice *float64, limit int64) ([]models.Lodging, error)

	// SampleFlight and SampleLodging pick one random record, used by the
	// ingestion stage to simulate a live supplier feed. A nil record with
	// a nil error means the collection is empty.
	SampleFlight() (*models.Flight, error)
	SampleLodging() (*models.Lodging, error)

	CountFlights() (int64, error)
	CountLodgings() (int64, error)
}
