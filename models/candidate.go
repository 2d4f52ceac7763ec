package models

// CandidateType discriminates the two kinds of catalog records a search
// can surface.
type CandidateType string

const (
	CandidateFlight  CandidateType = "Flight"
	CandidateLodging CandidateType = "Lodging"
)

// Flight is a bookable flight record owned by the catalog store.
type Flight struct {
	ID              string  `bson:"id" json:"id"`
	Origin          string  `bson:"origin" json:"origin"`
	Destination     string  `bson:"destination" json:"destination"`
	Airline         string  `bson:"airline" json:"airline"`
	Price           float64 `bson:"price" json:"price"`
	Stops           int     `bson:"stops" json:"stops"`
	DurationMinutes int     `bson:"duration_minutes" json:"duration_minutes"`
	DepartureDate   string  `bson:"departure_date" json:"departure_date"` // "YYYY-MM-DD"
	SeatsLeft       int     `bson:"seats_left" json:"seats_left"`
	IsPromo         bool    `bson:"is_promo" json:"is_promo"`
}

// Lodging is a bookable stay record owned by the catalog store. Amenities
// is a free-text tag list ("WiFi,Pool,Pet friendly").
type Lodging struct {
	ID          string  `bson:"id" json:"id"`
	Area        string  `bson:"area" json:"area"` // destination / neighbourhood
	Price       float64 `bson:"price" json:"price"`
	Amenities   string  `bson:"amenities" json:"amenities"`
	Avg30dPrice float64 `bson:"avg_30d_price" json:"avg_30d_price"`
	IsDeal      bool    `bson:"is_deal" json:"is_deal"`
}

// Candidate is a tagged union over flight and lodging results. Exactly one
// of Flight/Lodging is set, matching Type.
type Candidate struct {
	Type    CandidateType `json:"type"`
	Flight  *Flight       `json:"flight,omitempty"`
	Lodging *Lodging      `json:"lodging,omitempty"`
}

// Price returns the candidate's unit price regardless of kind.
func (c Candidate) Price() float64 {
	switch c.Type {
	case CandidateFlight:
		if c.Flight != nil {
			return c.Flight.Price
		}
	case CandidateLodging:
		if c.Lodging != nil {
			return c.Lodging.Price
		}
	}
	return 0
}

// Destination returns the candidate's destination or area.
func (c Candidate) Destination() string {
	switch c.Type {
	case CandidateFlight:
		if c.Flight != nil {
			return c.Flight.Destination
		}
	case CandidateLodging:
		if c.Lodging != nil {
			return c.Lodging.Area
		}
	}
	return ""
}
