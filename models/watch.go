package models

import "time"

// Watch is a standing request to alert a user when a destination's price
// drops to or below a target. Watches never expire on their own; they are
// deactivated explicitly.
type Watch struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Destination string    `bson:"destination" json:"destination"`
	TargetPrice float64   `bson:"target_price" json:"target_price"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// RawPriceEvent is one sampled supplier price observation published to the
// raw feed topic. Never persisted.
type RawPriceEvent struct {
	Source       string  `json:"source"`
	Type         string  `json:"type"` // "flight" or "hotel"
	Origin       string  `json:"origin,omitempty"`
	Destination  string  `json:"destination"`
	Price        float64 `json:"price"`
	Airline      string  `json:"airline,omitempty"`
	Amenities    string  `json:"amenities,omitempty"`
	Avg30dPrice  float64 `json:"avg_30d_price"`
	SeatsLeft    int     `json:"seats_left,omitempty"`
	Availability int     `json:"availability,omitempty"`
	Timestamp    string  `json:"timestamp"`
}

// DealEvent is a detected price drop or scarcity signal emitted for
// downstream alerting. Consumed at most once; no replay.
type DealEvent struct {
	Type          string   `json:"type"` // "deal_found"
	Destination   string   `json:"destination"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price"`
	Tags          []string `json:"tags"` // e.g. "20% OFF", "Selling Fast"
	Details       string   `json:"details"`
	Timestamp     string   `json:"timestamp"`
}
