package models

import "time"

// Booking represents a confirmed booking record.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Reference   string    `bson:"booking_reference" json:"booking_reference"`
	Status      string    `bson:"status" json:"status"` // e.g. "confirmed"
	TotalAmount float64   `bson:"total_amount" json:"total_amount"`
	Currency    string    `bson:"currency" json:"currency"`
	StartDate   string    `bson:"start_date" json:"start_date"` // "YYYY-MM-DD"
	EndDate     string    `bson:"end_date" json:"end_date"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// BookingItem is one line of a booking (a flight leg or a lodging stay).
type BookingItem struct {
	ID         string  `bson:"id" json:"id"`
	BookingID  string  `bson:"booking_id" json:"booking_id"`
	ItemType   string  `bson:"item_type" json:"item_type"` // "FLIGHT" or "LODGING"
	ItemID     string  `bson:"item_id" json:"item_id"`
	Quantity   int     `bson:"quantity" json:"quantity"`
	UnitPrice  float64 `bson:"unit_price" json:"unit_price"`
	TotalPrice float64 `bson:"total_price" json:"total_price"`
	Currency   string  `bson:"currency" json:"currency"`
	StartDate  string  `bson:"start_date" json:"start_date"`
	EndDate    string  `bson:"end_date" json:"end_date"`
}

// BookingResult is the explicit outcome of a booking call, checked by the
// caller rather than raised and caught.
type BookingResult struct {
	BookingID string `json:"booking_id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
