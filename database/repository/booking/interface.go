package bookingRepo

import "voyago/models"

// BookingRepository persists confirmed bookings and their line items. The
// schema and transaction semantics belong to the catalog store; the
// concierge only invokes the write path.
type BookingRepository interface {
	Create(booking models.Booking, items []models.BookingItem) error
}
