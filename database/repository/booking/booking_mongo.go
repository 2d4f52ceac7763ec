package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"voyago/database"
	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookings *mongo.Collection
	items    *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("voyago")
	repo := &MongoBookingRepo{
		bookings: db.Collection("bookings"),
		items:    db.Collection("booking_items"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	bookingModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "booking_reference", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.bookings.Indexes().CreateMany(ctx, bookingModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	itemModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}
	if _, err := r.items.Indexes().CreateMany(ctx, itemModels); err != nil {
		return fmt.Errorf("failed to create booking item indexes: %w", err)
	}
	return nil
}

// Create writes the booking and its line items inside one store transaction,
// so concurrent pipeline and session writers serialize through the store's
// own boundaries rather than application locks.
func (r *MongoBookingRepo) Create(booking models.Booking, items []models.BookingItem) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	session, err := database.MongoClient.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start store session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.bookings.InsertOne(sc, booking); err != nil {
			return nil, fmt.Errorf("failed to insert booking: %w", err)
		}
		for _, item := range items {
			if _, err := r.items.InsertOne(sc, item); err != nil {
				return nil, fmt.Errorf("failed to insert booking item: %w", err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("booking persistence failed: %w", err)
	}
	return nil
}
