package catalogRepo

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

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	flights  *mongo.Collection
	lodgings *mongo.Collection
}

// NewMongoCatalogRepo creates a new instance of CatalogRepository using MongoDB.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.MongoClient.Database("voyago")
	repo := &MongoCatalogRepo{
		flights:  db.Collection("flights"),
		lodgings: db.Collection("lodgings"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create catalog indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields that are frequently used in queries.
func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	flightModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "destination", Value: 1}}},
		{Keys: bson.D{{Key: "departure_date", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}
	if _, err := r.flights.Indexes().CreateMany(ctx, flightModels); err != nil {
		return fmt.Errorf("failed to create flight indexes: %w", err)
	}

	lodgingModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "area", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}
	if _, err := r.lodgings.Indexes().CreateMany(ctx, lodgingModels); err != nil {
		return fmt.Errorf("failed to create lodging indexes: %w", err)
	}
	return nil
}

// SearchFlights queries flights by destination substring, optional price
// ceiling, and optional departure-date prefix, cheapest first.
func (r *MongoCatalogRepo) SearchFlights(dest string, maxPrice *float64, datePrefix string, limit int64) ([]models.Flight, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{}
	if dest != "" {
		filter["destination"] = bson.M{"$regex": dest, "$options": "i"}
	}
	if maxPrice != nil {
		filter["price"] = bson.M{"$lte": *maxPrice}
	}
	if datePrefix != "" {
		filter["departure_date"] = bson.M{"$regex": "^" + datePrefix}
	}

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}}).SetLimit(limit)
	cursor, err := r.flights.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Flight
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}
	return results, nil
}

// SearchLodgings queries lodgings by area substring and optional price
// ceiling, cheapest first.
func (r *MongoCatalogRepo) SearchLodgings(dest string, maxPrice *float64, limit int64) ([]models.Lodging, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{}
	if dest != "" {
		filter["area"] = bson.M{"$regex": dest, "$options": "i"}
	}
	if maxPrice != nil {
		filter["price"] = bson.M{"$lte": *maxPrice}
	}

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}}).SetLimit(limit)
	cursor, err := r.lodgings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query lodgings: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Lodging
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode lodgings: %w", err)
	}
	return results, nil
}

// SampleFlight picks one random flight record.
func (r *MongoCatalogRepo) SampleFlight() (*models.Flight, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cursor, err := r.flights.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample flight: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Flight
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode sampled flight: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// SampleLodging picks one random lodging record.
func (r *MongoCatalogRepo) SampleLodging() (*models.Lodging, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cursor, err := r.lodgings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample lodging: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Lodging
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode sampled lodging: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// CountFlights returns the number of flight records in the catalog.
func (r *MongoCatalogRepo) CountFlights() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return r.flights.CountDocuments(ctx, bson.M{})
}

// CountLodgings returns the number of lodging records in the catalog.
func (r *MongoCatalogRepo) CountLodgings() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return r.lodgings.CountDocuments(ctx, bson.M{})
}
