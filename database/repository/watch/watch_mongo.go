package watchRepo

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

// MongoWatchRepo implements WatchRepository using MongoDB.
type MongoWatchRepo struct {
	coll *mongo.Collection
}

// NewMongoWatchRepo creates a new instance of WatchRepository using MongoDB.
func NewMongoWatchRepo() WatchRepository {
	coll := database.MongoClient.Database("voyago").Collection("watches")
	repo := &MongoWatchRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create watch indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoWatchRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "destination", Value: 1}, {Key: "is_active", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoWatchRepo) Create(watch models.Watch) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, watch); err != nil {
		return fmt.Errorf("failed to insert watch: %w", err)
	}
	return nil
}

func (r *MongoWatchRepo) ListByUser(userID string) ([]models.Watch, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query watches: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Watch
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode watches: %w", err)
	}
	return results, nil
}

func (r *MongoWatchRepo) FindMatching(destination string, price float64) ([]models.Watch, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"destination":  destination,
		"is_active":    true,
		"target_price": bson.M{"$gte": price},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query matching watches: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Watch
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode matching watches: %w", err)
	}
	return results, nil
}

func (r *MongoWatchRepo) Deactivate(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("failed to deactivate watch: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("watch %s not found", id)
	}
	return nil
}

func (r *MongoWatchRepo) CountActive() (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{"is_active": true})
}
