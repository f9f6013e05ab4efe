package repository

import (
	"context"
	"fmt"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoFlightRepository implements FlightRepository
type MongoFlightRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightRepository creates a new flight repository
func NewMongoFlightRepository(db *mongo.Database) repository.FlightRepository {
	collection := db.Collection("flights")

	// Index on status for the advancer's list-by-status fetch
	ctx := context.Background()
	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}
	airlineIndex := mongo.IndexModel{
		Keys: bson.M{"airlineId": 1},
	}
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{statusIndex, airlineIndex})

	return &MongoFlightRepository{
		collection: collection,
	}
}

// Create inserts a new flight document
func (r *MongoFlightRepository) Create(ctx context.Context, flight *entity.Flight) error {
	if flight.ID == "" {
		flight.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	flight.CreatedAt = now
	flight.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, flight)
	if err != nil {
		return fmt.Errorf("failed to insert flight: %w", err)
	}
	return nil
}

// GetByID finds a flight by id, returning (nil, nil) when absent
func (r *MongoFlightRepository) GetByID(ctx context.Context, id string) (*entity.Flight, error) {
	var flight entity.Flight
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&flight)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &flight, nil
}

// ListByStatuses returns every flight whose status is in the given set
func (r *MongoFlightRepository) ListByStatuses(ctx context.Context, statuses ...entity.Status) ([]*entity.Flight, error) {
	filter := bson.M{"status": bson.M{"$in": statuses}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var flights []*entity.Flight
	if err := cursor.All(ctx, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// UpdateStatus sets the flight's status
func (r *MongoFlightRepository) UpdateStatus(ctx context.Context, id string, status entity.Status) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no flight found with id: %s", id)
	}
	return nil
}

// MarkDeparted sets the status to departed and stamps the actual departure
func (r *MongoFlightRepository) MarkDeparted(ctx context.Context, id string, actualDeparture time.Time) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":          entity.StatusDeparted,
			"actualDeparture": actualDeparture,
			"updatedAt":       time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark departed: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no flight found with id: %s", id)
	}
	return nil
}

// IncrementSubscriptions atomically adjusts the subscription counter
func (r *MongoFlightRepository) IncrementSubscriptions(ctx context.Context, id string, delta int) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"subscriptions": delta}},
	)
	return err
}
