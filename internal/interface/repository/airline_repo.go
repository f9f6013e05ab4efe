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

// MongoAirlineRepository implements AirlineRepository
type MongoAirlineRepository struct {
	collection *mongo.Collection
}

// NewMongoAirlineRepository creates a new airline repository
func NewMongoAirlineRepository(db *mongo.Database) repository.AirlineRepository {
	return &MongoAirlineRepository{
		collection: db.Collection("airlines"),
	}
}

// Create inserts a new airline, seeding default timing profiles
func (r *MongoAirlineRepository) Create(ctx context.Context, airline *entity.Airline) error {
	if airline.ID == "" {
		airline.ID = primitive.NewObjectID().Hex()
	}
	if len(airline.TimingProfiles) == 0 {
		airline.TimingProfiles = entity.DefaultTimingProfiles()
	}
	now := time.Now()
	airline.CreatedAt = now
	airline.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, airline)
	if err != nil {
		return fmt.Errorf("failed to insert airline: %w", err)
	}
	return nil
}

// GetByID finds an airline by id, returning (nil, nil) when absent
func (r *MongoAirlineRepository) GetByID(ctx context.Context, id string) (*entity.Airline, error) {
	var airline entity.Airline
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&airline)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &airline, nil
}

// IncrementStatistic atomically adds delta to one statistics counter
func (r *MongoAirlineRepository) IncrementStatistic(ctx context.Context, id string, field string, delta int) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"statistics." + field: delta}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no airline found with id: %s", id)
	}
	return nil
}

// AddTimingProfile appends a timing profile to the airline
func (r *MongoAirlineRepository) AddTimingProfile(ctx context.Context, id string, profile entity.TimingProfile) error {
	return r.push(ctx, id, "timingProfiles", profile)
}

// AddAirport appends an airport entry to the airline
func (r *MongoAirlineRepository) AddAirport(ctx context.Context, id string, airport entity.AirportEntry) error {
	return r.push(ctx, id, "airports", airport)
}

// AddRoute appends a route to the airline
func (r *MongoAirlineRepository) AddRoute(ctx context.Context, id string, route entity.Route) error {
	return r.push(ctx, id, "routes", route)
}

func (r *MongoAirlineRepository) push(ctx context.Context, id, field string, value interface{}) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{field: value},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to push %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no airline found with id: %s", id)
	}
	return nil
}
