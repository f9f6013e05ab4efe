package repository

import (
	"context"
	"fmt"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/internal/domain/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSubscriptionRepository implements SubscriptionRepository
type MongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new subscription repository
func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	collection := db.Collection("subscriptions")

	// Unique compound index enforcing one subscription per (user, flight)
	ctx := context.Background()
	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "flightId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	flightIndex := mongo.IndexModel{
		Keys: bson.M{"flightId": 1},
	}
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{pairIndex, flightIndex})

	return &MongoSubscriptionRepository{
		collection: collection,
	}
}

// Create inserts a new subscription
func (r *MongoSubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.NotificationsSent == nil {
		sub.NotificationsSent = []string{}
	}
	sub.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

// ListAll returns every subscription
func (r *MongoSubscriptionRepository) ListAll(ctx context.Context) ([]*entity.Subscription, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []*entity.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// FindByUserAndFlight finds one subscription, (nil, nil) when absent
func (r *MongoSubscriptionRepository) FindByUserAndFlight(ctx context.Context, userID, flightID string) (*entity.Subscription, error) {
	var sub entity.Subscription
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "flightId": flightID}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// AppendSent adds a lead-time key to the sent-set. $addToSet keeps the
// operation idempotent when the same key is appended twice.
func (r *MongoSubscriptionRepository) AppendSent(ctx context.Context, id string, leadTimeKey string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"notificationsSent": leadTimeKey}},
	)
	if err != nil {
		return fmt.Errorf("failed to append sent marker: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no subscription found with id: %s", id)
	}
	return nil
}
