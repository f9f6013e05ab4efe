package repository

import (
	"context"

	"flightops-service/internal/domain/entity"
)

// SubscriptionRepository defines the interface for reminder subscriptions
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	ListAll(ctx context.Context) ([]*entity.Subscription, error)
	// FindByUserAndFlight returns (nil, nil) when no subscription exists.
	FindByUserAndFlight(ctx context.Context, userID, flightID string) (*entity.Subscription, error)
	// AppendSent adds a lead-time key to the sent-set. Appending a key
	// that is already present is a no-op.
	AppendSent(ctx context.Context, id string, leadTimeKey string) error
}
