package repository

import (
	"context"
	"time"

	"flightops-service/internal/domain/entity"
)

// FlightRepository defines the interface for flight document operations
type FlightRepository interface {
	Create(ctx context.Context, flight *entity.Flight) error
	// GetByID returns (nil, nil) when no flight exists with the given id.
	GetByID(ctx context.Context, id string) (*entity.Flight, error)
	ListByStatuses(ctx context.Context, statuses ...entity.Status) ([]*entity.Flight, error)
	UpdateStatus(ctx context.Context, id string, status entity.Status) error
	// MarkDeparted sets the status to departed and stamps the actual
	// departure time in a single update.
	MarkDeparted(ctx context.Context, id string, actualDeparture time.Time) error
	IncrementSubscriptions(ctx context.Context, id string, delta int) error
}
