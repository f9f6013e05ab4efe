package repository

import (
	"context"

	"flightops-service/internal/domain/entity"
)

// AirlineRepository defines the interface for airline document operations
type AirlineRepository interface {
	Create(ctx context.Context, airline *entity.Airline) error
	// GetByID returns (nil, nil) when no airline exists with the given id.
	GetByID(ctx context.Context, id string) (*entity.Airline, error)
	// IncrementStatistic atomically adds delta to one statistics counter,
	// e.g. field "flightsCompleted".
	IncrementStatistic(ctx context.Context, id string, field string, delta int) error
	AddTimingProfile(ctx context.Context, id string, profile entity.TimingProfile) error
	AddAirport(ctx context.Context, id string, airport entity.AirportEntry) error
	AddRoute(ctx context.Context, id string, route entity.Route) error
}
