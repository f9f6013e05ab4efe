package repository

import (
	"context"

	"flightops-service/internal/domain/entity"
)

// AirportRepository defines the interface for the airport reference table.
// Lookup methods return (nil, nil) when nothing matches.
type AirportRepository interface {
	GetByIATA(ctx context.Context, code string) (*entity.Airport, error)
	GetByICAO(ctx context.Context, code string) (*entity.Airport, error)
	SearchByName(ctx context.Context, name string) (*entity.Airport, error)
	Save(ctx context.Context, airport *entity.Airport) error
}
