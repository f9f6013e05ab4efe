package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAirportRepository implements the AirportRepository interface
type GormAirportRepository struct {
	db *gorm.DB
}

// Airports GORM model for database mapping
type Airports struct {
	ID        string `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	ICAO      string `gorm:"column:icao;type:varchar(4);uniqueIndex"`
	IATA      string `gorm:"column:iata;type:varchar(3);index"`
	Name      string `gorm:"column:name;type:text;not null"`
	City      string `gorm:"column:city;type:varchar(100)"`
	Country   string `gorm:"column:country;type:varchar(100)"`
	GameLink  string `gorm:"column:game_link;type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "m_airports"
}

// NewGormAirportRepository creates a new GORM airport repository
func NewGormAirportRepository(db *gorm.DB) (repository.AirportRepository, error) {
	if err := db.AutoMigrate(&Airports{}); err != nil {
		return nil, err
	}
	return &GormAirportRepository{db: db}, nil
}

// GetByIATA finds an airport by IATA code
func (r *GormAirportRepository) GetByIATA(ctx context.Context, code string) (*entity.Airport, error) {
	return r.findOne(ctx, "iata = ?", strings.ToUpper(code))
}

// GetByICAO finds an airport by ICAO code
func (r *GormAirportRepository) GetByICAO(ctx context.Context, code string) (*entity.Airport, error) {
	return r.findOne(ctx, "icao = ?", strings.ToUpper(code))
}

// SearchByName finds an airport by a case-insensitive name fragment
func (r *GormAirportRepository) SearchByName(ctx context.Context, name string) (*entity.Airport, error) {
	return r.findOne(ctx, "name ILIKE ?", "%"+strings.TrimSpace(name)+"%")
}

// Save upserts an airport keyed on its ICAO code
func (r *GormAirportRepository) Save(ctx context.Context, airport *entity.Airport) error {
	row := Airports{
		ID:       airport.ID,
		ICAO:     strings.ToUpper(airport.ICAO),
		IATA:     strings.ToUpper(airport.IATA),
		Name:     airport.Name,
		City:     airport.City,
		Country:  airport.Country,
		GameLink: airport.GameLink,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "icao"}},
		DoUpdates: clause.AssignmentColumns([]string{"iata", "name", "city", "country", "game_link", "updated_at"}),
	}).Create(&row).Error
}

func (r *GormAirportRepository) findOne(ctx context.Context, query string, arg string) (*entity.Airport, error) {
	var row Airports
	result := r.db.WithContext(ctx).Where(query, arg).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Airport{
		ID:        row.ID,
		ICAO:      row.ICAO,
		IATA:      row.IATA,
		Name:      row.Name,
		City:      row.City,
		Country:   row.Country,
		GameLink:  row.GameLink,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
