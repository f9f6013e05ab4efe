package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/internal/domain/repository"
	"flightops-service/pkg/logger"
	"flightops-service/pkg/timeutil"
)

var (
	// ErrAirlineNotFound is returned when the owning airline does not exist.
	ErrAirlineNotFound = errors.New("airline not found")
	// ErrFlightNotFound is returned when the referenced flight does not exist.
	ErrFlightNotFound = errors.New("flight not found")
	// ErrAlreadySubscribed is returned on a duplicate (user, flight) subscription.
	ErrAlreadySubscribed = errors.New("already subscribed to this flight")
	// ErrFlightTerminal is returned when acting on a completed or cancelled flight.
	ErrFlightTerminal = errors.New("flight is already in a terminal state")
)

var flightNumberPattern = regexp.MustCompile(`^[A-Z0-9]{2}\d{1,4}$`)
var digitsOnlyPattern = regexp.MustCompile(`^\d+$`)
var digitsPattern = regexp.MustCompile(`\d+`)

// FlightService handles flight creation, cancellation and reminder
// subscriptions on behalf of the chat layer.
type FlightService struct {
	flightRepo       repository.FlightRepository
	airlineRepo      repository.AirlineRepository
	subscriptionRepo repository.SubscriptionRepository
	resolver         *AirportResolver
	leadTimes        []timeutil.LeadTime
	logger           logger.Logger
	now              func() time.Time
}

// NewFlightService creates a new flight service. The resolver may be nil;
// airport display fields then come from the airline's own entries only.
func NewFlightService(
	flightRepo repository.FlightRepository,
	airlineRepo repository.AirlineRepository,
	subscriptionRepo repository.SubscriptionRepository,
	resolver *AirportResolver,
	logger logger.Logger,
) *FlightService {
	return &FlightService{
		flightRepo:       flightRepo,
		airlineRepo:      airlineRepo,
		subscriptionRepo: subscriptionRepo,
		resolver:         resolver,
		leadTimes:        timeutil.DefaultLeadTimes(),
		logger:           logger,
		now:              time.Now,
	}
}

// CreateFlightInput carries the fields collected by the chat layer.
type CreateFlightInput struct {
	AirlineID     string
	FlightNumber  string
	RouteName     string
	DepartureCode string
	ArrivalCode   string
	Aircraft      string
	DepartureTime time.Time
	FlightTime    int // minutes
	ProfileName   string
	CreatedBy     string
}

// CreateFlight resolves the timing profile and airport display fields and
// persists a new scheduled flight. The profile's offsets are embedded as
// absolute times so later profile edits never alter this flight.
func (s *FlightService) CreateFlight(ctx context.Context, in CreateFlightInput) (*entity.Flight, error) {
	airline, err := s.airlineRepo.GetByID(ctx, in.AirlineID)
	if err != nil {
		return nil, fmt.Errorf("failed to load airline: %w", err)
	}
	if airline == nil {
		return nil, ErrAirlineNotFound
	}
	if in.DepartureTime.IsZero() {
		return nil, errors.New("departure time is required")
	}
	if in.FlightTime <= 0 {
		return nil, fmt.Errorf("invalid flight time %d", in.FlightTime)
	}

	profile, ok := airline.ProfileByName(in.ProfileName)
	if !ok {
		// Fall back to the airline's first profile, then the defaults.
		if len(airline.TimingProfiles) > 0 {
			profile = airline.TimingProfiles[0]
		} else {
			profile = entity.DefaultTimingProfiles()[0]
		}
	}

	flight := &entity.Flight{
		AirlineID:     airline.ID,
		AirlineName:   airline.Name,
		AirlineIATA:   airline.IATA,
		FlightNumber:  normalizeFlightNumber(in.FlightNumber, airline.IATA),
		RouteName:     in.RouteName,
		Departure:     s.resolveAirportRef(ctx, airline, in.DepartureCode),
		Arrival:       s.resolveAirportRef(ctx, airline, in.ArrivalCode),
		Aircraft:      in.Aircraft,
		DepartureTime: in.DepartureTime,
		ArrivalTime:   in.DepartureTime.Add(time.Duration(in.FlightTime) * time.Minute),
		FlightTime:    in.FlightTime,
		CheckinOpen:   in.DepartureTime.Add(-time.Duration(profile.CheckinOpen) * time.Minute),
		CheckinClose:  in.DepartureTime.Add(-time.Duration(profile.CheckinClose) * time.Minute),
		ServerOpen:    in.DepartureTime.Add(-time.Duration(profile.ServerOpen) * time.Minute),
		ServerClose:   in.DepartureTime.Add(-time.Duration(profile.ServerClose) * time.Minute),
		TimingProfile: profile.Name,
		Status:        entity.StatusScheduled,
		CreatedBy:     in.CreatedBy,
	}

	if err := s.flightRepo.Create(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	if err := s.airlineRepo.IncrementStatistic(ctx, airline.ID, "flightsCreated", 1); err != nil {
		s.logger.Error("Failed to increment created counter",
			"airlineId", airline.ID,
			"error", err)
	}

	s.logger.Info("Flight created",
		"flightId", flight.ID,
		"flightNumber", flight.FlightNumber,
		"airlineId", airline.ID,
		"departure", flight.DepartureTime)

	return flight, nil
}

// CancelFlight is the moderation hook: it marks a non-terminal flight
// cancelled and counts it against the airline.
func (s *FlightService) CancelFlight(ctx context.Context, flightID string) error {
	flight, err := s.flightRepo.GetByID(ctx, flightID)
	if err != nil {
		return fmt.Errorf("failed to load flight: %w", err)
	}
	if flight == nil {
		return ErrFlightNotFound
	}
	if flight.Status.Terminal() {
		return ErrFlightTerminal
	}
	if !flight.Status.CanTransitionTo(entity.StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", entity.ErrInvalidTransition, flight.Status, entity.StatusCancelled)
	}

	if err := s.flightRepo.UpdateStatus(ctx, flightID, entity.StatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel flight: %w", err)
	}

	if flight.AirlineID != "" {
		if err := s.airlineRepo.IncrementStatistic(ctx, flight.AirlineID, "flightsCancelled", 1); err != nil {
			s.logger.Error("Failed to increment cancelled counter",
				"airlineId", flight.AirlineID,
				"error", err)
		}
	}

	s.logger.Info("Flight cancelled", "flightId", flightID)
	return nil
}

// Subscribe opts a user into departure reminders for one flight. At most
// one subscription exists per (user, flight) pair.
func (s *FlightService) Subscribe(ctx context.Context, userID, username, flightID string) (*entity.Subscription, error) {
	flight, err := s.flightRepo.GetByID(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to load flight: %w", err)
	}
	if flight == nil {
		return nil, ErrFlightNotFound
	}
	if flight.Status.Terminal() {
		return nil, ErrFlightTerminal
	}

	existing, err := s.subscriptionRepo.FindByUserAndFlight(ctx, userID, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing subscription: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	sub := &entity.Subscription{
		UserID:            userID,
		Username:          username,
		FlightID:          flightID,
		Notifications:     timeutil.Keys(s.leadTimes),
		NotificationsSent: []string{},
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := s.flightRepo.IncrementSubscriptions(ctx, flightID, 1); err != nil {
		s.logger.Error("Failed to increment subscription counter",
			"flightId", flightID,
			"error", err)
	}

	s.logger.Info("Subscription created",
		"subscriptionId", sub.ID,
		"userId", userID,
		"flightId", flightID)

	return sub, nil
}

// resolveAirportRef builds the denormalized display info for one endpoint
// of the flight. The airline's own entries win; the shared resolver is a
// best-effort fallback and a bare code is the last resort.
func (s *FlightService) resolveAirportRef(ctx context.Context, airline *entity.Airline, code string) entity.AirportRef {
	code = strings.ToUpper(strings.TrimSpace(code))

	if entry, ok := airline.AirportByCode(code); ok {
		return entity.AirportRef{
			Name:     entry.Name,
			IATA:     entry.IATA,
			ICAO:     entry.ICAO,
			GameLink: entry.GameLink,
		}
	}

	if s.resolver != nil {
		airport, err := s.resolver.ResolveByCode(ctx, code)
		if err != nil {
			s.logger.Warn("Airport lookup failed", "code", code, "error", err)
		} else if airport != nil {
			return entity.AirportRef{
				Name: airport.Name,
				IATA: airport.IATA,
				ICAO: airport.ICAO,
			}
		}
	}

	return entity.AirportRef{Name: code, IATA: code}
}

// normalizeFlightNumber repairs a flight number into the IATA-prefix form,
// e.g. "Flight 0123" with airline SU becomes "SU123".
func normalizeFlightNumber(number, airlineIATA string) string {
	number = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(number), " ", ""))
	// An all-digit string is a bare number, not a prefixed one, even
	// though it matches the prefixed shape.
	if flightNumberPattern.MatchString(number) && !digitsOnlyPattern.MatchString(number) {
		return number
	}
	if digits := digitsPattern.FindString(number); digits != "" {
		for len(digits) > 1 && digits[0] == '0' {
			digits = digits[1:]
		}
		if len(digits) > 4 {
			digits = digits[:4]
		}
		return airlineIATA + digits
	}
	return airlineIATA + "001"
}
