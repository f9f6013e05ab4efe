package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdvancer(flightRepo *fakeFlightRepo, airlineRepo *fakeAirlineRepo, now time.Time) *StatusAdvancer {
	a := NewStatusAdvancer(flightRepo, airlineRepo, logger.NewNop(), testMetrics)
	a.now = func() time.Time { return now }
	return a
}

func scheduledFlight(id string, departure time.Time, checkinCloseMinutes, flightTime int) *entity.Flight {
	return &entity.Flight{
		ID:            id,
		AirlineID:     "airline-1",
		FlightNumber:  "SU123",
		Status:        entity.StatusScheduled,
		DepartureTime: departure,
		CheckinOpen:   departure.Add(-55 * time.Minute),
		CheckinClose:  departure.Add(-time.Duration(checkinCloseMinutes) * time.Minute),
		ServerOpen:    departure.Add(-50 * time.Minute),
		ServerClose:   departure.Add(-10 * time.Minute),
		FlightTime:    flightTime,
	}
}

func TestAdvanceAllBoardingBoundary(t *testing.T) {
	departure := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	airlineRepo := newFakeAirlineRepo()

	// Two minutes before check-in close the flight stays scheduled.
	flight := scheduledFlight("f1", departure, 15, 120)
	flightRepo := newFakeFlightRepo(flight)
	advancer := newTestAdvancer(flightRepo, airlineRepo, departure.Add(-16*time.Minute))
	require.NoError(t, advancer.AdvanceAll(context.Background()))
	assert.Equal(t, entity.StatusScheduled, flight.Status)

	// One minute past check-in close it boards.
	advancer = newTestAdvancer(flightRepo, airlineRepo, departure.Add(-14*time.Minute))
	require.NoError(t, advancer.AdvanceAll(context.Background()))
	assert.Equal(t, entity.StatusBoarding, flight.Status)

	// At departure it departs with the actual departure stamped.
	now := departure
	advancer = newTestAdvancer(flightRepo, airlineRepo, now)
	require.NoError(t, advancer.AdvanceAll(context.Background()))
	assert.Equal(t, entity.StatusDeparted, flight.Status)
	require.NotNil(t, flight.ActualDeparture)
	assert.Equal(t, now, *flight.ActualDeparture)
}

func TestAdvanceAllDirectDeparture(t *testing.T) {
	// The boarding window fell entirely between two passes; the flight
	// goes straight from scheduled to departed.
	departure := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	flight := scheduledFlight("f1", departure, 15, 120)
	flightRepo := newFakeFlightRepo(flight)

	advancer := newTestAdvancer(flightRepo, newFakeAirlineRepo(), departure.Add(5*time.Minute))
	require.NoError(t, advancer.AdvanceAll(context.Background()))

	assert.Equal(t, entity.StatusDeparted, flight.Status)
	require.NotNil(t, flight.ActualDeparture)
}

func TestAdvanceAllCompletion(t *testing.T) {
	departure := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	actual := departure.Add(1 * time.Minute)
	flight := scheduledFlight("f1", departure, 15, 120)
	flight.Status = entity.StatusDeparted
	flight.ActualDeparture = &actual
	flightRepo := newFakeFlightRepo(flight)
	airlineRepo := newFakeAirlineRepo()

	// One minute before completion nothing changes.
	advancer := newTestAdvancer(flightRepo, airlineRepo, actual.Add(119*time.Minute))
	require.NoError(t, advancer.AdvanceAll(context.Background()))
	assert.Equal(t, entity.StatusDeparted, flight.Status)
	assert.Equal(t, 0, airlineRepo.increments["airline-1/flightsCompleted"])

	// At completion the flight lands and the airline counter moves once.
	advancer = newTestAdvancer(flightRepo, airlineRepo, actual.Add(120*time.Minute))
	require.NoError(t, advancer.AdvanceAll(context.Background()))
	assert.Equal(t, entity.StatusCompleted, flight.Status)
	assert.Equal(t, 1, airlineRepo.increments["airline-1/flightsCompleted"])

	// Re-running the pass is a no-op: completed flights drop out of the
	// fetch, so the counter stays at one.
	require.NoError(t, advancer.AdvanceAll(context.Background()))
	assert.Equal(t, 1, airlineRepo.increments["airline-1/flightsCompleted"])
}

func TestAdvanceAllFullLifecycleScenario(t *testing.T) {
	// Departure 14:00, duration 120 minutes, check-in closes at 13:45.
	departure := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	flight := scheduledFlight("f1", departure, 15, 120)
	flightRepo := newFakeFlightRepo(flight)
	airlineRepo := newFakeAirlineRepo()
	ctx := context.Background()

	at := func(hour, minute int) time.Time {
		return time.Date(2025, 6, 1, hour, minute, 0, 0, time.UTC)
	}

	require.NoError(t, newTestAdvancer(flightRepo, airlineRepo, at(13, 46)).AdvanceAll(ctx))
	assert.Equal(t, entity.StatusBoarding, flight.Status)

	require.NoError(t, newTestAdvancer(flightRepo, airlineRepo, at(14, 1)).AdvanceAll(ctx))
	assert.Equal(t, entity.StatusDeparted, flight.Status)
	require.NotNil(t, flight.ActualDeparture)
	assert.Equal(t, at(14, 1), *flight.ActualDeparture)

	require.NoError(t, newTestAdvancer(flightRepo, airlineRepo, at(16, 2)).AdvanceAll(ctx))
	assert.Equal(t, entity.StatusCompleted, flight.Status)
	assert.Equal(t, 1, airlineRepo.increments["airline-1/flightsCompleted"])
}

func TestAdvanceAllBoardingRequiresFutureDeparture(t *testing.T) {
	// Past check-in close AND past departure: the flight must never
	// enter boarding, it departs directly.
	departure := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	flight := scheduledFlight("f1", departure, 15, 120)
	flightRepo := newFakeFlightRepo(flight)

	advancer := newTestAdvancer(flightRepo, newFakeAirlineRepo(), departure.Add(time.Minute))
	require.NoError(t, advancer.AdvanceAll(context.Background()))
	assert.Equal(t, entity.StatusDeparted, flight.Status)
}

func TestAdvanceAllSkipsMalformedFlight(t *testing.T) {
	departure := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	broken := scheduledFlight("f1", departure, 15, 120)
	broken.DepartureTime = time.Time{}
	healthy := scheduledFlight("f2", departure, 15, 120)
	flightRepo := newFakeFlightRepo(broken, healthy)

	advancer := newTestAdvancer(flightRepo, newFakeAirlineRepo(), departure)
	require.NoError(t, advancer.AdvanceAll(context.Background()))

	// The malformed flight is left alone, the healthy one still advances.
	assert.Equal(t, entity.StatusScheduled, broken.Status)
	assert.Equal(t, entity.StatusDeparted, healthy.Status)
}

func TestAdvanceAllIsolatesUpdateFailures(t *testing.T) {
	departure := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	flight := scheduledFlight("f1", departure, 15, 120)
	flightRepo := newFakeFlightRepo(flight)
	flightRepo.updateErr = errors.New("write timeout")

	advancer := newTestAdvancer(flightRepo, newFakeAirlineRepo(), departure)
	// The pass itself still succeeds; the failure is logged per flight.
	require.NoError(t, advancer.AdvanceAll(context.Background()))
	assert.Equal(t, entity.StatusScheduled, flight.Status)
}

func TestAdvanceAllFetchFailureAborts(t *testing.T) {
	flightRepo := newFakeFlightRepo()
	flightRepo.listErr = errors.New("connection refused")

	advancer := newTestAdvancer(flightRepo, newFakeAirlineRepo(), time.Now())
	assert.Error(t, advancer.AdvanceAll(context.Background()))
}

func TestAdvanceAllIgnoresTerminalFlights(t *testing.T) {
	departure := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	cancelled := scheduledFlight("f1", departure, 15, 120)
	cancelled.Status = entity.StatusCancelled
	completed := scheduledFlight("f2", departure, 15, 120)
	completed.Status = entity.StatusCompleted
	flightRepo := newFakeFlightRepo(cancelled, completed)
	airlineRepo := newFakeAirlineRepo()

	advancer := newTestAdvancer(flightRepo, airlineRepo, departure.Add(5*time.Hour))
	require.NoError(t, advancer.AdvanceAll(context.Background()))

	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	assert.Equal(t, entity.StatusCompleted, completed.Status)
	assert.Empty(t, airlineRepo.increments)
}
