package usecase

import (
	"context"
	"fmt"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/internal/domain/repository"
	"flightops-service/pkg/logger"
	"flightops-service/pkg/metrics"
)

// StatusAdvancer keeps each flight's status consistent with wall-clock
// time and rolls completed flights into the owning airline's statistics.
// It holds no state of its own; every pass re-reads the store, so passes
// are idempotent and safe to rerun.
type StatusAdvancer struct {
	flightRepo  repository.FlightRepository
	airlineRepo repository.AirlineRepository
	logger      logger.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewStatusAdvancer creates a new status advancer
func NewStatusAdvancer(
	flightRepo repository.FlightRepository,
	airlineRepo repository.AirlineRepository,
	logger logger.Logger,
	m *metrics.Metrics,
) *StatusAdvancer {
	return &StatusAdvancer{
		flightRepo:  flightRepo,
		airlineRepo: airlineRepo,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}
}

// AdvanceAll runs one pass over every non-terminal flight. Per-flight
// failures are logged and skipped; only a failed fetch aborts the pass.
func (a *StatusAdvancer) AdvanceAll(ctx context.Context) error {
	start := a.now()

	flights, err := a.flightRepo.ListByStatuses(ctx,
		entity.StatusScheduled, entity.StatusBoarding, entity.StatusDeparted)
	if err != nil {
		a.metrics.ErrorsCount.WithLabelValues("list_flights").Inc()
		return fmt.Errorf("failed to list active flights: %w", err)
	}

	now := a.now()
	for _, flight := range flights {
		if err := a.advanceFlight(ctx, flight, now); err != nil {
			a.metrics.ErrorsCount.WithLabelValues("advance_flight").Inc()
			a.logger.Error("Failed to advance flight",
				"flightId", flight.ID,
				"flightNumber", flight.FlightNumber,
				"error", err)
		}
	}

	a.metrics.AdvancerPassTime.Observe(a.now().Sub(start).Seconds())
	return nil
}

// advanceFlight evaluates one flight's transitions in lifecycle order.
// A single pass may apply several transitions when the polling interval
// skipped a window, e.g. scheduled straight past boarding to departed.
func (a *StatusAdvancer) advanceFlight(ctx context.Context, flight *entity.Flight, now time.Time) error {
	if err := flight.ValidateSchedule(); err != nil {
		return fmt.Errorf("malformed schedule: %w", err)
	}

	// scheduled -> boarding once check-in closes, but only while the
	// flight has not yet reached its departure time.
	if flight.Status == entity.StatusScheduled &&
		!now.Before(flight.CheckinClose) && now.Before(flight.DepartureTime) {
		if err := a.transition(ctx, flight, entity.StatusBoarding); err != nil {
			return err
		}
	}

	// -> departed at departure time, stamping the actual departure.
	// Entering directly from scheduled is accepted when the boarding
	// window fell between two passes.
	if flight.Status != entity.StatusDeparted && !now.Before(flight.DepartureTime) {
		if !flight.Status.CanTransitionTo(entity.StatusDeparted) {
			return fmt.Errorf("%w: %s -> %s", entity.ErrInvalidTransition, flight.Status, entity.StatusDeparted)
		}
		if err := a.flightRepo.MarkDeparted(ctx, flight.ID, now); err != nil {
			return err
		}
		flight.Status = entity.StatusDeparted
		flight.ActualDeparture = &now
		a.metrics.FlightTransitions.WithLabelValues(string(entity.StatusDeparted)).Inc()
		a.logger.Info("Flight departed",
			"flightId", flight.ID,
			"flightNumber", flight.FlightNumber,
			"actualDeparture", now)
	}

	// departed -> completed once the flight duration has elapsed since
	// the actual departure. The airline counter is incremented exactly
	// once because completed flights drop out of the fetch.
	if flight.Status == entity.StatusDeparted {
		completion, err := flight.CompletionTime()
		if err != nil {
			return err
		}
		if !now.Before(completion) {
			if err := a.transition(ctx, flight, entity.StatusCompleted); err != nil {
				return err
			}
			if flight.AirlineID != "" {
				if err := a.airlineRepo.IncrementStatistic(ctx, flight.AirlineID, "flightsCompleted", 1); err != nil {
					a.metrics.ErrorsCount.WithLabelValues("increment_statistic").Inc()
					a.logger.Error("Failed to increment airline statistics",
						"airlineId", flight.AirlineID,
						"flightId", flight.ID,
						"error", err)
				}
			}
		}
	}

	return nil
}

func (a *StatusAdvancer) transition(ctx context.Context, flight *entity.Flight, next entity.Status) error {
	if !flight.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", entity.ErrInvalidTransition, flight.Status, next)
	}
	if err := a.flightRepo.UpdateStatus(ctx, flight.ID, next); err != nil {
		return err
	}
	flight.Status = next
	a.metrics.FlightTransitions.WithLabelValues(string(next)).Inc()
	a.logger.Info("Flight status advanced",
		"flightId", flight.ID,
		"flightNumber", flight.FlightNumber,
		"status", next)
	return nil
}
