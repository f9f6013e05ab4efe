package usecase

import (
	"context"
	"fmt"
	"time"

	"flightops-service/internal/domain/entity"
	"flightops-service/internal/domain/repository"
	"flightops-service/pkg/logger"
	"flightops-service/pkg/metrics"
	"flightops-service/pkg/timeutil"
)

// NotificationScheduler fires one-shot departure reminders to
// subscribers. Each (subscription, lead time) pair is evaluated as due at
// most once: the sent marker is written regardless of delivery outcome,
// trading a possibly lost reminder for idempotence without retry state.
type NotificationScheduler struct {
	subscriptionRepo repository.SubscriptionRepository
	flightRepo       repository.FlightRepository
	notifier         repository.Notifier
	leadTimes        []timeutil.LeadTime
	logger           logger.Logger
	metrics          *metrics.Metrics
	now              func() time.Time
}

// NewNotificationScheduler creates a new notification scheduler
func NewNotificationScheduler(
	subscriptionRepo repository.SubscriptionRepository,
	flightRepo repository.FlightRepository,
	notifier repository.Notifier,
	leadTimes []timeutil.LeadTime,
	logger logger.Logger,
	m *metrics.Metrics,
) *NotificationScheduler {
	if len(leadTimes) == 0 {
		leadTimes = timeutil.DefaultLeadTimes()
	}
	return &NotificationScheduler{
		subscriptionRepo: subscriptionRepo,
		flightRepo:       flightRepo,
		notifier:         notifier,
		leadTimes:        leadTimes,
		logger:           logger,
		metrics:          m,
		now:              time.Now,
	}
}

// Tick runs one pass over all subscriptions. Per-subscription failures
// are logged and skipped; only a failed fetch aborts the tick.
func (s *NotificationScheduler) Tick(ctx context.Context) error {
	start := s.now()

	subs, err := s.subscriptionRepo.ListAll(ctx)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("list_subscriptions").Inc()
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}

	now := s.now()
	for _, sub := range subs {
		if err := s.processSubscription(ctx, sub, now); err != nil {
			s.metrics.ErrorsCount.WithLabelValues("process_subscription").Inc()
			s.logger.Error("Failed to process subscription",
				"subscriptionId", sub.ID,
				"flightId", sub.FlightID,
				"error", err)
		}
	}

	s.metrics.SchedulerTickTime.Observe(s.now().Sub(start).Seconds())
	return nil
}

func (s *NotificationScheduler) processSubscription(ctx context.Context, sub *entity.Subscription, now time.Time) error {
	flight, err := s.flightRepo.GetByID(ctx, sub.FlightID)
	if err != nil {
		return fmt.Errorf("failed to load flight: %w", err)
	}
	// A dangling reference or a terminal flight means no reminder is
	// meaningful anymore; skip without error.
	if flight == nil {
		return nil
	}
	if flight.Status == entity.StatusCancelled || flight.Status == entity.StatusCompleted {
		return nil
	}
	if flight.DepartureTime.IsZero() {
		return fmt.Errorf("flight %s has no departure time", flight.ID)
	}

	timeUntil := flight.DepartureTime.Sub(now)

	for _, lt := range s.leadTimes {
		if sub.AlreadySent(lt.Key) {
			continue
		}
		if !lt.Due(timeUntil) {
			continue
		}

		s.deliver(ctx, sub, flight, lt, timeUntil)

		// Mark the lead time as sent regardless of delivery outcome so
		// it is never evaluated as due again for this subscription.
		if err := s.subscriptionRepo.AppendSent(ctx, sub.ID, lt.Key); err != nil {
			return fmt.Errorf("failed to mark %s sent: %w", lt.Key, err)
		}
	}

	return nil
}

func (s *NotificationScheduler) deliver(ctx context.Context, sub *entity.Subscription, flight *entity.Flight, lt timeutil.LeadTime, timeUntil time.Duration) {
	reminder := &entity.Reminder{
		FlightID:         flight.ID,
		FlightNumber:     flight.FlightNumber,
		AirlineName:      flight.AirlineName,
		DepartureAirport: flight.Departure.Name,
		ArrivalAirport:   flight.Arrival.Name,
		DepartureTime:    flight.DepartureTime,
		LeadTimeKey:      lt.Key,
		RemainingLabel:   timeutil.FormatRemaining(timeUntil),
	}

	if err := s.notifier.SendReminder(ctx, sub.UserID, reminder); err != nil {
		s.metrics.RemindersFailed.Inc()
		s.logger.Error("Failed to deliver reminder",
			"subscriptionId", sub.ID,
			"userId", sub.UserID,
			"flightId", flight.ID,
			"leadTime", lt.Key,
			"error", err)
		return
	}

	s.metrics.RemindersSent.Inc()
	s.logger.Info("Reminder sent",
		"subscriptionId", sub.ID,
		"userId", sub.UserID,
		"flightId", flight.ID,
		"leadTime", lt.Key)
}
