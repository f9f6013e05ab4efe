package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"flightops-service/internal/domain/entity"

	"flightops-service/pkg/metrics"
)

// promauto registers on the default registry, so the test binary shares
// one metrics instance across all tests.
var testMetrics = metrics.NewMetrics("flightops_test")

type fakeFlightRepo struct {
	flights   map[string]*entity.Flight
	listErr   error
	updateErr error
}

func newFakeFlightRepo(flights ...*entity.Flight) *fakeFlightRepo {
	r := &fakeFlightRepo{flights: make(map[string]*entity.Flight)}
	for _, f := range flights {
		r.flights[f.ID] = f
	}
	return r
}

func (r *fakeFlightRepo) Create(_ context.Context, flight *entity.Flight) error {
	if flight.ID == "" {
		flight.ID = fmt.Sprintf("flight-%d", len(r.flights)+1)
	}
	now := time.Now()
	flight.CreatedAt = now
	flight.UpdatedAt = now
	r.flights[flight.ID] = flight
	return nil
}

func (r *fakeFlightRepo) GetByID(_ context.Context, id string) (*entity.Flight, error) {
	return r.flights[id], nil
}

func (r *fakeFlightRepo) ListByStatuses(_ context.Context, statuses ...entity.Status) ([]*entity.Flight, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*entity.Flight
	for _, f := range r.flights {
		for _, s := range statuses {
			if f.Status == s {
				out = append(out, f)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFlightRepo) UpdateStatus(_ context.Context, id string, status entity.Status) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	f, ok := r.flights[id]
	if !ok {
		return fmt.Errorf("no flight found with id: %s", id)
	}
	f.Status = status
	return nil
}

func (r *fakeFlightRepo) MarkDeparted(_ context.Context, id string, actualDeparture time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	f, ok := r.flights[id]
	if !ok {
		return fmt.Errorf("no flight found with id: %s", id)
	}
	f.Status = entity.StatusDeparted
	f.ActualDeparture = &actualDeparture
	return nil
}

func (r *fakeFlightRepo) IncrementSubscriptions(_ context.Context, id string, delta int) error {
	f, ok := r.flights[id]
	if !ok {
		return fmt.Errorf("no flight found with id: %s", id)
	}
	f.Subscriptions += delta
	return nil
}

type fakeAirlineRepo struct {
	airlines   map[string]*entity.Airline
	increments map[string]int // "<id>/<field>" -> total delta
}

func newFakeAirlineRepo(airlines ...*entity.Airline) *fakeAirlineRepo {
	r := &fakeAirlineRepo{
		airlines:   make(map[string]*entity.Airline),
		increments: make(map[string]int),
	}
	for _, a := range airlines {
		r.airlines[a.ID] = a
	}
	return r
}

func (r *fakeAirlineRepo) Create(_ context.Context, airline *entity.Airline) error {
	if airline.ID == "" {
		airline.ID = fmt.Sprintf("airline-%d", len(r.airlines)+1)
	}
	r.airlines[airline.ID] = airline
	return nil
}

func (r *fakeAirlineRepo) GetByID(_ context.Context, id string) (*entity.Airline, error) {
	return r.airlines[id], nil
}

func (r *fakeAirlineRepo) IncrementStatistic(_ context.Context, id string, field string, delta int) error {
	r.increments[id+"/"+field] += delta
	return nil
}

func (r *fakeAirlineRepo) AddTimingProfile(_ context.Context, id string, profile entity.TimingProfile) error {
	a, ok := r.airlines[id]
	if !ok {
		return fmt.Errorf("no airline found with id: %s", id)
	}
	a.TimingProfiles = append(a.TimingProfiles, profile)
	return nil
}

func (r *fakeAirlineRepo) AddAirport(_ context.Context, id string, airport entity.AirportEntry) error {
	a, ok := r.airlines[id]
	if !ok {
		return fmt.Errorf("no airline found with id: %s", id)
	}
	a.Airports = append(a.Airports, airport)
	return nil
}

func (r *fakeAirlineRepo) AddRoute(_ context.Context, id string, route entity.Route) error {
	a, ok := r.airlines[id]
	if !ok {
		return fmt.Errorf("no airline found with id: %s", id)
	}
	a.Routes = append(a.Routes, route)
	return nil
}

type fakeSubscriptionRepo struct {
	subs      map[string]*entity.Subscription
	listErr   error
	appendErr error
}

func newFakeSubscriptionRepo(subs ...*entity.Subscription) *fakeSubscriptionRepo {
	r := &fakeSubscriptionRepo{subs: make(map[string]*entity.Subscription)}
	for _, s := range subs {
		r.subs[s.ID] = s
	}
	return r
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *entity.Subscription) error {
	for _, existing := range r.subs {
		if existing.UserID == sub.UserID && existing.FlightID == sub.FlightID {
			return fmt.Errorf("duplicate subscription for user %s flight %s", sub.UserID, sub.FlightID)
		}
	}
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("sub-%d", len(r.subs)+1)
	}
	if sub.NotificationsSent == nil {
		sub.NotificationsSent = []string{}
	}
	sub.CreatedAt = time.Now()
	r.subs[sub.ID] = sub
	return nil
}

func (r *fakeSubscriptionRepo) ListAll(_ context.Context) ([]*entity.Subscription, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*entity.Subscription
	for _, s := range r.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSubscriptionRepo) FindByUserAndFlight(_ context.Context, userID, flightID string) (*entity.Subscription, error) {
	for _, s := range r.subs {
		if s.UserID == userID && s.FlightID == flightID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) AppendSent(_ context.Context, id string, leadTimeKey string) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	s, ok := r.subs[id]
	if !ok {
		return fmt.Errorf("no subscription found with id: %s", id)
	}
	for _, sent := range s.NotificationsSent {
		if sent == leadTimeKey {
			return nil
		}
	}
	s.NotificationsSent = append(s.NotificationsSent, leadTimeKey)
	return nil
}

type sentReminder struct {
	userID   string
	reminder *entity.Reminder
}

type fakeNotifier struct {
	sent []sentReminder
	err  error
}

func (n *fakeNotifier) SendReminder(_ context.Context, userID string, reminder *entity.Reminder) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentReminder{userID: userID, reminder: reminder})
	return nil
}
