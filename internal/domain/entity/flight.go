package entity

import (
	"errors"
	"fmt"
	"time"
)

// Status is the lifecycle phase of a flight.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusBoarding  Status = "boarding"
	StatusDeparted  Status = "departed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ErrInvalidTransition is returned when a status change is not allowed
// by the lifecycle table.
var ErrInvalidTransition = errors.New("invalid status transition")

// transitions is the closed lifecycle table. Cancellation is allowed from
// any non-terminal status because moderation can pull a flight at any point
// before it lands.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusBoarding, StatusDeparted, StatusCancelled},
	StatusBoarding:  {StatusDeparted, StatusCancelled},
	StatusDeparted:  {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AirportRef is the denormalized airport display info embedded in a flight.
// Values are resolved at creation time from the airline's airport entries.
type AirportRef struct {
	Name     string `bson:"name" json:"name"`
	IATA     string `bson:"iata" json:"iata"`
	ICAO     string `bson:"icao,omitempty" json:"icao,omitempty"`
	GameLink string `bson:"gameLink,omitempty" json:"gameLink,omitempty"`
}

// Flight represents one scheduled simulated flight owned by an airline.
//
// The check-in and server windows are stored as absolute times, resolved
// from the airline's timing profile when the flight is created. Editing a
// profile afterwards never changes flights that already exist.
type Flight struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	AirlineID       string     `bson:"airlineId" json:"airlineId"`
	AirlineName     string     `bson:"airlineName" json:"airlineName"`
	AirlineIATA     string     `bson:"airlineIata" json:"airlineIata"`
	FlightNumber    string     `bson:"flightNumber" json:"flightNumber"`
	RouteName       string     `bson:"routeName,omitempty" json:"routeName,omitempty"`
	Departure       AirportRef `bson:"departure" json:"departure"`
	Arrival         AirportRef `bson:"arrival" json:"arrival"`
	Aircraft        string     `bson:"aircraft,omitempty" json:"aircraft,omitempty"`
	DepartureTime   time.Time  `bson:"departureTime" json:"departureTime"`
	ArrivalTime     time.Time  `bson:"arrivalTime" json:"arrivalTime"`
	FlightTime      int        `bson:"flightTime" json:"flightTime"` // minutes
	CheckinOpen     time.Time  `bson:"checkinOpen" json:"checkinOpen"`
	CheckinClose    time.Time  `bson:"checkinClose" json:"checkinClose"`
	ServerOpen      time.Time  `bson:"serverOpen" json:"serverOpen"`
	ServerClose     time.Time  `bson:"serverClose" json:"serverClose"`
	TimingProfile   string     `bson:"timingProfile" json:"timingProfile"`
	Status          Status     `bson:"status" json:"status"`
	ActualDeparture *time.Time `bson:"actualDeparture,omitempty" json:"actualDeparture,omitempty"`
	Subscriptions   int        `bson:"subscriptions" json:"subscriptions"`
	CreatedBy       string     `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ValidateSchedule checks the fields the status advancer depends on.
// A flight failing this check is skipped by the advancer, not aborted on.
func (f *Flight) ValidateSchedule() error {
	if !f.Status.Valid() {
		return fmt.Errorf("unknown status %q", f.Status)
	}
	if f.DepartureTime.IsZero() {
		return errors.New("missing departure time")
	}
	if f.CheckinClose.IsZero() {
		return errors.New("missing check-in close time")
	}
	if f.FlightTime <= 0 {
		return fmt.Errorf("non-positive flight time %d", f.FlightTime)
	}
	return nil
}

// Duration returns the flight time as a duration.
func (f *Flight) Duration() time.Duration {
	return time.Duration(f.FlightTime) * time.Minute
}

// CompletionTime derives when a departed flight is considered landed.
func (f *Flight) CompletionTime() (time.Time, error) {
	if f.ActualDeparture == nil {
		return time.Time{}, errors.New("flight has no actual departure time")
	}
	return f.ActualDeparture.Add(f.Duration()), nil
}
