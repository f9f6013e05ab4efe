package entity

import "time"

// Reminder is the payload delivered to a subscriber ahead of departure.
type Reminder struct {
	FlightID         string
	FlightNumber     string
	AirlineName      string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	LeadTimeKey      string
	RemainingLabel   string
}
