package entity

import "time"

// TimingProfile is a named bundle of minute offsets before departure.
// Flights reference a profile by name at creation time and embed the
// resolved absolute times, so later edits never touch existing flights.
type TimingProfile struct {
	Name         string `bson:"name"`
	CheckinOpen  int    `bson:"checkinOpen"`
	CheckinClose int    `bson:"checkinClose"`
	ServerOpen   int    `bson:"serverOpen"`
	ServerClose  int    `bson:"serverClose"`
}

// DefaultTimingProfiles are seeded into every new airline.
func DefaultTimingProfiles() []TimingProfile {
	return []TimingProfile{
		{Name: "Standard", CheckinOpen: 55, CheckinClose: 15, ServerOpen: 50, ServerClose: 10},
		{Name: "Quick turnaround", CheckinOpen: 40, CheckinClose: 10, ServerOpen: 35, ServerClose: 5},
	}
}

// Statistics are the airline's roll-up counters, updated with atomic
// per-field increments only.
type Statistics struct {
	FlightsCreated   int `bson:"flightsCreated"`
	FlightsCompleted int `bson:"flightsCompleted"`
	FlightsCancelled int `bson:"flightsCancelled"`
}

// AirportEntry is static airport reference data attached to an airline.
type AirportEntry struct {
	Name     string `bson:"name"`
	IATA     string `bson:"iata"`
	ICAO     string `bson:"icao,omitempty"`
	City     string `bson:"city,omitempty"`
	Country  string `bson:"country,omitempty"`
	GameLink string `bson:"gameLink,omitempty"`
}

// Route is a named origin/destination pair within an airline's network.
type Route struct {
	Name          string `bson:"name"`
	DepartureIATA string `bson:"departureIata"`
	ArrivalIATA   string `bson:"arrivalIata"`
}

// Airline represents a community airline document.
type Airline struct {
	ID             string          `bson:"_id,omitempty"`
	Name           string          `bson:"name"`
	IATA           string          `bson:"iata"`
	OwnerID        string          `bson:"ownerId"`
	Statistics     Statistics      `bson:"statistics"`
	TimingProfiles []TimingProfile `bson:"timingProfiles"`
	Airports       []AirportEntry  `bson:"airports"`
	Routes         []Route         `bson:"routes"`
	CreatedAt      time.Time       `bson:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt"`
}

// ProfileByName looks up a timing profile by its display name.
func (a *Airline) ProfileByName(name string) (TimingProfile, bool) {
	for _, p := range a.TimingProfiles {
		if p.Name == name {
			return p, true
		}
	}
	return TimingProfile{}, false
}

// AirportByCode looks up an airport entry by IATA or ICAO code.
func (a *Airline) AirportByCode(code string) (AirportEntry, bool) {
	for _, ap := range a.Airports {
		if ap.IATA == code || (ap.ICAO != "" && ap.ICAO == code) {
			return ap, true
		}
	}
	return AirportEntry{}, false
}
