package entity

import "time"

// Airport is a row in the shared airport reference table, consulted by the
// resolver before any outbound lookup.
type Airport struct {
	ID        string    `json:"id,omitempty"`
	ICAO      string    `json:"icao"`
	IATA      string    `json:"iata"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	GameLink  string    `json:"gameLink,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
