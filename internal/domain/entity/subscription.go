package entity

import "time"

// Subscription is a user's opt-in to receive reminders about one flight.
// At most one subscription exists per (user, flight) pair.
type Subscription struct {
	ID                string    `bson:"_id,omitempty" json:"id"`
	UserID            string    `bson:"userId" json:"userId"`
	Username          string    `bson:"username,omitempty" json:"username,omitempty"`
	FlightID          string    `bson:"flightId" json:"flightId"`
	Notifications     []string  `bson:"notifications" json:"notifications"`
	NotificationsSent []string  `bson:"notificationsSent" json:"notificationsSent"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
}

// AlreadySent reports whether the lead-time key has been evaluated as due
// before. Keys are appended once per subscription lifetime, regardless of
// whether delivery itself succeeded.
func (s *Subscription) AlreadySent(key string) bool {
	for _, sent := range s.NotificationsSent {
		if sent == key {
			return true
		}
	}
	return false
}
