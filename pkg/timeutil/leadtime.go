package timeutil

import (
	"fmt"
	"time"
)

// LeadTime is a configured interval before departure at which a one-shot
// reminder is due. The acceptance window is symmetric around the offset so
// a coarse polling cadence still catches the boundary.
type LeadTime struct {
	Key       string
	Offset    time.Duration
	Tolerance time.Duration
}

// Due reports whether timeUntil falls inside this lead time's window.
func (lt LeadTime) Due(timeUntil time.Duration) bool {
	return timeUntil > lt.Offset-lt.Tolerance && timeUntil <= lt.Offset+lt.Tolerance
}

// DefaultLeadTimes is the reminder catalog. The 30min tier carries a
// tighter tolerance because the reminder is only useful close to the mark.
func DefaultLeadTimes() []LeadTime {
	return []LeadTime{
		{Key: "24h", Offset: 24 * time.Hour, Tolerance: 30 * time.Minute},
		{Key: "6h", Offset: 6 * time.Hour, Tolerance: 30 * time.Minute},
		{Key: "1h", Offset: time.Hour, Tolerance: 30 * time.Minute},
		{Key: "30min", Offset: 30 * time.Minute, Tolerance: 5 * time.Minute},
	}
}

// Keys returns the lead-time keys in catalog order.
func Keys(leadTimes []LeadTime) []string {
	keys := make([]string, 0, len(leadTimes))
	for _, lt := range leadTimes {
		keys = append(keys, lt.Key)
	}
	return keys
}

// FormatRemaining renders a duration as a short human label, e.g.
// "23h 55m" or "35m".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
