package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadTimeDue(t *testing.T) {
	day := LeadTime{Key: "24h", Offset: 24 * time.Hour, Tolerance: 30 * time.Minute}

	assert.True(t, day.Due(24*time.Hour))
	assert.True(t, day.Due(24*time.Hour+30*time.Minute))
	assert.True(t, day.Due(23*time.Hour+31*time.Minute))
	assert.False(t, day.Due(24*time.Hour+31*time.Minute))
	assert.False(t, day.Due(23*time.Hour+30*time.Minute))

	half := LeadTime{Key: "30min", Offset: 30 * time.Minute, Tolerance: 5 * time.Minute}

	assert.True(t, half.Due(30*time.Minute))
	assert.True(t, half.Due(35*time.Minute))
	assert.False(t, half.Due(36*time.Minute))
	assert.False(t, half.Due(25*time.Minute))
	assert.False(t, half.Due(-10*time.Minute))
}

func TestDefaultLeadTimes(t *testing.T) {
	leadTimes := DefaultLeadTimes()
	require.Len(t, leadTimes, 4)
	assert.Equal(t, []string{"24h", "6h", "1h", "30min"}, Keys(leadTimes))

	// The 30min tier carries the tighter tolerance.
	assert.Equal(t, 5*time.Minute, leadTimes[3].Tolerance)
	for _, lt := range leadTimes[:3] {
		assert.Equal(t, 30*time.Minute, lt.Tolerance)
	}
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "23h 55m", FormatRemaining(23*time.Hour+55*time.Minute))
	assert.Equal(t, "1h 0m", FormatRemaining(time.Hour))
	assert.Equal(t, "30m", FormatRemaining(30*time.Minute))
	assert.Equal(t, "0m", FormatRemaining(-5*time.Minute))
	assert.Equal(t, "1h 0m", FormatRemaining(59*time.Minute+40*time.Second))
}
