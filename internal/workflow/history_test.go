package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationInState(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		since   time.Time
		want    StateDuration
		display string
	}{
		{"days dominate", now.Add(-(51*time.Hour + 12*time.Minute)), StateDuration{Days: 2, Hours: 3, Minutes: 12}, "2 days"},
		{"hours dominate", now.Add(-(5*time.Hour + 2*time.Minute)), StateDuration{Hours: 5, Minutes: 2}, "5 hours"},
		{"minutes only", now.Add(-42 * time.Minute), StateDuration{Minutes: 42}, "42 minutes"},
		{"single units", now.Add(-25 * time.Hour), StateDuration{Days: 1, Hours: 1}, "1 day"},
		{"zero", now, StateDuration{}, "0 minutes"},
		{"clock skew clamps to zero", now.Add(time.Hour), StateDuration{}, "0 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DurationInState(tt.since, now)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.display, d.String())
		})
	}
}

func TestDurationDisplayPrecedence(t *testing.T) {
	// Sub-day remainders never leak into the day display.
	d := StateDuration{Days: 3, Hours: 23, Minutes: 59}
	assert.Equal(t, "3 days", d.String())

	d = StateDuration{Hours: 1, Minutes: 59}
	assert.Equal(t, "1 hour", d.String())
}
