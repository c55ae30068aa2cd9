package workflow

import (
	"fmt"
	"time"
)

// StateDuration is the floored breakdown of time spent in a status.
type StateDuration struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// DurationInState computes how long an event has been in its current status.
func DurationInState(lastChanged, now time.Time) StateDuration {
	d := now.Sub(lastChanged)
	if d < 0 {
		d = 0
	}
	return StateDuration{
		Days:    int(d.Hours()) / 24,
		Hours:   int(d.Hours()) % 24,
		Minutes: int(d.Minutes()) % 60,
	}
}

// String renders the duration for audit display with day > hour > minute
// precedence: days when any, else hours when any, else minutes.
func (d StateDuration) String() string {
	switch {
	case d.Days > 0:
		return fmt.Sprintf("%d %s", d.Days, plural(d.Days, "day"))
	case d.Hours > 0:
		return fmt.Sprintf("%d %s", d.Hours, plural(d.Hours, "hour"))
	default:
		return fmt.Sprintf("%d %s", d.Minutes, plural(d.Minutes, "minute"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
