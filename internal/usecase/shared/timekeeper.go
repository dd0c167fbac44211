package shared

import (
	"time"

	"kilnbook/internal/pkg/clock"
)

// Timekeeper evaluates "now" and "today" in the association's time zone.
type Timekeeper struct {
	clock clock.Clock
	loc   *time.Location
}

func NewTimekeeper(clk clock.Clock, loc *time.Location) *Timekeeper {
	if loc == nil {
		loc = time.UTC
	}
	return &Timekeeper{clock: clk, loc: loc}
}

func (t *Timekeeper) Now() time.Time {
	return t.clock.Now()
}

// Today is the current local date as midnight UTC, comparable with slot dates.
func (t *Timekeeper) Today() time.Time {
	return clock.Today(t.clock, t.loc)
}

func (t *Timekeeper) Location() *time.Location {
	return t.loc
}
