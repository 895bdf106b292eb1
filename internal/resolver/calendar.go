package resolver

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultCutoffHour is the local hour before which "today" still means the
// previous calendar day, so a late match abroad is still tonight's game.
const DefaultCutoffHour = 2

// Calendar answers "what day is today" for game lookups.
type Calendar struct {
	Clock      clockwork.Clock
	Location   *time.Location
	CutoffHour int
}

// NewCalendar returns a Calendar in loc with the default cutoff.
func NewCalendar(clock clockwork.Clock, loc *time.Location) Calendar {
	return Calendar{Clock: clock, Location: loc, CutoffHour: DefaultCutoffHour}
}

// Now returns the current time in the calendar's location.
func (c Calendar) Now() time.Time {
	clock := c.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return clock.Now().In(loc)
}

// Today returns midnight of the current game day.
func (c Calendar) Today() time.Time {
	return GameDay(c.Now(), c.CutoffHour)
}

// GameDay returns midnight, in now's location, of the day now belongs to
// when days roll over at cutoffHour instead of midnight.
func GameDay(now time.Time, cutoffHour int) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if now.Hour() < cutoffHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
