// Package festival holds the time rules of the festival program: which
// festival day an entry belongs to, when it starts and ends, and how a day's
// entries are ordered.
package festival

import (
	"errors"
	"fmt"
	"time"

	// Embedded zone database so Europe/Madrid resolves on minimal images.
	_ "time/tzdata"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrMalformedTimestamp is returned when a date or time-of-day cannot be parsed.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Clock maps calendar dates and times onto festival days. Entries before the
// cutover hour belong to the previous festival day.
type Clock struct {
	cutoverHour int
	location    *time.Location
}

func NewClock(cutoverHour int, location *time.Location) *Clock {
	if location == nil {
		location = time.Local
	}
	return &Clock{cutoverHour: cutoverHour, location: location}
}

func (c *Clock) CutoverHour() int {
	return c.cutoverHour
}

func (c *Clock) Location() *time.Location {
	return c.location
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformedTimestamp, date)
	}
	return d, nil
}

// ParseTimeOfDay validates an HH:MM time-of-day.
func ParseTimeOfDay(tod string) (hour, minute int, err error) {
	t, err := time.Parse(TimeLayout, tod)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q", ErrMalformedTimestamp, tod)
	}
	return t.Hour(), t.Minute(), nil
}

// FestivalDateOf returns the festival day a program entry belongs to.
func (c *Clock) FestivalDateOf(date, tod string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	hour, _, err := ParseTimeOfDay(tod)
	if err != nil {
		return "", err
	}
	if hour < c.cutoverHour {
		d = d.AddDate(0, 0, -1)
	}
	return d.Format(DateLayout), nil
}

// CurrentFestivalDate returns the festival day that now falls in.
func (c *Clock) CurrentFestivalDate(now time.Time) string {
	local := now.In(c.location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	if local.Hour() < c.cutoverHour {
		day = day.AddDate(0, 0, -1)
	}
	return day.Format(DateLayout)
}

// Start combines a calendar date and time-of-day into an instant in the
// festival time zone.
func (c *Clock) Start(date, tod string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseTimeOfDay(tod)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, c.location), nil
}

// IsEarlyMorning reports whether tod falls between midnight and the cutover.
func (c *Clock) IsEarlyMorning(tod string) bool {
	hour, _, err := ParseTimeOfDay(tod)
	return err == nil && hour < c.cutoverHour
}

// minuteOfDay returns minutes since midnight, or -1 when tod is malformed.
func minuteOfDay(tod string) int {
	hour, minute, err := ParseTimeOfDay(tod)
	if err != nil {
		return -1
	}
	return hour*60 + minute
}
