// Package calendar holds the planner's date arithmetic: "today" in the
// configured time zone, whole-day differences and the month grid.
//
// Dates travel through the app as YYYY-MM-DD strings (model.DateLayout).
// Parsing always happens in UTC so that day differences are exact multiples
// of 24h and never shift across DST boundaries.
package calendar

import (
	"fmt"
	"time"

	"github.com/sakif/brightday/internal/model"
)

// GridCells is the number of days in a month view: six full weeks.
const GridCells = 42

// Clock answers "what day is it" in a fixed location.
// Now is injectable so tests can pin the date.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewClock returns a Clock on the wall clock in loc (UTC when nil).
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Location: loc, Now: time.Now}
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return Clock{Location: t.Location(), Now: func() time.Time { return t }}
}

// Time returns the current instant.
func (c Clock) Time() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the current date in the clock's location.
func (c Clock) Today() string {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return c.Time().In(loc).Format(model.DateLayout)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: invalid date %q: %w", s, err)
	}
	return t, nil
}

// ValidTime reports whether s is an HH:MM time of day.
func ValidTime(s string) bool {
	if len(s) != len(model.TimeLayout) {
		return false
	}
	_, err := time.Parse(model.TimeLayout, s)
	return err == nil
}

// DaysBetween returns the whole calendar-day difference to - from.
// It is positive when to is after from.
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// AddDays shifts a date by n days.
func AddDays(date string, n int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, n).Format(model.DateLayout), nil
}

// Day is one cell of a month grid.
type Day struct {
	Date    string        `json:"date"`
	InMonth bool          `json:"inMonth"`
	IsToday bool          `json:"isToday"`
	Events  []model.Event `json:"events"`
}

// MonthGrid returns the 42 consecutive days of a month view. The first cell
// is the last weekStart on or before the 1st of the month, so the grid always
// starts on weekStart and always contains the whole month.
func MonthGrid(year int, month time.Month, weekStart time.Weekday, today string) []Day {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	start := first.AddDate(0, 0, -offset)

	days := make([]Day, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		d := start.AddDate(0, 0, i)
		date := d.Format(model.DateLayout)
		days = append(days, Day{
			Date:    date,
			InMonth: d.Month() == month,
			IsToday: date == today,
			Events:  []model.Event{},
		})
	}
	return days
}

// ParseWeekday maps "sunday"/"monday" to a time.Weekday. Anything else is Sunday.
func ParseWeekday(s string) time.Weekday {
	if s == "monday" {
		return time.Monday
	}
	return time.Sunday
}
