// Package calendar does day, week and month arithmetic on wall-clock
// instants. Weeks start on Monday. All ranges are half-open [start, end).
package calendar

import (
	"fmt"
	"time"

	"github.com/theirongolddev/kburn/internal/localtime"
)

// DateLayout is the string form of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time of day. It is comparable and is the
// key used to group entries by day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day an instant falls on.
func DateOf(i localtime.Instant) Date {
	return Date{Year: i.Year, Month: i.Month, Day: i.Day}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return dateFromTime(t), nil
}

// String returns "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Key is the stable grouping key of the day; it equals String.
func (d Date) Key() string { return d.String() }

// Start is 00:00:00 on d.
func (d Date) Start() localtime.Instant {
	return localtime.Instant{Year: d.Year, Month: d.Month, Day: d.Day}
}

// AddDays moves d by n days, crossing month and year boundaries.
func (d Date) AddDays(n int) Date {
	return dateFromTime(d.civil().AddDate(0, 0, n))
}

// Weekday returns the day of the week, Sunday == 0.
func (d Date) Weekday() time.Weekday { return d.civil().Weekday() }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.Start().Compare(o.Start()) }

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// Time returns midnight of d in UTC, for callers that format with the time
// package. UTC carries the fields only.
func (d Date) Time() time.Time { return d.civil() }

func (d Date) civil() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func dateFromTime(t time.Time) Date {
	y, m, day := t.Date()
	return Date{Year: y, Month: m, Day: day}
}

// StartOfDay returns 00:00:00 on the same date as i.
func StartOfDay(i localtime.Instant) localtime.Instant {
	return DateOf(i).Start()
}

// EndOfDay returns the start of the next date. It is an exclusive bound.
func EndOfDay(i localtime.Instant) localtime.Instant {
	return DateOf(i).AddDays(1).Start()
}

// StartOfWeek returns 00:00:00 on the Monday on or before i.
func StartOfWeek(i localtime.Instant) localtime.Instant {
	return MondayOf(DateOf(i)).Start()
}

// MondayOf returns the Monday on or before d.
func MondayOf(d Date) Date {
	dow := int(d.Weekday())
	offset := 1 - dow
	if dow == 0 {
		offset = -6
	}
	return d.AddDays(offset)
}

// DaysInMonth returns the number of days in the month. monthIndex is
// zero-based: 0 is January and 11 is December.
func DaysInMonth(year, monthIndex int) int {
	return DaysIn(year, time.Month(monthIndex+1))
}

// DaysIn is DaysInMonth with a time.Month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalText encodes d as "YYYY-MM-DD".
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes "YYYY-MM-DD".
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
