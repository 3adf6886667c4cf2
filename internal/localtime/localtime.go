// Package localtime reads and writes wall-clock timestamps exactly as the
// meal-log backend sends them: "YYYY-MM-DDTHH:mm:ss" with no zone.
//
// Values are decomposed field by field and never pass through a zone
// conversion, so a meal logged at 23:30 stays on the day it was logged.
package localtime

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the canonical wire form produced by Format.
const Layout = "2006-01-02T15:04:05"

// rawLen is the fixed width of an accepted timestamp.
const rawLen = len("YYYY-MM-DDTHH:mm:ss")

var (
	// ErrMalformed means the input did not have the fixed-width shape.
	ErrMalformed = errors.New("malformed local timestamp")
	// ErrOutOfRange means the shape was right but a field is not a real
	// calendar or clock value (month 13, Feb 30, hour 24...).
	ErrOutOfRange = errors.New("local timestamp field out of range")
)

// ParseError reports a timestamp that could not be decoded.
type ParseError struct {
	Raw   string
	Field string // empty when the separators are wrong
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parsing local timestamp %q: %s: %v", e.Raw, e.Field, e.Err)
	}
	return fmt.Sprintf("parsing local timestamp %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Instant is a calendar date plus a time of day with second precision and
// no time zone.
type Instant struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// Parse decodes "YYYY-MM-DDTHH:mm:ss" or "YYYY-MM-DD HH:mm:ss".
func Parse(raw string) (Instant, error) {
	if len(raw) != rawLen ||
		raw[4] != '-' || raw[7] != '-' ||
		(raw[10] != 'T' && raw[10] != ' ') ||
		raw[13] != ':' || raw[16] != ':' {
		return Instant{}, &ParseError{Raw: raw, Err: ErrMalformed}
	}

	fields := [6]struct {
		name     string
		from, to int
	}{
		{"year", 0, 4},
		{"month", 5, 7},
		{"day", 8, 10},
		{"hour", 11, 13},
		{"minute", 14, 16},
		{"second", 17, 19},
	}
	var v [6]int
	for i, f := range fields {
		n, ok := digits(raw[f.from:f.to])
		if !ok {
			return Instant{}, &ParseError{Raw: raw, Field: f.name, Err: ErrMalformed}
		}
		v[i] = n
	}

	in := Instant{
		Year:   v[0],
		Month:  time.Month(v[1]),
		Day:    v[2],
		Hour:   v[3],
		Minute: v[4],
		Second: v[5],
	}
	if field := in.invalidField(); field != "" {
		return Instant{}, &ParseError{Raw: raw, Field: field, Err: ErrOutOfRange}
	}
	return in, nil
}

// ParseOr parses raw and returns fallback when it cannot. The boolean is
// false when the fallback was used so callers can count substitutions.
func ParseOr(raw string, fallback Instant) (Instant, bool) {
	in, err := Parse(raw)
	if err != nil {
		return fallback, false
	}
	return in, true
}

// MustParse is like Parse but panics on malformed input. It is meant for
// constants and tests.
func MustParse(raw string) Instant {
	in, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return in
}

// Format renders i as zero-padded "YYYY-MM-DDTHH:mm:ss".
func Format(i Instant) string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		i.Year, int(i.Month), i.Day, i.Hour, i.Minute, i.Second)
}

// String implements fmt.Stringer using Format.
func (i Instant) String() string { return Format(i) }

// Now reads the current wall clock of the machine.
func Now() Instant { return FromTime(time.Now()) }

// FromTime takes the wall-clock fields of t in t's own location.
func FromTime(t time.Time) Instant {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return Instant{Year: y, Month: mo, Day: d, Hour: h, Minute: mi, Second: s}
}

// Time returns i as a time.Time in UTC. UTC is used only as a zone with no
// DST transitions so calendar arithmetic is exact; the result is not the
// moment the meal happened.
func (i Instant) Time() time.Time {
	return time.Date(i.Year, i.Month, i.Day, i.Hour, i.Minute, i.Second, 0, time.UTC)
}

// Compare returns -1, 0 or +1.
func (i Instant) Compare(o Instant) int {
	a := [6]int{i.Year, int(i.Month), i.Day, i.Hour, i.Minute, i.Second}
	b := [6]int{o.Year, int(o.Month), o.Day, o.Hour, o.Minute, o.Second}
	for k := range a {
		switch {
		case a[k] < b[k]:
			return -1
		case a[k] > b[k]:
			return 1
		}
	}
	return 0
}

func (i Instant) Before(o Instant) bool { return i.Compare(o) < 0 }
func (i Instant) After(o Instant) bool  { return i.Compare(o) > 0 }
func (i Instant) Equal(o Instant) bool  { return i == o }

// IsZero reports whether i is the zero Instant.
func (i Instant) IsZero() bool { return i == Instant{} }

// Valid reports whether every field is a real calendar/clock value.
func (i Instant) Valid() bool { return i.invalidField() == "" }

func (i Instant) invalidField() string {
	switch {
	case i.Year < 1 || i.Year > 9999:
		return "year"
	case i.Month < time.January || i.Month > time.December:
		return "month"
	case i.Day < 1 || i.Day > daysIn(i.Year, i.Month):
		return "day"
	case i.Hour < 0 || i.Hour > 23:
		return "hour"
	case i.Minute < 0 || i.Minute > 59:
		return "minute"
	case i.Second < 0 || i.Second > 59:
		return "second"
	}
	return ""
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func digits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// MarshalText encodes i with Format.
func (i Instant) MarshalText() ([]byte, error) {
	return []byte(Format(i)), nil
}

// UnmarshalText decodes with Parse.
func (i *Instant) UnmarshalText(b []byte) error {
	in, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = in
	return nil
}
