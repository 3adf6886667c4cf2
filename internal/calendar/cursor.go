package calendar

import (
	"fmt"
	"time"

	"github.com/theirongolddev/kburn/internal/localtime"
)

// Kind is the granularity a Cursor moves by.
type Kind int

const (
	Day Kind = iota
	Week
	Month
)

func (k Kind) String() string {
	switch k {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Direction moves a cursor backwards or forwards.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// Cursor points at one day, one Monday-start week or one month. It is a
// value: every method returns a new Cursor and never mutates the receiver.
type Cursor struct {
	kind Kind
	// anchor is the day itself, the week's Monday, or the 1st of the month.
	anchor Date
}

// NewDayCursor points at d.
func NewDayCursor(d Date) Cursor {
	return Cursor{kind: Day, anchor: d}
}

// NewWeekCursor points at the week containing d.
func NewWeekCursor(d Date) Cursor {
	return Cursor{kind: Week, anchor: MondayOf(d)}
}

// NewMonthCursor points at the given month.
func NewMonthCursor(year int, month time.Month) Cursor {
	return Cursor{kind: Month, anchor: Date{Year: year, Month: month, Day: 1}}
}

// At builds a cursor of the given kind containing d.
func At(kind Kind, d Date) Cursor {
	switch kind {
	case Week:
		return NewWeekCursor(d)
	case Month:
		return NewMonthCursor(d.Year, d.Month)
	default:
		return NewDayCursor(d)
	}
}

// Today builds the default cursor (today, this week, this month) for now.
func Today(now localtime.Instant, kind Kind) Cursor {
	return At(kind, DateOf(now))
}

func (c Cursor) Kind() Kind { return c.kind }

// Anchor is the first day of the period.
func (c Cursor) Anchor() Date { return c.anchor }

// Advance moves the cursor by exactly one unit in dir. Only the sign of dir
// is used; zero returns c unchanged.
func (c Cursor) Advance(dir Direction) Cursor {
	step := 0
	switch {
	case dir < 0:
		step = -1
	case dir > 0:
		step = 1
	}
	if step == 0 {
		return c
	}

	switch c.kind {
	case Week:
		return Cursor{kind: Week, anchor: c.anchor.AddDays(7 * step)}
	case Month:
		y, m := c.anchor.Year, c.anchor.Month+time.Month(step)
		if m < time.January {
			m, y = time.December, y-1
		} else if m > time.December {
			m, y = time.January, y+1
		}
		return NewMonthCursor(y, m)
	default:
		return Cursor{kind: Day, anchor: c.anchor.AddDays(step)}
	}
}

// Len is the number of days in the period.
func (c Cursor) Len() int {
	switch c.kind {
	case Week:
		return 7
	case Month:
		return DaysIn(c.anchor.Year, c.anchor.Month)
	default:
		return 1
	}
}

// Dates returns every day of the period in order.
func (c Cursor) Dates() []Date {
	n := c.Len()
	out := make([]Date, n)
	for i := range n {
		out[i] = c.anchor.AddDays(i)
	}
	return out
}

// Range returns the half-open instant range [start, end) of the period.
func (c Cursor) Range() (start, end localtime.Instant) {
	return c.anchor.Start(), c.anchor.AddDays(c.Len()).Start()
}

// Last is the final day of the period.
func (c Cursor) Last() Date { return c.anchor.AddDays(c.Len() - 1) }

// Contains reports whether d falls inside the period.
func (c Cursor) Contains(d Date) bool {
	return !d.Before(c.anchor) && !d.After(c.Last())
}

// Key is a stable string identifying the period:
// "2024-03-10", "2024-W10" or "2024-03".
func (c Cursor) Key() string {
	switch c.kind {
	case Week:
		y, w := c.anchor.civil().ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Month:
		return fmt.Sprintf("%04d-%02d", c.anchor.Year, int(c.anchor.Month))
	default:
		return c.anchor.String()
	}
}

func (c Cursor) String() string { return c.kind.String() + " " + c.Key() }
