package report

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/localtime"
)

// Mode is the report currently shown.
type Mode int

const (
	ModeDaily Mode = iota
	ModeWeekly
	ModeMonthly
)

// Modes lists every mode in tab order.
var Modes = []Mode{ModeDaily, ModeWeekly, ModeMonthly}

func (m Mode) String() string {
	switch m {
	case ModeWeekly:
		return "weekly"
	case ModeMonthly:
		return "monthly"
	default:
		return "daily"
	}
}

// ParseMode accepts "daily", "weekly" or "monthly" (or d/w/m).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "d", "":
		return ModeDaily, nil
	case "weekly", "week", "w":
		return ModeWeekly, nil
	case "monthly", "month", "m":
		return ModeMonthly, nil
	}
	return ModeDaily, fmt.Errorf("unknown view %q (want daily, weekly or monthly)", s)
}

// Navigator is the browsing state of an interactive report: the active
// mode, one cursor per mode, and an optional selected day inside the
// current week or month. It holds no entries.
type Navigator struct {
	mode     Mode
	day      calendar.Cursor
	week     calendar.Cursor
	month    calendar.Cursor
	selected int // -1 when nothing is selected
}

// NewNavigator starts every cursor at now.
func NewNavigator(now localtime.Instant, mode Mode) Navigator {
	n := Navigator{mode: mode}
	n.GoTo(calendar.DateOf(now))
	return n
}

// Mode returns the active mode.
func (n *Navigator) Mode() Mode { return n.mode }

// Cursor returns the cursor of the active mode.
func (n *Navigator) Cursor() calendar.Cursor { return n.CursorFor(n.mode) }

// CursorFor returns the cursor of mode m.
func (n *Navigator) CursorFor(m Mode) calendar.Cursor {
	switch m {
	case ModeWeekly:
		return n.week
	case ModeMonthly:
		return n.month
	default:
		return n.day
	}
}

// SetMode switches the active mode and clears the selection.
func (n *Navigator) SetMode(m Mode) {
	if m == n.mode {
		return
	}
	n.mode = m
	n.selected = -1
}

// Navigate moves the active cursor one unit and clears the selection.
func (n *Navigator) Navigate(dir calendar.Direction) {
	switch n.mode {
	case ModeWeekly:
		n.week = Navigate(n.week, dir)
	case ModeMonthly:
		n.month = Navigate(n.month, dir)
	default:
		n.day = Navigate(n.day, dir)
	}
	n.selected = -1
}

// GoTo points every cursor at the period containing d and clears the
// selection.
func (n *Navigator) GoTo(d calendar.Date) {
	n.day = calendar.NewDayCursor(d)
	n.week = calendar.NewWeekCursor(d)
	n.month = calendar.NewMonthCursor(d.Year, d.Month)
	n.selected = -1
}

// Today points every cursor at now.
func (n *Navigator) Today(now localtime.Instant) { n.GoTo(calendar.DateOf(now)) }

// Selected returns the selected day index within the current week or month.
func (n *Navigator) Selected() (int, bool) {
	if n.mode == ModeDaily || n.selected < 0 {
		return 0, false
	}
	return n.selected, true
}

// SelectedDate returns the date of the selected day.
func (n *Navigator) SelectedDate() (calendar.Date, bool) {
	i, ok := n.Selected()
	if !ok {
		return calendar.Date{}, false
	}
	return n.Cursor().Anchor().AddDays(i), true
}

// Select selects day i of the current period. Out-of-range indexes and the
// daily mode clear the selection.
func (n *Navigator) Select(i int) {
	if n.mode == ModeDaily || i < 0 || i >= n.Cursor().Len() {
		n.selected = -1
		return
	}
	n.selected = i
}

// Toggle selects day i, or clears the selection if i is already selected.
func (n *Navigator) Toggle(i int) {
	if cur, ok := n.Selected(); ok && cur == i {
		n.selected = -1
		return
	}
	n.Select(i)
}

// MoveSelection shifts the selection by delta, wrapping around the period.
// With nothing selected it starts at the first day (delta > 0) or the last.
func (n *Navigator) MoveSelection(delta int) {
	if n.mode == ModeDaily || delta == 0 {
		return
	}
	size := n.Cursor().Len()
	cur, ok := n.Selected()
	if !ok {
		if delta > 0 {
			n.selected = 0
		} else {
			n.selected = size - 1
		}
		return
	}
	n.selected = ((cur+delta)%size + size) % size
}

// ClearSelection drops the selection.
func (n *Navigator) ClearSelection() { n.selected = -1 }

// OpenSelectedDay switches to the daily report of the selected day. It
// reports false when nothing is selected.
func (n *Navigator) OpenSelectedDay() bool {
	d, ok := n.SelectedDate()
	if !ok {
		return false
	}
	n.day = calendar.NewDayCursor(d)
	n.mode = ModeDaily
	n.selected = -1
	return true
}
