package calendar

import (
	"testing"
	"time"
)

func TestMonthCursor_WrapsAcrossYears(t *testing.T) {
	c := NewMonthCursor(2024, time.January)

	prev := c.Advance(Prev)
	if a := prev.Anchor(); a.Year != 2023 || a.Month != time.December {
		t.Errorf("Jan 2024 prev = %v, want Dec 2023", prev)
	}
	next := prev.Advance(Next)
	if next != c {
		t.Errorf("prev then next = %v, want %v", next, c)
	}

	dec := NewMonthCursor(2024, time.December).Advance(Next)
	if a := dec.Anchor(); a.Year != 2025 || a.Month != time.January {
		t.Errorf("Dec 2024 next = %v, want Jan 2025", dec)
	}
}

func TestAdvance_ExactlyOneUnit(t *testing.T) {
	day := NewDayCursor(Date{2024, time.February, 28})
	if got := day.Advance(Next).Anchor(); got != (Date{2024, time.February, 29}) {
		t.Errorf("day next = %v", got)
	}

	week := NewWeekCursor(Date{2024, time.March, 10})
	if got := week.Advance(Next).Anchor(); got != (Date{2024, time.March, 11}) {
		t.Errorf("week next = %v", got)
	}
	if got := week.Advance(Prev).Anchor(); got != (Date{2024, time.February, 26}) {
		t.Errorf("week prev = %v", got)
	}

	// Only the sign matters.
	if got := day.Advance(Direction(5)); got != day.Advance(Next) {
		t.Errorf("Advance(5) = %v, want one day", got)
	}
	if got := day.Advance(0); got != day {
		t.Errorf("Advance(0) moved the cursor to %v", got)
	}
}

func TestAdvance_DoesNotMutate(t *testing.T) {
	c := NewMonthCursor(2024, time.March)
	_ = c.Advance(Next)
	if c.Anchor().Month != time.March {
		t.Errorf("Advance mutated receiver: %v", c)
	}
}

func TestCursor_RangeAndDates(t *testing.T) {
	tests := []struct {
		name      string
		c         Cursor
		wantLen   int
		wantFirst Date
		wantEnd   Date
	}{
		{"day", NewDayCursor(Date{2024, time.March, 10}), 1, Date{2024, time.March, 10}, Date{2024, time.March, 11}},
		{"week", NewWeekCursor(Date{2024, time.March, 10}), 7, Date{2024, time.March, 4}, Date{2024, time.March, 11}},
		{"leap month", NewMonthCursor(2024, time.February), 29, Date{2024, time.February, 1}, Date{2024, time.March, 1}},
		{"december", NewMonthCursor(2023, time.December), 31, Date{2023, time.December, 1}, Date{2024, time.January, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := tt.c.Dates()
			if len(dates) != tt.wantLen || tt.c.Len() != tt.wantLen {
				t.Fatalf("len = %d/%d, want %d", len(dates), tt.c.Len(), tt.wantLen)
			}
			if dates[0] != tt.wantFirst {
				t.Errorf("first = %v, want %v", dates[0], tt.wantFirst)
			}
			start, end := tt.c.Range()
			if DateOf(start) != tt.wantFirst || DateOf(end) != tt.wantEnd {
				t.Errorf("Range = [%v, %v)", start, end)
			}
			if !tt.c.Contains(dates[len(dates)-1]) || tt.c.Contains(tt.wantEnd) {
				t.Error("Contains disagrees with Range")
			}
		})
	}
}

func TestCursor_Key(t *testing.T) {
	tests := []struct {
		c    Cursor
		want string
	}{
		{NewDayCursor(Date{2024, time.March, 10}), "2024-03-10"},
		{NewWeekCursor(Date{2024, time.March, 10}), "2024-W10"},
		{NewMonthCursor(2024, time.March), "2024-03"},
	}
	for _, tt := range tests {
		if got := tt.c.Key(); got != tt.want {
			t.Errorf("%v Key() = %q, want %q", tt.c.Kind(), got, tt.want)
		}
	}
}
