package calendar

import (
	"testing"
	"time"

	"github.com/theirongolddev/kburn/internal/localtime"
)

func at(y int, m time.Month, d, h, mi int) localtime.Instant {
	return localtime.Instant{Year: y, Month: m, Day: d, Hour: h, Minute: mi}
}

func TestStartAndEndOfDay(t *testing.T) {
	i := at(2024, time.December, 31, 23, 30)

	if got := StartOfDay(i); got != at(2024, time.December, 31, 0, 0) {
		t.Errorf("StartOfDay = %v", got)
	}
	if got := EndOfDay(i); got != at(2025, time.January, 1, 0, 0) {
		t.Errorf("EndOfDay = %v, want next-day start", got)
	}
}

func TestStartOfWeek_AlwaysMonday(t *testing.T) {
	d := Date{2023, time.December, 1}
	for range 120 {
		i := d.Start()
		i.Hour = 17
		got := StartOfWeek(i)
		gd := DateOf(got)

		if gd.Weekday() != time.Monday {
			t.Fatalf("StartOfWeek(%v) = %v, a %v", d, got, gd.Weekday())
		}
		if gd.After(d) {
			t.Fatalf("StartOfWeek(%v) = %v is after the input", d, got)
		}
		if d.AddDays(-6).After(gd) {
			t.Fatalf("StartOfWeek(%v) = %v is more than six days back", d, got)
		}
		if got.Hour != 0 {
			t.Fatalf("StartOfWeek(%v) kept time of day %v", d, got)
		}
		d = d.AddDays(1)
	}
}

func TestStartOfWeek_SundayGoesBack(t *testing.T) {
	// 2024-03-10 is a Sunday.
	got := DateOf(StartOfWeek(at(2024, time.March, 10, 12, 0)))
	want := Date{2024, time.March, 4}
	if got != want {
		t.Errorf("StartOfWeek(Sunday) = %v, want %v", got, want)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, monthIndex, want int
	}{
		{2024, 1, 29},
		{2023, 1, 28},
		{1900, 1, 28},
		{2000, 1, 29},
		{2024, 0, 31},
		{2024, 3, 30},
		{2024, 11, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.monthIndex); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.monthIndex, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if d != (Date{2024, time.March, 10}) {
		t.Errorf("ParseDate = %v", d)
	}
	if d.String() != "2024-03-10" {
		t.Errorf("String() = %q", d.String())
	}
	if _, err := ParseDate("10/03/2024"); err == nil {
		t.Error("ParseDate accepted a non ISO date")
	}
}
