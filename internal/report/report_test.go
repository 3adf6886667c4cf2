package report

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"
)

func meal(id, ts string, kcal int) model.MealLogEntry {
	in, err := localtime.Parse(ts)
	if err != nil {
		panic(err)
	}
	return model.MealLogEntry{ID: id, Name: "meal " + id, Calories: kcal, Timestamp: in}
}

func day(y int, m time.Month, d int) calendar.Date {
	return calendar.Date{Year: y, Month: m, Day: d}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		consumed, goal, want int
	}{
		{0, 2000, 0},
		{1000, 2000, 50},
		{1999, 2000, 100}, // 99.95 rounds up
		{1989, 2000, 99},
		{2000, 2000, 100},
		{2500, 2000, 100},
		{500, 0, 0},
		{500, -10, 0},
	}
	for _, tt := range tests {
		if got := ProgressPercent(tt.consumed, tt.goal); got != tt.want {
			t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.consumed, tt.goal, got, tt.want)
		}
	}
}

func TestDailyView_LateEveningMeal(t *testing.T) {
	entries := []model.MealLogEntry{meal("1", "2024-03-10T23:30:00", 500)}

	on10, err := DailyView(entries, calendar.NewDayCursor(day(2024, time.March, 10)), 2000)
	if err != nil {
		t.Fatal(err)
	}
	if len(on10.Entries) != 1 || on10.Consumed != 500 {
		t.Errorf("10 Mar = %d entries, %d kcal; want 1, 500", len(on10.Entries), on10.Consumed)
	}

	on11, _ := DailyView(entries, calendar.NewDayCursor(day(2024, time.March, 11)), 2000)
	if len(on11.Entries) != 0 || on11.Consumed != 0 {
		t.Errorf("11 Mar = %d entries, want 0", len(on11.Entries))
	}
}

func TestDailyView_OverGoal(t *testing.T) {
	entries := []model.MealLogEntry{
		meal("b", "2024-03-10T19:00:00", 1500),
		meal("a", "2024-03-10T08:00:00", 1000),
	}

	v, err := DailyView(entries, calendar.NewDayCursor(day(2024, time.March, 10)), 2000)
	if err != nil {
		t.Fatal(err)
	}
	if v.Consumed != 2500 {
		t.Errorf("Consumed = %d, want raw 2500", v.Consumed)
	}
	if v.ProgressPercent != 100 {
		t.Errorf("ProgressPercent = %d, want 100", v.ProgressPercent)
	}
	if !v.Progress.Over || v.Progress.Remaining != 0 {
		t.Errorf("Progress = %+v", v.Progress)
	}
	if v.Entries[0].ID != "a" || v.Entries[1].ID != "b" {
		t.Errorf("entries not ascending: %s, %s", v.Entries[0].ID, v.Entries[1].ID)
	}
	if v.Share[0].ID != "b" || math.Abs(v.Share[0].Percent-60) > 1e-9 {
		t.Errorf("Share[0] = %+v", v.Share[0])
	}
}

func TestDailyView_NoEntries(t *testing.T) {
	v, err := DailyView(nil, calendar.NewDayCursor(day(2024, time.March, 10)), 2000)
	if err != nil {
		t.Fatal(err)
	}
	if v.Entries == nil || len(v.Entries) != 0 {
		t.Errorf("Entries = %#v, want empty non-nil", v.Entries)
	}
	if v.Macros.Protein.Known {
		t.Error("Protein should be unknown for an empty day")
	}
	if v.Progress.Remaining != 2000 {
		t.Errorf("Remaining = %d", v.Progress.Remaining)
	}
}

func TestWeeklyView(t *testing.T) {
	// Sunday 2024-03-10; the week is Mon 4 .. Sun 10.
	entries := []model.MealLogEntry{
		meal("1", "2024-03-04T08:00:00", 500),
		meal("2", "2024-03-06T12:00:00", 600),
		meal("3", "2024-03-10T19:00:00", 400),
		meal("out", "2024-03-11T00:00:00", 9999),
	}

	v, err := WeeklyView(entries, calendar.NewWeekCursor(day(2024, time.March, 10)), 2000)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Days) != 7 {
		t.Fatalf("Days = %d, want 7", len(v.Days))
	}
	if v.Days[0].Date.Weekday() != time.Monday || v.Days[6].Date.Weekday() != time.Sunday {
		t.Errorf("week runs %v..%v", v.Days[0].Date.Weekday(), v.Days[6].Date.Weekday())
	}
	if v.Aggregate.Total != 1500 {
		t.Errorf("Total = %d, want 1500", v.Aggregate.Total)
	}
	if math.Abs(v.Aggregate.Average-214.2857) > 1e-3 {
		t.Errorf("Average = %f, want ~214.28", v.Aggregate.Average)
	}
	if v.ChartMax != 2000 {
		t.Errorf("ChartMax = %d, want goal 2000", v.ChartMax)
	}
	if v.Key != "2024-W10" {
		t.Errorf("Key = %q", v.Key)
	}
}

// Sunday 10 March closes week 10 and Monday 11 March opens week 11, so the
// two days never share a weekly total.
func TestViews_SundayAndMondaySplitAcrossWeeks(t *testing.T) {
	entries := []model.MealLogEntry{
		meal("b", "2024-03-10T19:30:00", 700),
		meal("a", "2024-03-10T08:00:00", 500),
		meal("c", "2024-03-11T08:00:00", 300),
	}

	d, err := DailyView(entries, calendar.NewDayCursor(day(2024, time.March, 10)), 2000)
	if err != nil {
		t.Fatal(err)
	}
	if d.Consumed != 1200 || len(d.Entries) != 2 {
		t.Fatalf("daily consumed=%d entries=%d, want 1200 and 2", d.Consumed, len(d.Entries))
	}
	if d.Entries[0].ID != "a" || d.Entries[1].ID != "b" {
		t.Errorf("daily order = %s,%s, want a,b", d.Entries[0].ID, d.Entries[1].ID)
	}

	tests := []struct {
		date        calendar.Date
		first, last calendar.Date
		total       int
		average     float64
	}{
		{day(2024, time.March, 10), day(2024, time.March, 4), day(2024, time.March, 10), 1200, 1200.0 / 7},
		{day(2024, time.March, 11), day(2024, time.March, 11), day(2024, time.March, 17), 300, 300.0 / 7},
	}
	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			w, err := WeeklyView(entries, calendar.NewWeekCursor(tt.date), 2000)
			if err != nil {
				t.Fatal(err)
			}
			if w.Days[0].Date != tt.first || w.Days[6].Date != tt.last {
				t.Errorf("week = %s..%s, want %s..%s", w.Days[0].Date, w.Days[6].Date, tt.first, tt.last)
			}
			if w.Aggregate.Total != tt.total {
				t.Errorf("Total = %d, want %d", w.Aggregate.Total, tt.total)
			}
			if math.Abs(w.Aggregate.Average-tt.average) > 1e-9 {
				t.Errorf("Average = %f, want %f", w.Aggregate.Average, tt.average)
			}
		})
	}
}

func TestMonthlyView_LeapFebruary(t *testing.T) {
	entries := []model.MealLogEntry{meal("1", "2024-02-29T12:00:00", 3000)}

	v, err := MonthlyView(entries, calendar.NewMonthCursor(2024, time.February), 2000)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Days) != 29 {
		t.Fatalf("Days = %d, want 29", len(v.Days))
	}
	if v.ChartMax != 3000 {
		t.Errorf("ChartMax = %d, want largest day 3000", v.ChartMax)
	}
	if v.DaysOverGoal != 1 {
		t.Errorf("DaysOverGoal = %d", v.DaysOverGoal)
	}
	if v.Last != day(2024, time.February, 29) {
		t.Errorf("Last = %v", v.Last)
	}
}

func TestChartMax_Floor(t *testing.T) {
	days := make([]model.DayAggregate, 7)
	if got := ChartMax(days, 0); got != 1 {
		t.Errorf("ChartMax(zeros, 0) = %d, want 1", got)
	}
}

func TestViews_RejectWrongCursor(t *testing.T) {
	d := calendar.NewDayCursor(day(2024, time.March, 10))
	w := calendar.NewWeekCursor(day(2024, time.March, 10))

	if _, err := DailyView(nil, w, 2000); !errors.Is(err, ErrCursorKind) {
		t.Errorf("DailyView(week) err = %v", err)
	}
	if _, err := WeeklyView(nil, d, 2000); !errors.Is(err, ErrCursorKind) {
		t.Errorf("WeeklyView(day) err = %v", err)
	}
	if _, err := MonthlyView(nil, w, 2000); !errors.Is(err, ErrCursorKind) {
		t.Errorf("MonthlyView(week) err = %v", err)
	}
}

func TestViews_DoNotMutateEntries(t *testing.T) {
	entries := []model.MealLogEntry{
		meal("b", "2024-03-10T19:00:00", 100),
		meal("a", "2024-03-10T08:00:00", 200),
	}
	snapshot := append([]model.MealLogEntry(nil), entries...)

	_, _ = DailyView(entries, calendar.NewDayCursor(day(2024, time.March, 10)), 2000)
	_, _ = WeeklyView(entries, calendar.NewWeekCursor(day(2024, time.March, 10)), 2000)

	for i := range entries {
		if entries[i] != snapshot[i] {
			t.Fatalf("entries[%d] changed: %+v", i, entries[i])
		}
	}
}
