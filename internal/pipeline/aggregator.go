// Package pipeline orchestrates meal-log loading, caching, and aggregation.
package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"
)

// IndexByDay groups entries by the calendar day of their timestamp. Entries
// keep their input order within a day.
func IndexByDay(entries []model.MealLogEntry) map[calendar.Date][]model.MealLogEntry {
	index := make(map[calendar.Date][]model.MealLogEntry)
	for _, e := range entries {
		d := calendar.DateOf(e.Timestamp)
		index[d] = append(index[d], e)
	}
	return index
}

// AggregateDay sums one day's entries. Calories are always summed. Each
// macro is unknown only when no entry knows it; otherwise entries with an
// unknown value count as zero.
func AggregateDay(date calendar.Date, entries []model.MealLogEntry) model.DayAggregate {
	agg := model.DayAggregate{Date: date}
	for _, e := range entries {
		agg.Entries++
		agg.Kcal += e.Calories
		agg.Protein = addMacro(agg.Protein, e.Protein)
		agg.Carbs = addMacro(agg.Carbs, e.Carbs)
		agg.Fat = addMacro(agg.Fat, e.Fat)
	}
	return agg
}

func addMacro(acc, v model.Macro) model.Macro {
	if !v.Known {
		return acc
	}
	return model.Grams(acc.Value + v.Value)
}

// AggregateDays returns one aggregate per date, in the order given. Dates
// without entries are zero-filled so charts show gaps as zeros.
func AggregateDays(index map[calendar.Date][]model.MealLogEntry, dates []calendar.Date) []model.DayAggregate {
	days := make([]model.DayAggregate, len(dates))
	for i, d := range dates {
		days[i] = AggregateDay(d, index[d])
	}
	return days
}

// AggregatePeriod totals a week or month. The average divides by
// periodLength (7, or the number of days in the month) regardless of how
// many days had entries.
func AggregatePeriod(days []model.DayAggregate, periodLength int) model.PeriodAggregate {
	p := model.PeriodAggregate{Days: periodLength}
	for _, d := range days {
		p.Total += d.Kcal
		if d.Entries > 0 {
			p.ActiveDays++
		}
	}
	if periodLength > 0 {
		p.Average = float64(p.Total) / float64(periodLength)
	}
	return p
}

// SumMacros adds each macro over the days where it is known. A macro stays
// unknown when no day in the period knows it.
func SumMacros(days []model.DayAggregate) model.MacroTotals {
	var t model.MacroTotals
	for _, d := range days {
		t.Protein = addMacro(t.Protein, d.Protein)
		t.Carbs = addMacro(t.Carbs, d.Carbs)
		t.Fat = addMacro(t.Fat, d.Fat)
	}
	return t
}

// CalorieShare returns each entry's share of the total calories, largest
// first. Percent is zero for every row when the total is zero.
func CalorieShare(entries []model.MealLogEntry) []model.ShareRow {
	total := 0
	for _, e := range entries {
		total += e.Calories
	}

	sorted := SortByTime(entries)
	rows := make([]model.ShareRow, 0, len(sorted))
	for _, e := range sorted {
		row := model.ShareRow{ID: e.ID, Name: e.Name, Kcal: e.Calories}
		if total > 0 {
			row.Percent = float64(e.Calories) / float64(total) * 100
		}
		rows = append(rows, row)
	}

	// Stable on a time-ordered slice: ties keep the earlier meal first.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Kcal > rows[j].Kcal
	})
	return rows
}

// AggregateHourly buckets one day's calories into 24 hours.
func AggregateHourly(entries []model.MealLogEntry, date calendar.Date) []model.HourlyIntake {
	hours := make([]model.HourlyIntake, 24)
	for i := range hours {
		hours[i].Hour = i
	}

	for _, e := range entries {
		if calendar.DateOf(e.Timestamp) != date {
			continue
		}
		h := e.Timestamp.Hour
		hours[h].Kcal += e.Calories
		hours[h].Entries++
	}
	return hours
}

// FilterByRange returns entries with timestamps in [start, end).
func FilterByRange(entries []model.MealLogEntry, start, end localtime.Instant) []model.MealLogEntry {
	var out []model.MealLogEntry
	for _, e := range entries {
		if e.Timestamp.Before(start) || !e.Timestamp.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterByName returns entries whose name contains substr (case-insensitive).
func FilterByName(entries []model.MealLogEntry, substr string) []model.MealLogEntry {
	if substr == "" {
		return entries
	}
	var out []model.MealLogEntry
	for _, e := range entries {
		if containsIgnoreCase(e.Name, substr) {
			out = append(out, e)
		}
	}
	return out
}

// SortByTime returns a copy of entries ordered by timestamp, oldest first.
// Entries at the same instant are ordered by ID.
func SortByTime(entries []model.MealLogEntry) []model.MealLogEntry {
	out := make([]model.MealLogEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Timestamp.Compare(out[j].Timestamp); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
