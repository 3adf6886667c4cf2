// Package report builds the daily, weekly and monthly views shown to the
// user. Every view is a pure function of the entries, a cursor and the
// calorie goal; nothing here does I/O or holds state between calls.
package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/pipeline"
)

// ErrCursorKind is returned when a view is given a cursor of another kind.
var ErrCursorKind = errors.New("report: cursor has the wrong kind")

// GoalFunc resolves the goal for a report anchored at d, given the goal the
// backend returned (0 when unknown).
type GoalFunc func(backend int, d calendar.Date) int

// Daily is the report for one day.
type Daily struct {
	Date    calendar.Date        `json:"date"`
	Entries []model.MealLogEntry `json:"entries"`
	// Consumed is the raw calorie sum; it is never clamped.
	Consumed        int                  `json:"consumed"`
	Goal            int                  `json:"goal"`
	ProgressPercent int                  `json:"progress_percent"`
	Progress        model.GoalProgress   `json:"progress"`
	Macros          model.DayAggregate   `json:"macros"`
	Share           []model.ShareRow     `json:"share"`
	Hourly          []model.HourlyIntake `json:"hourly"`
	MissingCalories int                  `json:"missing_calories"`
}

// Period is the report for a week or a month.
type Period struct {
	Kind      calendar.Kind         `json:"-"`
	Key       string                `json:"key"`
	First     calendar.Date         `json:"first"`
	Last      calendar.Date         `json:"last"`
	Days      []model.DayAggregate  `json:"days"`
	Aggregate model.PeriodAggregate `json:"aggregate"`
	Macros    model.MacroTotals     `json:"macros"`
	Goal      int                   `json:"goal"`
	// ChartMax is the y-axis ceiling: max(goal, largest day, 1).
	ChartMax     int `json:"chart_max"`
	DaysOverGoal int `json:"days_over_goal"`
}

// ProgressPercent is round(consumed / goal * 100) clamped to [0, 100].
// A non-positive goal gives 0.
func ProgressPercent(consumed, goal int) int {
	if goal <= 0 {
		return 0
	}
	pct := int(math.Round(float64(consumed) / float64(goal) * 100))
	return min(max(pct, 0), 100)
}

// Progress relates consumed calories to the goal.
func Progress(consumed, goal int) model.GoalProgress {
	return model.GoalProgress{
		Goal:      goal,
		Consumed:  consumed,
		Percent:   ProgressPercent(consumed, goal),
		Remaining: max(goal-consumed, 0),
		Over:      goal > 0 && consumed > goal,
	}
}

// ChartMax returns max(goal, the largest day's kcal, 1).
func ChartMax(days []model.DayAggregate, goal int) int {
	m := max(goal, 1)
	for _, d := range days {
		m = max(m, d.Kcal)
	}
	return m
}

// DailyView reports the day under c. Entries inside [start of day, start of
// next day) are returned oldest first.
func DailyView(entries []model.MealLogEntry, c calendar.Cursor, goal int) (Daily, error) {
	if c.Kind() != calendar.Day {
		return Daily{}, fmt.Errorf("daily view of %v: %w", c, ErrCursorKind)
	}

	start, end := c.Range()
	day := pipeline.SortByTime(pipeline.FilterByRange(entries, start, end))
	agg := pipeline.AggregateDay(c.Anchor(), day)

	missing := 0
	for _, e := range day {
		if e.CaloriesMissing {
			missing++
		}
	}

	if day == nil {
		day = []model.MealLogEntry{}
	}
	return Daily{
		Date:            c.Anchor(),
		Entries:         day,
		Consumed:        agg.Kcal,
		Goal:            goal,
		ProgressPercent: ProgressPercent(agg.Kcal, goal),
		Progress:        Progress(agg.Kcal, goal),
		Macros:          agg,
		Share:           pipeline.CalorieShare(day),
		Hourly:          pipeline.AggregateHourly(day, c.Anchor()),
		MissingCalories: missing,
	}, nil
}

// WeeklyView reports the Monday-to-Sunday week under c.
func WeeklyView(entries []model.MealLogEntry, c calendar.Cursor, goal int) (Period, error) {
	if c.Kind() != calendar.Week {
		return Period{}, fmt.Errorf("weekly view of %v: %w", c, ErrCursorKind)
	}
	return periodView(entries, c, goal), nil
}

// MonthlyView reports every day of the month under c.
func MonthlyView(entries []model.MealLogEntry, c calendar.Cursor, goal int) (Period, error) {
	if c.Kind() != calendar.Month {
		return Period{}, fmt.Errorf("monthly view of %v: %w", c, ErrCursorKind)
	}
	return periodView(entries, c, goal), nil
}

func periodView(entries []model.MealLogEntry, c calendar.Cursor, goal int) Period {
	start, end := c.Range()
	index := pipeline.IndexByDay(pipeline.FilterByRange(entries, start, end))
	days := pipeline.AggregateDays(index, c.Dates())

	over := 0
	if goal > 0 {
		for _, d := range days {
			if d.Kcal > goal {
				over++
			}
		}
	}

	return Period{
		Kind:         c.Kind(),
		Key:          c.Key(),
		First:        c.Anchor(),
		Last:         c.Last(),
		Days:         days,
		Aggregate:    pipeline.AggregatePeriod(days, c.Len()),
		Macros:       pipeline.SumMacros(days),
		Goal:         goal,
		ChartMax:     ChartMax(days, goal),
		DaysOverGoal: over,
	}
}

// Navigate moves c one unit in dir.
func Navigate(c calendar.Cursor, dir calendar.Direction) calendar.Cursor {
	return c.Advance(dir)
}
