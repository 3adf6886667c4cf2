package model

import "github.com/theirongolddev/kburn/internal/calendar"

// DayAggregate holds the totals for one calendar day.
type DayAggregate struct {
	Date    calendar.Date `json:"date"`
	Kcal    int           `json:"kcal"`
	Protein Macro         `json:"protein"`
	Carbs   Macro         `json:"carbs"`
	Fat     Macro         `json:"fat"`
	Entries int           `json:"entries"`
}

// PeriodAggregate holds the totals for a week or a month.
type PeriodAggregate struct {
	Total int `json:"total"`
	// Average is Total divided by the number of days in the period, not by
	// the number of days that had entries.
	Average    float64 `json:"average"`
	Days       int     `json:"days"`
	ActiveDays int     `json:"active_days"`
}

// MacroTotals sums each macro over the days that know it.
type MacroTotals struct {
	Protein Macro `json:"protein"`
	Carbs   Macro `json:"carbs"`
	Fat     Macro `json:"fat"`
}

// ShareRow is one entry's slice of a day's calories.
type ShareRow struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Kcal    int     `json:"kcal"`
	Percent float64 `json:"percent"`
}

// GoalProgress relates consumed calories to the daily goal.
type GoalProgress struct {
	Goal     int `json:"goal"`
	Consumed int `json:"consumed"`
	// Percent is clamped to [0, 100]; Consumed stays raw.
	Percent   int  `json:"percent"`
	Remaining int  `json:"remaining"`
	Over      bool `json:"over"`
}

// HourlyIntake holds calories logged in one hour of a day.
type HourlyIntake struct {
	Hour    int `json:"hour"`
	Kcal    int `json:"kcal"`
	Entries int `json:"entries"`
}
