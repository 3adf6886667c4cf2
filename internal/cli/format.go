// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"
)

// Placeholder is shown for values that are unknown.
const Placeholder = "–"

var (
	monthAbbr = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	dayAbbr   = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatKcal formats a calorie amount, e.g. 1850 -> "1,850 kcal".
func FormatKcal(kcal int) string {
	return FormatNumber(int64(kcal)) + " kcal"
}

// FormatGrams formats a macro to one decimal, or the placeholder when unknown.
func FormatGrams(m model.Macro) string {
	if !m.Known {
		return Placeholder
	}
	v := math.Round(m.Value*10) / 10
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f g", v)
	}
	return fmt.Sprintf("%.1f g", v)
}

// FormatPercent formats a 0-100 value as a percentage string.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a signed difference from the goal, e.g. "+120 kcal".
func FormatDelta(consumed, goal int) string {
	delta := consumed - goal
	if delta >= 0 {
		return "+" + FormatKcal(delta)
	}
	return "-" + FormatKcal(-delta)
}

// FormatDayOfWeek returns a 3-letter day abbreviation.
func FormatDayOfWeek(weekday time.Weekday) string {
	if weekday >= 0 && int(weekday) < len(dayAbbr) {
		return dayAbbr[weekday]
	}
	return "???"
}

func monthName(m time.Month) string {
	if m >= time.January && m <= time.December {
		return monthAbbr[m-1]
	}
	return "???"
}

// FormatDayShort formats a date as "05 Mar".
func FormatDayShort(d calendar.Date) string {
	return fmt.Sprintf("%02d %s", d.Day, monthName(d.Month))
}

// FormatDayTitle formats a date as "05 Mar 2024 (Tue)".
func FormatDayTitle(d calendar.Date) string {
	return fmt.Sprintf("%s %d (%s)", FormatDayShort(d), d.Year, FormatDayOfWeek(d.Weekday()))
}

// FormatWeekTitle formats the week starting at monday. The year is written
// once when the whole week falls in one month.
// e.g., "04 Mar – 10 Mar 2024", "26 Feb 2024 – 03 Mar 2024"
func FormatWeekTitle(monday calendar.Date) string {
	end := monday.AddDays(6)
	if monday.Month == end.Month && monday.Year == end.Year {
		return fmt.Sprintf("%s – %s %d", FormatDayShort(monday), FormatDayShort(end), end.Year)
	}
	return fmt.Sprintf("%s %d – %s %d", FormatDayShort(monday), monday.Year, FormatDayShort(end), end.Year)
}

// FormatMonthTitle formats a month as "Mar 2024".
func FormatMonthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", monthName(month), year)
}

// FormatCursorTitle picks the title format for the cursor's kind.
func FormatCursorTitle(c calendar.Cursor) string {
	a := c.Anchor()
	switch c.Kind() {
	case calendar.Week:
		return FormatWeekTitle(a)
	case calendar.Month:
		return FormatMonthTitle(a.Year, a.Month)
	default:
		return FormatDayTitle(a)
	}
}

// FormatClock formats the wall-clock time on a 12-hour dial, e.g. "08:05 PM".
func FormatClock(i localtime.Instant) string {
	h := i.Hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if i.Hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", h, i.Minute, suffix)
}

// FormatHour labels an hour of the day, e.g. 0 -> "12a", 13 -> "1p".
func FormatHour(hour int) string {
	h := hour % 12
	if h == 0 {
		h = 12
	}
	if hour >= 12 {
		return strconv.Itoa(h) + "p"
	}
	return strconv.Itoa(h) + "a"
}

// FormatAgo formats how long ago t was relative to now, e.g. "3m ago".
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
