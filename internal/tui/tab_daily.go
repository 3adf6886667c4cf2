package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/report"
	"github.com/theirongolddev/kburn/internal/tui/components"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// maxShareRows caps the calorie share card; the rest are summarised.
const maxShareRows = 8

func (a App) renderDailyTab(cw int) string {
	d := a.daily

	var b strings.Builder
	b.WriteString(components.ContentCard("Goal", goalBody(d.Progress, cw), cw))
	b.WriteString("\n")
	b.WriteString(components.MetricCardRow(dayMetrics(d), cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Macros", macroBody(d.Macros.Protein, d.Macros.Carbs, d.Macros.Fat, cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Calorie share", shareBody(d.Share, cw), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Macros", macroBody(d.Macros.Protein, d.Macros.Carbs, d.Macros.Fat, halves[0]), halves[0]),
			components.ContentCard("Calorie share", shareBody(d.Share, halves[1]), halves[1]),
		}))
	}
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Meals", mealsBody(d, cw), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("By hour", hourlyBody(d.Hourly), cw))

	return b.String()
}

// goalBody is the progress bar with the consumed / goal line under it.
func goalBody(p model.GoalProgress, outer int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(t.GoalColor(p.Percent, p.Over)).Background(t.Surface)

	if p.Goal <= 0 {
		return valueStyle.Render(cli.FormatKcal(p.Consumed)) + dimStyle.Render("  no goal set")
	}

	status := cli.FormatKcal(p.Remaining) + " left"
	if p.Over {
		status = cli.FormatKcal(p.Consumed-p.Goal) + " over"
	}
	return components.GoalBar(p, components.CardInnerWidth(outer)) + "\n" +
		valueStyle.Render(cli.FormatNumber(int64(p.Consumed))) +
		dimStyle.Render(" / ") +
		valueStyle.Render(cli.FormatKcal(p.Goal)) +
		dimStyle.Render("  ·  ") +
		statusStyle.Render(status)
}

func dayMetrics(d report.Daily) []components.Metric {
	t := theme.Active
	p := d.Progress

	left := components.Metric{Label: "Remaining", Value: cli.FormatNumber(int64(p.Remaining)), Delta: "kcal"}
	if p.Over {
		left = components.Metric{
			Label: "Over goal",
			Value: cli.FormatNumber(int64(p.Consumed - p.Goal)),
			Delta: "kcal",
			Color: t.Red,
		}
	}

	meals := components.Metric{Label: "Meals", Value: fmt.Sprintf("%d", len(d.Entries))}
	if d.MissingCalories > 0 {
		meals.Delta = fmt.Sprintf("%d without kcal", d.MissingCalories)
	}

	return []components.Metric{
		{
			Label: "Consumed",
			Value: cli.FormatNumber(int64(d.Consumed)),
			Delta: fmt.Sprintf("%d%% of goal", d.ProgressPercent),
			Color: t.GoalColor(p.Percent, p.Over),
		},
		{Label: "Goal", Value: cli.FormatNumber(int64(d.Goal)), Delta: "kcal"},
		left,
		meals,
	}
}

// macroBody draws protein, carbs and fat scaled against the largest known
// one. Unknown macros show the placeholder.
func macroBody(protein, carbs, fat model.Macro, outer int) string {
	t := theme.Active

	peak := max(protein.Or(0), carbs.Or(0), fat.Or(0))
	const labelW = 8
	barW := max(components.CardInnerWidth(outer)-labelW-10, 4)

	return strings.Join([]string{
		components.MacroBar("Protein", protein, peak, t.Protein, labelW, barW),
		components.MacroBar("Carbs", carbs, peak, t.Carbs, labelW, barW),
		components.MacroBar("Fat", fat, peak, t.Fat, labelW, barW),
	}, "\n")
}

// shareBody lists each meal's slice of the day, largest first.
func shareBody(rows []model.ShareRow, outer int) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if len(rows) == 0 {
		return pctStyle.Render("No meals logged.")
	}

	inner := components.CardInnerWidth(outer)
	nameW := min(max(inner/3, 8), 24)
	barW := max(inner-nameW-9, 4)

	var b strings.Builder
	for i, r := range rows {
		if i == maxShareRows {
			b.WriteString(pctStyle.Render(fmt.Sprintf("… %d more", len(rows)-maxShareRows)))
			break
		}
		n := int(r.Percent / 100 * float64(barW))
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(r.Name, nameW))))
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(barStyle.Render(strings.Repeat("█", n)))
		b.WriteString(spaceStyle.Render(strings.Repeat(" ", barW-n)))
		b.WriteString(pctStyle.Render(fmt.Sprintf(" %5.1f%%", r.Percent)))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// mealsBody is the day's log, oldest first.
func mealsBody(d report.Daily, outer int) string {
	t := theme.Active
	timeStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	kcalStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if len(d.Entries) == 0 {
		return dimStyle.Render("No meals logged.")
	}

	inner := components.CardInnerWidth(outer)
	const timeW, kcalW = 8, 10
	nameW := min(max(inner/3, 12), 32)
	remarksW := max(inner-timeW-kcalW-nameW-3, 0)

	var b strings.Builder
	for i, e := range d.Entries {
		kcal := cli.FormatKcal(e.Calories)
		ks := kcalStyle
		if e.CaloriesMissing {
			kcal = cli.Placeholder
			ks = warnStyle
		}
		b.WriteString(timeStyle.Render(cli.FormatClock(e.Timestamp)))
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(e.Name, nameW))))
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(ks.Render(fmt.Sprintf("%*s", kcalW, kcal)))
		if e.Remarks != "" && remarksW > 0 {
			b.WriteString(spaceStyle.Render(" "))
			b.WriteString(dimStyle.Render(truncStr(e.Remarks, remarksW)))
		}
		if i < len(d.Entries)-1 {
			b.WriteString("\n")
		}
	}
	if d.MissingCalories > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d meal(s) had no calorie value and count as 0.", d.MissingCalories)))
	}
	return b.String()
}

// hourlyBody is a 24-hour sparkline with a sparse hour axis.
func hourlyBody(hours []model.HourlyIntake) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	values := make([]float64, len(hours))
	for i, h := range hours {
		values[i] = float64(h.Kcal)
	}

	// Each hour is one column; label every sixth.
	axis := []rune(strings.Repeat(" ", len(hours)))
	for h := 0; h < len(hours); h += 6 {
		copy(axis[h:], []rune(cli.FormatHour(h)))
	}
	return components.Sparkline(values, t.Accent) + "\n" + dimStyle.Render(string(axis))
}
