package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/report"
	"github.com/theirongolddev/kburn/internal/tui/components"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	// metricRowHeight is a MetricCardRow: border, three lines, border.
	metricRowHeight = 5
	// chartCardTop is the offset of the chart inside its ContentCard:
	// top border and title.
	chartCardTop = 2
	// cardInsetX is the left border plus padding of a ContentCard.
	cardInsetX = 2
)

func (a App) renderPeriodTab(cw int) string {
	p := a.period
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(components.MetricCardRow(periodMetrics(p), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(cli.FormatCursorTitle(a.nav.Cursor()), a.periodChart(cw).Render(), cw))
	b.WriteString("\n")

	if a.hasSel {
		d := a.selDaily
		body := goalBody(d.Progress, cw) + "\n\n" + mealsBody(d, cw) + "\n\n" +
			dimStyle.Render("[enter] open day  [esc] clear selection")
		b.WriteString(components.ContentCard(cli.FormatDayTitle(d.Date), body, cw))
		return b.String()
	}

	body := macroBody(p.Macros.Protein, p.Macros.Carbs, p.Macros.Fat, cw) + "\n\n" +
		dimStyle.Render("[j/k] select a day  [←/→] previous / next")
	b.WriteString(components.ContentCard("Macros", body, cw))
	return b.String()
}

func periodMetrics(p report.Period) []components.Metric {
	t := theme.Active

	over := components.Metric{
		Label: "Days over goal",
		Value: fmt.Sprintf("%d / %d", p.DaysOverGoal, len(p.Days)),
	}
	if p.DaysOverGoal > 0 {
		over.Color = t.Red
	}

	avgColor := t.TextPrimary
	if p.Goal > 0 && p.Aggregate.Average > float64(p.Goal) {
		avgColor = t.Red
	}

	return []components.Metric{
		{Label: "Total", Value: cli.FormatNumber(int64(p.Aggregate.Total)), Delta: "kcal"},
		{
			Label: "Daily average",
			Value: cli.FormatNumber(int64(p.Aggregate.Average + 0.5)),
			Delta: fmt.Sprintf("%d of %d days logged", p.Aggregate.ActiveDays, p.Aggregate.Days),
			Color: avgColor,
		},
		{Label: "Goal", Value: cli.FormatNumber(int64(p.Goal)), Delta: "kcal / day"},
		over,
	}
}

// periodChart builds the bar chart for the current week or month. Mouse hit
// testing rebuilds it with the same inputs.
func (a App) periodChart(cw int) components.BarChart {
	p := a.period
	t := theme.Active

	values := make([]float64, len(p.Days))
	labels := make([]string, len(p.Days))
	for i, d := range p.Days {
		values[i] = float64(d.Kcal)
		labels[i] = chartLabel(p.Kind, d.Date)
	}

	sel := components.NoSelection
	if i, ok := a.nav.Selected(); ok {
		sel = i
	}

	return components.BarChart{
		Values:   values,
		Labels:   labels,
		Max:      float64(p.ChartMax),
		Goal:     float64(p.Goal),
		Selected: sel,
		Color:    t.Accent,
		Width:    components.CardInnerWidth(cw),
		Height:   a.chartHeight(),
	}
}

func chartLabel(kind calendar.Kind, d calendar.Date) string {
	if kind == calendar.Week {
		return cli.FormatDayOfWeek(d.Weekday())
	}
	return strconv.Itoa(d.Day)
}

func (a App) chartHeight() int {
	return min(max(a.height/3, 4), 12)
}

// chartIndexAt maps a terminal cell to a day of the period chart, or
// NoSelection when the cell is outside the plot.
func (a App) chartIndexAt(x, y int) int {
	if a.result == nil || a.nav.Mode() == report.ModeDaily || !a.onReportTab() {
		return components.NoSelection
	}
	chart := a.periodChart(a.contentWidth())
	top := headerHeight + metricRowHeight + chartCardTop
	if y < top || y >= top+lipgloss.Height(chart.Render()) {
		return components.NoSelection
	}
	return chart.IndexAt(x - a.contentOffset() - cardInsetX)
}
