package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/report"

	"github.com/spf13/cobra"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Monday to Sunday totals for the week of --date",
	RunE:  runWeekly,
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(cmd *cobra.Command, _ []string) error {
	date, err := referenceDate()
	if err != nil {
		return err
	}
	result, err := loadReportData(cmd)
	if err != nil {
		return err
	}

	c := calendar.NewWeekCursor(date)
	p, err := report.WeeklyView(result.Entries, c, goalFunc()(result.Goal, c.Anchor()))
	if err != nil {
		return err
	}
	printPeriod(cmd.OutOrStdout(), "WEEKLY  "+cli.FormatCursorTitle(c), p)
	return nil
}

// printPeriod renders a week or month report.
func printPeriod(w io.Writer, title string, p report.Period) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(title))
	fmt.Fprintln(w)

	agg := p.Aggregate
	fmt.Fprintf(w, "  Total:          %s\n", cli.FormatKcal(agg.Total))
	fmt.Fprintf(w, "  Daily average:  %s  (%d of %d days logged)\n",
		cli.GoalStyle(int(agg.Average+0.5), p.Goal).Render(cli.FormatKcal(int(agg.Average+0.5))),
		agg.ActiveDays, agg.Days)
	if p.Goal > 0 {
		fmt.Fprintf(w, "  Goal:           %s / day\n", cli.FormatKcal(p.Goal))
		fmt.Fprintf(w, "  Over goal:      %d of %d days\n", p.DaysOverGoal, len(p.Days))
	}
	fmt.Fprintln(w)

	values := make([]int, len(p.Days))
	for i, d := range p.Days {
		values[i] = d.Kcal
		dow := cli.FormatDayOfWeek(d.Date.Weekday())
		label := fmt.Sprintf("%s %02d", dow, d.Date.Day)
		if p.Kind == calendar.Month {
			label = fmt.Sprintf("%2d %s", d.Date.Day, dow)
		}
		fmt.Fprintln(w, cli.RenderHorizontalBar(label, d.Kcal, p.Goal, p.ChartMax, 30))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Trend  %s\n", cli.RenderSparkline(values))
	fmt.Fprintln(w)

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Macros",
		Headers: []string{"Protein", "Carbs", "Fat"},
		Rows:    [][]string{{cli.FormatGrams(p.Macros.Protein), cli.FormatGrams(p.Macros.Carbs), cli.FormatGrams(p.Macros.Fat)}},
	}))
}
