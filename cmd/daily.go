package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/report"

	"github.com/spf13/cobra"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "One day's meals against the calorie goal",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	date, err := referenceDate()
	if err != nil {
		return err
	}
	result, err := loadReportData(cmd)
	if err != nil {
		return err
	}

	d, err := report.DailyView(result.Entries, calendar.NewDayCursor(date), goalFunc()(result.Goal, date))
	if err != nil {
		return err
	}
	printDaily(cmd.OutOrStdout(), d)
	return nil
}

func printDaily(w io.Writer, d report.Daily) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("DAILY  "+cli.FormatDayTitle(d.Date)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", cli.RenderGoalBar(d.Consumed, d.Goal, d.ProgressPercent, 30))
	if d.Goal > 0 {
		if d.Progress.Over {
			fmt.Fprintf(w, "  Over goal by %s\n", cli.FormatKcal(d.Consumed-d.Goal))
		} else {
			fmt.Fprintf(w, "  %s remaining\n", cli.FormatKcal(d.Progress.Remaining))
		}
	}
	fmt.Fprintln(w)

	if len(d.Entries) == 0 {
		fmt.Fprintln(w, "  No meals logged.")
		return
	}

	share := make(map[string]float64, len(d.Share))
	for _, s := range d.Share {
		share[s.ID] = s.Percent
	}

	rows := make([][]string, 0, len(d.Entries)+2)
	for _, e := range d.Entries {
		kcal := cli.FormatNumber(int64(e.Calories))
		if e.CaloriesMissing {
			kcal = cli.Placeholder
		}
		rows = append(rows, []string{
			cli.FormatClock(e.Timestamp),
			e.Name,
			e.Remarks,
			kcal,
			cli.FormatPercent(share[e.ID]),
		})
	}
	rows = append(rows, cli.SeparatorRow, []string{"", "Total", "", cli.FormatNumber(int64(d.Consumed)), ""})

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:    "Meals",
		Headers:  []string{"Time", "Meal", "Remarks", "Kcal", "Share"},
		Rows:     rows,
		LeftCols: 3,
	}))
	fmt.Fprintln(w)

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Macros",
		Headers: []string{"Protein", "Carbs", "Fat"},
		Rows:    [][]string{{cli.FormatGrams(d.Macros.Protein), cli.FormatGrams(d.Macros.Carbs), cli.FormatGrams(d.Macros.Fat)}},
	}))
	fmt.Fprintln(w)

	hourly := make([]int, len(d.Hourly))
	for i, h := range d.Hourly {
		hourly[i] = h.Kcal
	}
	fmt.Fprintf(w, "  By hour   %s\n", cli.RenderSparkline(hourly))
	fmt.Fprintf(w, "            %s\n", hourAxis(len(hourly)))

	if d.MissingCalories > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %d %s no calorie value and %s as 0 kcal\n",
			d.MissingCalories, plural(d.MissingCalories, "meal has", "meals have"), plural(d.MissingCalories, "counts", "count"))
	}
}

// hourAxis labels every sixth hour under a 24-cell sparkline.
func hourAxis(n int) string {
	var b strings.Builder
	for h := 0; h < n; h += 6 {
		label := cli.FormatHour(h)
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", max(6-len(label), 1)))
	}
	return strings.TrimRight(b.String(), " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
