package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/report"

	"github.com/spf13/cobra"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Calories by hour of day",
	RunE:  runHourly,
}

func init() {
	rootCmd.AddCommand(hourlyCmd)
}

func runHourly(cmd *cobra.Command, _ []string) error {
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

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("BY HOUR  "+cli.FormatDayTitle(d.Date)))
	fmt.Fprintln(w)

	if len(d.Entries) == 0 {
		fmt.Fprintln(w, "  No meals logged.")
		return nil
	}

	// Find max for bar scaling
	maxKcal := 0
	for _, h := range d.Hourly {
		maxKcal = max(maxKcal, h.Kcal)
	}

	maxBarWidth := 40
	peakHour := 0
	for _, h := range d.Hourly {
		barLen := 0
		if maxKcal > 0 {
			barLen = h.Kcal * maxBarWidth / maxKcal
		}
		bar := strings.Repeat("█", barLen)
		fmt.Fprintf(w, "  %02d:00 │ %6s │ %s\n", h.Hour, cli.FormatNumber(int64(h.Kcal)), bar)

		if h.Kcal > d.Hourly[peakHour].Kcal {
			peakHour = h.Hour
		}
	}

	peak := d.Hourly[peakHour]
	fmt.Fprintf(w, "\n  Peak: %02d:00 (%s over %d %s)\n\n",
		peak.Hour, cli.FormatKcal(peak.Kcal), peak.Entries, plural(peak.Entries, "meal", "meals"))
	return nil
}
