package cmd

import (
	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/report"

	"github.com/spf13/cobra"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Per-day totals for the month of --date",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(cmd *cobra.Command, _ []string) error {
	date, err := referenceDate()
	if err != nil {
		return err
	}
	result, err := loadReportData(cmd)
	if err != nil {
		return err
	}

	c := calendar.NewMonthCursor(date.Year, date.Month)
	p, err := report.MonthlyView(result.Entries, c, goalFunc()(result.Goal, c.Anchor()))
	if err != nil {
		return err
	}
	printPeriod(cmd.OutOrStdout(), "MONTHLY  "+cli.FormatCursorTitle(c), p)
	return nil
}
