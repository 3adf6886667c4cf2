package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	mealsDays  int
	mealsLimit int
)

var mealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "Meal list with ids, newest first",
	RunE:  runMeals,
}

func init() {
	mealsCmd.Flags().IntVarP(&mealsDays, "days", "n", 7, "Days to list, ending at --date")
	mealsCmd.Flags().IntVarP(&mealsLimit, "limit", "l", 50, "Number of meals to show (0 for all)")
	rootCmd.AddCommand(mealsCmd)
}

func runMeals(cmd *cobra.Command, _ []string) error {
	last, err := referenceDate()
	if err != nil {
		return err
	}
	if mealsDays < 1 {
		return errors.New("--days must be at least 1")
	}
	result, err := loadReportData(cmd)
	if err != nil {
		return err
	}

	first := last.AddDays(1 - mealsDays)
	meals := pipeline.SortByTime(pipeline.FilterByRange(result.Entries, first.Start(), last.AddDays(1).Start()))
	slices.Reverse(meals)

	w := cmd.OutOrStdout()
	if len(meals) == 0 {
		fmt.Fprintf(w, "\n  No meals between %s and %s.\n", first, last)
		return nil
	}

	shown := meals
	if mealsLimit > 0 && len(shown) > mealsLimit {
		shown = shown[:mealsLimit]
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(fmt.Sprintf("MEALS  %s – %s (showing %d of %d)",
		cli.FormatDayShort(first), cli.FormatDayShort(last), len(shown), len(meals))))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(shown))
	for _, m := range shown {
		kcal := cli.FormatNumber(int64(m.Calories))
		if m.CaloriesMissing {
			kcal = cli.Placeholder
		}
		day := calendar.DateOf(m.Timestamp)
		rows = append(rows, []string{
			cli.FormatDayOfWeek(day.Weekday()) + " " + cli.FormatDayShort(day),
			cli.FormatClock(m.Timestamp),
			truncate(m.Name, 28),
			m.ID,
			kcal,
		})
	}

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers:  []string{"Day", "Time", "Meal", "ID", "Kcal"},
		Rows:     rows,
		LeftCols: 4,
	}))
	return nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
