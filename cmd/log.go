package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/mealapi"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/pipeline"
	"github.com/theirongolddev/kburn/internal/source"
	"github.com/theirongolddev/kburn/internal/store"

	"github.com/spf13/cobra"
)

// defaultLogFile is written when the export path is a directory.
const defaultLogFile = "meals.jsonl"

var (
	flagLogKcal    int
	flagLogAt      string
	flagLogRemarks string
)

var logCmd = &cobra.Command{
	Use:   "log NAME",
	Short: "Log a meal",
	Example: `  kburn log Oatmeal with berries --kcal 350
  kburn log Curry -k 750 --at 19:30 --remarks "half portion"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLog,
}

var editCmd = &cobra.Command{
	Use:   "edit ID NAME",
	Short: "Replace a logged meal",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:     "delete ID...",
	Aliases: []string{"rm"},
	Short:   "Delete logged meals",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

func init() {
	for _, c := range []*cobra.Command{logCmd, editCmd} {
		c.Flags().IntVarP(&flagLogKcal, "kcal", "k", 0, "Calories of the meal")
		c.Flags().StringVar(&flagLogAt, "at", "", "When it was eaten: HH:MM on --date, or YYYY-MM-DDTHH:MM:SS (default now)")
		c.Flags().StringVar(&flagLogRemarks, "remarks", "", "Free-form note")
		_ = c.MarkFlagRequired("kcal")
	}
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	return saveMeal(cmd, "", strings.Join(args, " "))
}

func runEdit(cmd *cobra.Command, args []string) error {
	return saveMeal(cmd, args[0], strings.Join(args[1:], " "))
}

// saveMeal creates a meal, or replaces meal id when it is set.
func saveMeal(cmd *cobra.Command, id, name string) error {
	at, err := mealTime()
	if err != nil {
		return err
	}
	in, err := mealapi.NewMealInput(name, flagLogKcal, flagLogRemarks, at)
	if err != nil {
		return err
	}

	cfg := loadConfig(cmd)
	out := cmd.OutOrStdout()
	verb := "Logged"
	if id != "" {
		verb = "Updated"
	}

	if path := exportPath(cfg); path != "" {
		kcal := float64(in.Calories)
		written, err := source.AppendFile(logFile(path), source.RawMeal{
			MealLogID:     source.MealID(id),
			FoodsConsumed: &in.FoodsConsumed,
			Calories:      &kcal,
			Remarks:       in.Remarks,
			TimeConsumed:  in.TimeConsumed,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s %s (%s) at %s, id %s\n", verb, in.FoodsConsumed, cli.FormatKcal(in.Calories), in.TimeConsumed, written)
		return nil
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	if id == "" {
		err = client.CreateMeal(cmd.Context(), in)
	} else {
		err = client.UpdateMeal(cmd.Context(), id, in)
	}
	if err != nil {
		return err
	}
	if id != "" {
		e := model.MealLogEntry{ID: id, Name: in.FoodsConsumed, Calories: in.Calories, Timestamp: at}
		if in.Remarks != nil {
			e.Remarks = *in.Remarks
		}
		syncCache(func(c *store.Cache) error { return c.UpsertEntry(client.UserID(), e) })
	}
	fmt.Fprintf(out, "  %s %s (%s) at %s\n", verb, in.FoodsConsumed, cli.FormatKcal(in.Calories), in.TimeConsumed)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	out := cmd.OutOrStdout()

	if path := exportPath(cfg); path != "" {
		for _, id := range args {
			if err := source.AppendTombstone(logFile(path), source.MealID(id)); err != nil {
				return err
			}
			fmt.Fprintf(out, "  Deleted %s\n", id)
		}
		return nil
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	for _, id := range args {
		if err := client.DeleteMeal(cmd.Context(), id); err != nil {
			return fmt.Errorf("deleting %s: %w", id, err)
		}
		syncCache(func(c *store.Cache) error { return c.DeleteEntry(client.UserID(), id) })
		fmt.Fprintf(out, "  Deleted %s\n", id)
	}
	return nil
}

// syncCache applies a backend write to the local cache so --offline runs
// see it before the next sync. Errors are dropped; the next sync replaces
// the cached rows anyway.
func syncCache(apply func(*store.Cache) error) {
	if flagNoCache {
		return
	}
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return
	}
	defer func() { _ = cache.Close() }()
	_ = apply(cache)
}

// mealTime reads --at. A bare clock time is placed on --date.
func mealTime() (localtime.Instant, error) {
	if flagLogAt == "" {
		if flagDate == "" {
			return localtime.Now(), nil
		}
		d, err := referenceDate()
		if err != nil {
			return localtime.Instant{}, err
		}
		return d.Start(), nil
	}

	raw := flagLogAt
	if len(raw) == len("15:04") && raw[2] == ':' {
		d, err := referenceDate()
		if err != nil {
			return localtime.Instant{}, err
		}
		raw = d.String() + "T" + raw + ":00"
	}
	at, err := localtime.Parse(raw)
	if err != nil {
		return localtime.Instant{}, fmt.Errorf("invalid --at: %w", err)
	}
	return at, nil
}

// logFile picks the file to append to for an export path.
func logFile(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, defaultLogFile)
	}
	return path
}
