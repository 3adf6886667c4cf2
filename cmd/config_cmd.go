// Package cmd implements the kburn CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/config"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/pipeline"
	"github.com/theirongolddev/kburn/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Fprintln(w, "  Status: loaded")
	} else {
		fmt.Fprintln(w, "  Status: using defaults (no config file)")
	}
	fmt.Fprintf(w, "  Cache: %s\n", pipeline.CachePath())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [General]")
	if id := config.GetUserID(cfg); id != "" {
		fmt.Fprintf(w, "    User ID:      %s\n", id)
		if n, ok := cachedMeals(id); ok {
			fmt.Fprintf(w, "    Cached meals: %d\n", n)
		}
	} else {
		fmt.Fprintln(w, "    User ID:      not configured")
	}
	fmt.Fprintf(w, "    Default view: %s\n", cfg.General.DefaultView)
	if cfg.General.ExportPath != "" {
		fmt.Fprintf(w, "    Export path:  %s\n", cfg.General.ExportPath)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [API]")
	fmt.Fprintf(w, "    Base URL: %s\n", config.GetBaseURL(cfg))
	fmt.Fprintf(w, "    Timeout:  %ds\n", cfg.API.TimeoutSec)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Goal]")
	fmt.Fprintf(w, "    Daily:   %d kcal\n", cfg.Goal.Daily)
	for _, ch := range cfg.Goal.History {
		fmt.Fprintf(w, "    From %s: %d kcal\n", ch.From, ch.Kcal)
	}
	today := calendar.DateOf(localtime.Now())
	fmt.Fprintf(w, "    Today:   %d kcal (before the backend goal)\n", config.ResolveGoal(cfg, 0, today))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Appearance]")
	fmt.Fprintf(w, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [TUI]")
	fmt.Fprintf(w, "    Auto refresh:     %v\n", cfg.TUI.AutoRefresh)
	fmt.Fprintf(w, "    Refresh interval: %ds\n", cfg.TUI.RefreshIntervalSec)
	fmt.Fprintln(w)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(w, "  Problems:\n    %v\n\n", err)
	}
	fmt.Fprintln(w, "  Run `kburn setup` to reconfigure.")
	return nil
}

// cachedMeals counts the cached meals of a user without creating the cache.
func cachedMeals(userID string) (int, bool) {
	path := pipeline.CachePath()
	if _, err := os.Stat(path); err != nil {
		return 0, false
	}
	cache, err := store.Open(path)
	if err != nil {
		return 0, false
	}
	defer func() { _ = cache.Close() }()
	n, err := cache.EntryCount(userID)
	if err != nil {
		return 0, false
	}
	return n, true
}
