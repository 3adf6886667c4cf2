package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/config"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/mealapi"
	"github.com/theirongolddev/kburn/internal/pipeline"
	"github.com/theirongolddev/kburn/internal/report"
	"github.com/theirongolddev/kburn/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagUser    string
	flagAPI     string
	flagGoal    int
	flagDate    string
	flagFile    string
	flagNoCache bool
	flagOffline bool
	flagQuiet   bool
	flagFood    string
)

var errNoUser = errors.New("no user id: pass --user, set " + config.EnvUserID + " or run `kburn setup`")

var rootCmd = &cobra.Command{
	Use:           "kburn",
	Short:         "Calorie intake reports",
	Long:          "Daily, weekly and monthly calorie reports for your meal log.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDaily,
}

// Execute is the main entry point called from main.go.
func Execute() {
	// A .env next to the binary may carry KBURN_* overrides; it is optional.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "Backend user id (overrides config and "+config.EnvUserID+")")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "Backend base URL (overrides config and "+config.EnvBaseURL+")")
	rootCmd.PersistentFlags().IntVarP(&flagGoal, "goal", "g", 0, "Daily calorie goal for this run")
	rootCmd.PersistentFlags().StringVarP(&flagDate, "date", "d", "", "Report date, YYYY-MM-DD (default today)")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Read a JSONL/JSON export instead of the backend")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite cache")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Use the last synced data without contacting the backend")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagFood, "food", "", "Only count meals whose name contains this text")
}

// loadConfig reads the config file, warning on stderr and falling back to
// defaults when it is broken.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Warning: %v (using defaults)\n", err)
	}
	return cfg
}

// exportPath is the file source for this run, empty for the backend.
func exportPath(cfg config.Config) string {
	if flagFile != "" {
		return flagFile
	}
	return cfg.General.ExportPath
}

// newClient builds the backend client from flags, env and config.
func newClient(cfg config.Config) (*mealapi.Client, error) {
	userID := flagUser
	if userID == "" {
		userID = config.GetUserID(cfg)
	}
	if userID == "" {
		return nil, errNoUser
	}
	baseURL := flagAPI
	if baseURL == "" {
		baseURL = config.GetBaseURL(cfg)
	}
	client := mealapi.NewClient(baseURL, userID, time.Duration(cfg.API.TimeoutSec)*time.Second)
	if client == nil {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}
	return client, nil
}

// loadData is the shared data loading path used by all commands. Progress
// goes to progress; pass io.Discard to silence it.
func loadData(ctx context.Context, cfg config.Config, progress io.Writer) (*pipeline.LoadResult, error) {
	now := localtime.Now()
	if path := exportPath(cfg); path != "" {
		return loadFile(path, now, progress)
	}

	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	if flagNoCache {
		fmt.Fprintf(progress, "  Fetching meals...\n")
		return pipeline.Fetch(ctx, client, now)
	}

	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		if flagOffline {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		fmt.Fprintf(progress, "  Cache unavailable, fetching without it\n")
		return pipeline.Fetch(ctx, client, now)
	}
	defer func() { _ = cache.Close() }()

	if flagOffline {
		return pipeline.LoadCached(client.UserID(), cache)
	}

	fmt.Fprintf(progress, "  Fetching meals...\n")
	return pipeline.LoadWithCache(ctx, client, client.UserID(), cache, now)
}

func loadFile(path string, now localtime.Instant, progress io.Writer) (*pipeline.LoadResult, error) {
	progressFn := func(current, total int) {
		if current%100 == 0 || current == total {
			fmt.Fprintf(progress, "\r  Parsing [%d/%d]", current, total)
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			fmt.Fprintf(progress, "  Cache unavailable, doing full parse\n")
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadFilesWithCache(path, cache, now, progressFn)
			if err == nil {
				if cr.TotalFiles > 0 {
					if cr.Reparsed == 0 {
						fmt.Fprintf(progress, "\r  Loaded %s meals from cache    \n", cli.FormatNumber(int64(len(cr.Entries))))
					} else {
						fmt.Fprintf(progress, "\r  %d cached + %d reparsed files    \n", cr.CacheHits, cr.Reparsed)
					}
				}
				return &cr.LoadResult, nil
			}
			fmt.Fprintf(progress, "\n  Cache error, falling back to full parse\n")
		}
	}

	result, err := pipeline.LoadFiles(path, now, progressFn)
	if err != nil {
		return nil, err
	}
	if result.TotalFiles > 0 {
		fmt.Fprintf(progress, "\r  Parsed %s meals from %d files    \n",
			cli.FormatNumber(int64(len(result.Entries))), result.ParsedFiles)
	}
	return result, nil
}

// buildLoader returns a LoadFunc for long-running commands. Config is read
// again on every call so edits made in the dashboard take effect.
func buildLoader() pipeline.LoadFunc {
	return func(ctx context.Context) (*pipeline.LoadResult, error) {
		cfg, _ := config.Load()
		return loadData(ctx, cfg, io.Discard)
	}
}

// goalFunc resolves goals with --goal first, then the usual precedence.
func goalFunc() report.GoalFunc {
	return func(backend int, d calendar.Date) int {
		if flagGoal > 0 {
			return flagGoal
		}
		cfg, _ := config.Load()
		return config.ResolveGoal(cfg, backend, d)
	}
}

// referenceDate is --date, or today.
func referenceDate() (calendar.Date, error) {
	if flagDate == "" {
		return calendar.DateOf(localtime.Now()), nil
	}
	d, err := calendar.ParseDate(flagDate)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("invalid --date: %w", err)
	}
	return d, nil
}

// loadReportData loads entries for a one-shot report command and prints
// load warnings to stderr.
func loadReportData(cmd *cobra.Command) (*pipeline.LoadResult, error) {
	cfg := loadConfig(cmd)
	progress := cmd.ErrOrStderr()
	if flagQuiet {
		progress = io.Discard
	}

	result, err := loadData(cmd.Context(), cfg, progress)
	if err != nil {
		return nil, err
	}
	printLoadWarnings(progress, result)

	if flagFood != "" {
		filtered := *result
		filtered.Entries = pipeline.FilterByName(result.Entries, flagFood)
		return &filtered, nil
	}
	return result, nil
}

func printLoadWarnings(w io.Writer, r *pipeline.LoadResult) {
	switch {
	case r.Stale && r.FetchErr != nil:
		fmt.Fprintf(w, "  Backend unreachable (%v), showing data synced %s\n",
			r.FetchErr, cli.FormatAgo(r.SyncedAt, time.Now()))
	case r.Stale:
		fmt.Fprintf(w, "  Offline, showing data synced %s\n", cli.FormatAgo(r.SyncedAt, time.Now()))
	}
	if r.GoalErr != nil {
		fmt.Fprintf(w, "  Goal lookup failed (%v), using local goal\n", r.GoalErr)
	}
	if r.TimestampFallbacks > 0 {
		fmt.Fprintf(w, "  %d meals had unreadable times and were placed at load time\n", r.TimestampFallbacks)
	}
	if r.MissingIDs > 0 {
		fmt.Fprintf(w, "  %d meals came without an id and cannot be edited or deleted\n", r.MissingIDs)
	}
	if r.ParseErrors > 0 || r.FileErrors > 0 {
		fmt.Fprintf(w, "  Skipped %d unreadable lines in %d files\n", r.ParseErrors, r.FileErrors)
	}
}
