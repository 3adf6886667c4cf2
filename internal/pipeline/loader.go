package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/source"
)

// Where loaded entries came from.
const (
	SourceAPI   = "api"
	SourceCache = "cache"
	SourceFile  = "file"
)

// Fetcher is the part of the backend client the loader needs.
type Fetcher interface {
	FetchMeals(ctx context.Context) ([]source.RawMeal, error)
	FetchGoal(ctx context.Context) (int, error)
}

// LoadResult holds the output of the data loading pipeline.
type LoadResult struct {
	Entries []model.MealLogEntry
	// Goal is the backend's calorie target, 0 when unknown.
	Goal     int
	Source   string
	SyncedAt time.Time
	// Stale is set when the backend was unreachable and cached entries
	// were returned instead. FetchErr holds the reason.
	Stale    bool
	FetchErr error
	GoalErr  error

	TimestampFallbacks int
	MissingCalories    int
	MissingIDs         int

	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	FileErrors  int
}

// LoadFunc produces a LoadResult on demand. Long-running callers (the TUI
// and the daemon) hold one and call it on every refresh.
type LoadFunc func(ctx context.Context) (*LoadResult, error)

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Fetch loads meals and the goal from the backend concurrently. A failed
// goal request is not fatal; it is reported in GoalErr.
func Fetch(ctx context.Context, f Fetcher, now localtime.Instant) (*LoadResult, error) {
	var (
		raws    []source.RawMeal
		goal    int
		goalErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raws, err = f.FetchMeals(gctx)
		if err != nil {
			return fmt.Errorf("fetching meal logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		goal, goalErr = f.FetchGoal(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	norm := source.Normalize(raws, now)
	return &LoadResult{
		Entries:            norm.Entries,
		Goal:               goal,
		GoalErr:            goalErr,
		Source:             SourceAPI,
		SyncedAt:           time.Now(),
		TimestampFallbacks: norm.TimestampFallbacks,
		MissingCalories:    norm.MissingCalories,
		MissingIDs:         norm.MissingIDs,
	}, nil
}

// LoadFiles discovers and parses meal export files under path.
// It uses a bounded worker pool for parallel parsing.
func LoadFiles(path string, now localtime.Instant, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{Source: SourceFile, TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	for _, pr := range parseFiles(files, progressFn, 0, len(files)) {
		result.addParsed(pr, now)
	}
	return result, nil
}

// parseFiles parses files on up to GOMAXPROCS workers. Results keep the
// order of files. done and total only shift the progress numbers.
func parseFiles(files []source.DiscoveredFile, progressFn ProgressFunc, done, total int) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+done, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// addParsed folds one file's parse result into r and returns the entries
// it contributed.
func (r *LoadResult) addParsed(pr source.ParseResult, now localtime.Instant) source.NormalizeResult {
	if pr.Err != nil {
		r.FileErrors++
		return source.NormalizeResult{}
	}
	r.ParsedFiles++
	r.ParseErrors += pr.ParseErrors

	norm := source.Normalize(pr.Meals, now)
	r.Entries = append(r.Entries, norm.Entries...)
	r.TimestampFallbacks += norm.TimestampFallbacks
	r.MissingCalories += norm.MissingCalories
	return norm
}
