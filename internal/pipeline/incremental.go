package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/source"
	"github.com/theirongolddev/kburn/internal/store"
)

// LoadWithCache fetches from the backend and mirrors the result into cache.
// When the backend cannot be reached and the cache holds entries for
// userID, those are returned with Stale set instead of an error.
func LoadWithCache(ctx context.Context, f Fetcher, userID string, cache *store.Cache, now localtime.Instant) (*LoadResult, error) {
	result, fetchErr := Fetch(ctx, f, now)
	if fetchErr == nil {
		goal := result.Goal
		if goal == 0 {
			// Keep the last known goal when today's lookup failed.
			if prev, ok, err := cache.GetSyncState(userID); err == nil && ok {
				goal = prev.Goal
			}
		}
		state := store.SyncState{Source: userID, Goal: goal, SyncedAt: result.SyncedAt}
		if err := cache.SaveSync(state, result.Entries); err != nil {
			return nil, fmt.Errorf("updating cache: %w", err)
		}
		result.Goal = goal
		return result, nil
	}

	state, ok, err := cache.GetSyncState(userID)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	if !ok {
		return nil, fetchErr
	}

	entries, err := cache.LoadEntries(userID)
	if err != nil {
		return nil, fmt.Errorf("loading cached meals: %w", err)
	}
	return &LoadResult{
		Entries:  entries,
		Goal:     state.Goal,
		Source:   SourceCache,
		SyncedAt: state.SyncedAt,
		Stale:    true,
		FetchErr: fetchErr,
	}, nil
}

// LoadCached returns whatever the cache holds for userID without touching
// the backend.
func LoadCached(userID string, cache *store.Cache) (*LoadResult, error) {
	state, _, err := cache.GetSyncState(userID)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	entries, err := cache.LoadEntries(userID)
	if err != nil {
		return nil, fmt.Errorf("loading cached meals: %w", err)
	}
	return &LoadResult{
		Entries:  entries,
		Goal:     state.Goal,
		Source:   SourceCache,
		SyncedAt: state.SyncedAt,
		Stale:    true,
	}, nil
}

// CachedFileResult extends LoadResult with cache metadata.
type CachedFileResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadFilesWithCache discovers export files, diffs them against cache,
// parses only changed files, and returns the combined result set. Files
// that needed a timestamp fallback are not cached, so the fallback is
// recomputed against the current time on every load.
func LoadFilesWithCache(path string, cache *store.Cache, now localtime.Instant, progressFn ProgressFunc) (*CachedFileResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &CachedFileResult{
		LoadResult: LoadResult{Source: SourceFile, TotalFiles: len(files)},
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	pruneRemoved(cache, path, files, tracked)
	if len(files) == 0 {
		return result, nil
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	var infos []store.FileInfo
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		fi := store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}

		if cached, ok := tracked[f.Path]; ok && cached == fi {
			entries, err := cache.LoadEntries(store.FileSource(f.Path))
			if err == nil {
				result.Entries = append(result.Entries, entries...)
				result.ParsedFiles++
				result.CacheHits++
				continue
			}
		}
		toReparse = append(toReparse, f)
		infos = append(infos, fi)
	}

	result.Reparsed = len(toReparse)
	if len(toReparse) == 0 {
		return result, nil
	}

	for i, pr := range parseFiles(toReparse, progressFn, result.CacheHits, result.TotalFiles) {
		norm := result.addParsed(pr, now)
		if pr.Err != nil || norm.TimestampFallbacks > 0 {
			continue
		}
		_ = cache.SaveFile(toReparse[i].Path, norm.Entries, infos[i])
	}
	return result, nil
}

// pruneRemoved drops cached files under path that no longer exist.
func pruneRemoved(cache *store.Cache, path string, files []source.DiscoveredFile, tracked map[string]store.FileInfo) {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.Path] = true
	}
	prefix := strings.TrimRight(path, string(filepath.Separator)) + string(filepath.Separator)
	for p := range tracked {
		if present[p] || (p != path && !strings.HasPrefix(p, prefix)) {
			continue
		}
		_ = cache.DeleteFileTracker(p)
	}
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "kburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "kburn")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "meals.db")
}
