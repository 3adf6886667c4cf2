// Package store provides a SQLite-backed cache of meal logs so reports keep
// working when the backend is unreachable.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed meal-log caching. Rows are grouped by source:
// a backend user id, or FileSource(path) for a local export.
type Cache struct {
	db *sql.DB
}

// FileSource is the source key used for entries read from an export file.
func FileSource(path string) string { return "file:" + path }

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SyncState records the last successful backend sync for a source.
type SyncState struct {
	Source   string
	Goal     int
	SyncedAt time.Time
}

// SaveSync replaces the entries of a backend source and records the goal and
// sync time alongside them.
func (c *Cache) SaveSync(state SyncState, entries []model.MealLogEntry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM meal_logs WHERE source = ?", state.Source); err != nil {
		return err
	}
	if err := insertEntries(tx, state.Source, entries); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO sync_state (source, goal, synced_at) VALUES (?, ?, ?)`,
		state.Source, state.Goal, state.SyncedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertEntry stores or replaces a single entry.
func (c *Cache) UpsertEntry(source string, e model.MealLogEntry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertEntries(tx, source, []model.MealLogEntry{e}); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteEntry removes a single entry.
func (c *Cache) DeleteEntry(source, id string) error {
	_, err := c.db.Exec("DELETE FROM meal_logs WHERE source = ? AND meal_id = ?", source, id)
	return err
}

func insertEntries(tx *sql.Tx, source string, entries []model.MealLogEntry) error {
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO meal_logs
		(source, meal_id, name, calories, calories_missing, protein, carbs, fat,
		 consumed_at, remarks, stored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		missing := 0
		if e.CaloriesMissing {
			missing = 1
		}
		var remarks sql.NullString
		if e.Remarks != "" {
			remarks = sql.NullString{String: e.Remarks, Valid: true}
		}
		_, err := stmt.Exec(
			source, e.ID, e.Name, e.Calories, missing,
			nullMacro(e.Protein), nullMacro(e.Carbs), nullMacro(e.Fat),
			localtime.Format(e.Timestamp), remarks, now,
		)
		if err != nil {
			return fmt.Errorf("storing meal %s: %w", e.ID, err)
		}
	}
	return nil
}

// LoadEntries reads every cached entry of source, oldest first.
func (c *Cache) LoadEntries(source string) ([]model.MealLogEntry, error) {
	rows, err := c.db.Query(`SELECT
		meal_id, name, calories, calories_missing, protein, carbs, fat, consumed_at, remarks
		FROM meal_logs WHERE source = ? ORDER BY consumed_at, meal_id`, source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []model.MealLogEntry
	for rows.Next() {
		var (
			e                   model.MealLogEntry
			missing             int
			protein, carbs, fat sql.NullFloat64
			consumedAt          string
			remarks             sql.NullString
		)
		err := rows.Scan(&e.ID, &e.Name, &e.Calories, &missing,
			&protein, &carbs, &fat, &consumedAt, &remarks)
		if err != nil {
			return nil, err
		}

		ts, err := localtime.Parse(consumedAt)
		if err != nil {
			// Rows are only written through localtime.Format.
			return nil, fmt.Errorf("cached meal %s: %w", e.ID, err)
		}
		e.Timestamp = ts
		e.CaloriesMissing = missing != 0
		e.Protein = macroFromNull(protein)
		e.Carbs = macroFromNull(carbs)
		e.Fat = macroFromNull(fat)
		if remarks.Valid {
			e.Remarks = remarks.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetSyncState returns the last sync of source. ok is false when the source
// was never synced.
func (c *Cache) GetSyncState(source string) (state SyncState, ok bool, err error) {
	var syncedAt string
	err = c.db.QueryRow("SELECT source, goal, synced_at FROM sync_state WHERE source = ?", source).
		Scan(&state.Source, &state.Goal, &syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncState{}, false, nil
	}
	if err != nil {
		return SyncState{}, false, err
	}
	state.SyncedAt, _ = time.Parse(time.RFC3339, syncedAt)
	return state, true, nil
}

// EntryCount returns the number of cached entries of source.
func (c *Cache) EntryCount(source string) (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM meal_logs WHERE source = ?", source).Scan(&count)
	return count, err
}

// FileInfo holds the tracked mtime and size for an export file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFile stores the entries parsed from an export file together with the
// file's tracking info.
func (c *Cache) SaveFile(path string, entries []model.MealLogEntry, fi FileInfo) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	source := FileSource(path)
	if _, err := tx.Exec("DELETE FROM meal_logs WHERE source = ?", source); err != nil {
		return err
	}
	if err := insertEntries(tx, source, entries); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, path, fi.MtimeNs, fi.SizeBytes)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteFileTracker removes a file tracking entry and its cached meals.
func (c *Cache) DeleteFileTracker(filePath string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM meal_logs WHERE source = ?", FileSource(filePath)); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath); err != nil {
		return err
	}
	return tx.Commit()
}

func nullMacro(m model.Macro) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Known}
}

func macroFromNull(v sql.NullFloat64) model.Macro {
	if !v.Valid {
		return model.Unknown()
	}
	return model.Grams(v.Float64)
}
