package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// NewMealID returns a fresh id for a meal logged without the backend.
func NewMealID() MealID {
	return MealID(uuid.NewString())
}

// AppendFile appends one record to a JSONL export, creating the file and its
// directory when needed. Records without an id get a new one; the id that
// was written is returned.
func AppendFile(path string, m RawMeal) (MealID, error) {
	if m.MealLogID == "" {
		m.MealLogID = NewMealID()
	}

	line, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding meal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return m.MealLogID, nil
}

// AppendTombstone marks id as deleted in a JSONL export.
func AppendTombstone(path string, id MealID) error {
	_, err := AppendFile(path, RawMeal{MealLogID: id, Deleted: true})
	return err
}
