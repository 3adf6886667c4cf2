package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RawMeal is one meal-log record as the backend serves it. Nullable fields
// are pointers so a missing value stays distinguishable from zero.
type RawMeal struct {
	MealLogID     MealID   `json:"mealLogId"`
	FoodsConsumed *string  `json:"foodsConsumed"`
	Calories      *float64 `json:"calories"`
	Remarks       *string  `json:"remarks,omitempty"`
	TimeConsumed  string   `json:"timeConsumed"`
	Protein       *float64 `json:"protein,omitempty"`
	Carbs         *float64 `json:"carbs,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`

	// Deleted marks a tombstone line in an append-only export file.
	Deleted bool `json:"deleted,omitempty"`
}

// MealID accepts the backend's numeric ids as well as string ids written by
// offline logs.
type MealID string

// UnmarshalJSON reads a JSON number or string.
func (id *MealID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = MealID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("meal id: %w", err)
	}
	*id = MealID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings.
func (id MealID) MarshalJSON() ([]byte, error) {
	s := string(id)
	if s != "" && isDigits(s) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DiscoveredFile is a meal export found on disk.
type DiscoveredFile struct {
	Path string
	// Name is the file name without directory or extension.
	Name string
}

func strPtr(s string) *string { return &s }
