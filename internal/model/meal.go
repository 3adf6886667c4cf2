// Package model defines domain types for kburn meal logs and reports.
package model

import (
	"encoding/json"
	"math"

	"github.com/theirongolddev/kburn/internal/localtime"
)

// UnnamedMeal is shown for entries the backend sent without a name.
const UnnamedMeal = "(Unnamed)"

// DefaultGoal is the daily calorie goal used when none is configured.
const DefaultGoal = 2000

// Macro is a gram amount that may be unknown. The zero value is unknown.
type Macro struct {
	Value float64
	Known bool
}

// Grams returns a known macro.
func Grams(v float64) Macro { return Macro{Value: v, Known: true} }

// Unknown returns an unknown macro.
func Unknown() Macro { return Macro{} }

// Or returns the value, or def when unknown.
func (m Macro) Or(def float64) float64 {
	if !m.Known {
		return def
	}
	return m.Value
}

// MarshalJSON writes null for unknown macros.
func (m Macro) MarshalJSON() ([]byte, error) {
	if !m.Known {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON reads a number or null.
func (m *Macro) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil || math.IsNaN(*v) {
		*m = Macro{}
		return nil
	}
	*m = Grams(*v)
	return nil
}

// MealLogEntry is one logged meal after normalization.
type MealLogEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	// CaloriesMissing is set when the backend sent no calorie value and
	// Calories was filled with 0.
	CaloriesMissing bool              `json:"calories_missing,omitempty"`
	Protein         Macro             `json:"protein"`
	Carbs           Macro             `json:"carbs"`
	Fat             Macro             `json:"fat"`
	Timestamp       localtime.Instant `json:"time_consumed"`
	Remarks         string            `json:"remarks,omitempty"`
}
