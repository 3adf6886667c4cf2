package source

import (
	"math"
	"strings"

	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"

	"github.com/google/uuid"
)

// NormalizeResult holds normalized entries plus counts of the substitutions
// that were made, so callers can surface them.
type NormalizeResult struct {
	Entries []model.MealLogEntry
	// TimestampFallbacks counts records whose timeConsumed could not be
	// parsed and were placed at now.
	TimestampFallbacks int
	// MissingCalories counts records with no calorie value, normalized to 0.
	MissingCalories int
	// MissingIDs counts records without a mealLogId. Each gets a fresh id
	// so records stay distinct in the cache.
	MissingIDs int
}

// Normalize converts backend records into entries. now is used in place of
// any timestamp that fails to parse.
func Normalize(raws []RawMeal, now localtime.Instant) NormalizeResult {
	result := NormalizeResult{Entries: make([]model.MealLogEntry, 0, len(raws))}

	for _, r := range raws {
		if r.Deleted {
			continue
		}
		id := strings.TrimSpace(string(r.MealLogID))
		if id == "" {
			id = uuid.NewString()
			result.MissingIDs++
		}
		e := model.MealLogEntry{
			ID:      id,
			Name:    model.UnnamedMeal,
			Protein: macro(r.Protein),
			Carbs:   macro(r.Carbs),
			Fat:     macro(r.Fat),
		}
		if r.FoodsConsumed != nil {
			if name := strings.TrimSpace(*r.FoodsConsumed); name != "" {
				e.Name = name
			}
		}
		if r.Remarks != nil {
			e.Remarks = strings.TrimSpace(*r.Remarks)
		}

		if r.Calories == nil || math.IsNaN(*r.Calories) || math.IsInf(*r.Calories, 0) {
			e.CaloriesMissing = true
			result.MissingCalories++
		} else if *r.Calories > 0 {
			e.Calories = int(math.Round(*r.Calories))
		}

		ts, ok := localtime.ParseOr(r.TimeConsumed, now)
		if !ok {
			result.TimestampFallbacks++
		}
		e.Timestamp = ts

		result.Entries = append(result.Entries, e)
	}
	return result
}

func macro(v *float64) model.Macro {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return model.Unknown()
	}
	return model.Grams(*v)
}

// FromEntry converts an entry back into a backend record.
func FromEntry(e model.MealLogEntry) RawMeal {
	r := RawMeal{
		MealLogID:     MealID(e.ID),
		FoodsConsumed: strPtr(e.Name),
		TimeConsumed:  localtime.Format(e.Timestamp),
	}
	if !e.CaloriesMissing {
		kcal := float64(e.Calories)
		r.Calories = &kcal
	}
	if e.Remarks != "" {
		r.Remarks = strPtr(e.Remarks)
	}
	r.Protein = gramsPtr(e.Protein)
	r.Carbs = gramsPtr(e.Carbs)
	r.Fat = gramsPtr(e.Fat)
	return r
}

func gramsPtr(m model.Macro) *float64 {
	if !m.Known {
		return nil
	}
	v := m.Value
	return &v
}
