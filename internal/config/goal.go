package config

import (
	"sort"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/model"
)

// GoalChange sets a new local daily goal from a date onwards.
type GoalChange struct {
	From string `toml:"from"` // YYYY-MM-DD
	Kcal int    `toml:"kcal"`
}

func (g GoalChange) date() (calendar.Date, error) {
	return calendar.ParseDate(g.From)
}

// GoalAt returns the locally configured goal effective on d: the latest
// history entry starting on or before d, else goal.daily, else the default.
func GoalAt(cfg Config, d calendar.Date) int {
	type version struct {
		from calendar.Date
		kcal int
	}
	var versions []version
	for _, ch := range cfg.Goal.History {
		from, err := ch.date()
		if err != nil || ch.Kcal <= 0 {
			continue
		}
		versions = append(versions, version{from: from, kcal: ch.Kcal})
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].from.Before(versions[j].from)
	})

	selected := cfg.Goal.Daily
	for _, v := range versions {
		if v.from.After(d) {
			break
		}
		selected = v.kcal
	}
	if selected <= 0 {
		return model.DefaultGoal
	}
	return selected
}

// ResolveGoal picks the goal for a report anchored at d. KBURN_GOAL wins,
// then a positive backend goal, then the local configuration.
func ResolveGoal(cfg Config, backend int, d calendar.Date) int {
	if g, ok := envGoal(); ok {
		return g
	}
	if backend > 0 {
		return backend
	}
	return GoalAt(cfg, d)
}
