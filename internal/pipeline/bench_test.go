package pipeline

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/source"
)

// syntheticEntries spreads n meals over roughly a year.
func syntheticEntries(n int) []model.MealLogEntry {
	start := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	entries := make([]model.MealLogEntry, n)
	for i := range entries {
		ts := start.Add(time.Duration(i) * 2 * time.Hour)
		entries[i] = model.MealLogEntry{
			ID:        fmt.Sprint(i),
			Name:      "meal",
			Calories:  100 + i%700,
			Protein:   model.Grams(float64(i % 40)),
			Timestamp: localtime.FromTime(ts),
		}
	}
	return entries
}

func BenchmarkIndexByDay(b *testing.B) {
	entries := syntheticEntries(5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = IndexByDay(entries)
	}
}

func BenchmarkMonthlyAggregate(b *testing.B) {
	entries := syntheticEntries(5000)
	month := calendar.NewMonthCursor(2024, time.June)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		days := AggregateDays(IndexByDay(entries), month.Dates())
		_ = AggregatePeriod(days, month.Len())
		_ = SumMacros(days)
	}
}

func BenchmarkLoadFiles(b *testing.B) {
	dir := b.TempDir()
	entries := syntheticEntries(2000)
	for i, e := range entries {
		path := filepath.Join(dir, fmt.Sprintf("part-%02d.jsonl", i%8))
		if _, err := source.AppendFile(path, source.FromEntry(e)); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := LoadFiles(dir, localtime.Now(), nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = result
	}
}
