package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func weekChart(values ...float64) BarChart {
	return BarChart{
		Values:   values,
		Labels:   []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"},
		Max:      2000,
		Goal:     2000,
		Selected: NoSelection,
		Color:    theme.Active.Accent,
		Width:    40,
		Height:   10,
	}
}

func TestBarChartIndexAt(t *testing.T) {
	c := weekChart(500, 500, 500, 500, 500, 500, 500)

	// Y labels take 4 columns plus the axis; bars are 4 wide with a
	// one-column gap.
	tests := []struct {
		x    int
		want int
	}{
		{0, NoSelection},
		{4, NoSelection},
		{5, 0},
		{8, 0},
		{9, NoSelection}, // gap
		{10, 1},
		{35, 6},
		{38, 6},
		{39, NoSelection},
		{200, NoSelection},
	}
	for _, tt := range tests {
		if got := c.IndexAt(tt.x); got != tt.want {
			t.Errorf("IndexAt(%d) = %d, want %d", tt.x, got, tt.want)
		}
	}

	if got := (BarChart{}).IndexAt(3); got != NoSelection {
		t.Errorf("empty chart IndexAt = %d, want NoSelection", got)
	}
}

func TestBarChartGoalLine(t *testing.T) {
	theme.SetActive("flexoki-dark")

	c := weekChart(500, 500, 500, 500, 500, 500, 500)
	lines := strings.Split(c.Render(), "\n")

	// 4 ticks of 2 rows, the x axis and the label row.
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if !strings.Contains(lines[0], "─") {
		t.Errorf("top row should carry the goal line: %q", lines[0])
	}
	if strings.Contains(lines[1], "─") {
		t.Errorf("row under the goal should not: %q", lines[1])
	}
}

func TestBarChartWidthStable(t *testing.T) {
	theme.SetActive("flexoki-dark")

	c := weekChart(2400, 0, 1800, 900, 2000, 100, 3000)
	c.Selected = 3
	lines := strings.Split(c.Render(), "\n")

	// All plot rows have the same width.
	want := lipgloss.Width(lines[0])
	for i, line := range lines[:len(lines)-1] {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
}

func TestBarChartTinyFallsBackToSparkline(t *testing.T) {
	c := weekChart(1, 2, 3, 4, 5, 6, 7)
	c.Width = 10
	if got := c.Render(); strings.Contains(got, "\n") {
		t.Errorf("tiny chart should be one line, got %q", got)
	}
}

func TestTabBarWidthsMatchHitboxes(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for active := range Tabs {
		want := len(Tabs) - 1 // separators
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		if got := lipgloss.Width(RenderTabBar(active, 0)); got != want {
			t.Errorf("active=%d: bar width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('w'); got != TabWeekly {
		t.Errorf("w -> %d, want %d", got, TabWeekly)
	}
	if got := TabIdxByKey('x'); got != TabSettings {
		t.Errorf("x -> %d, want %d", got, TabSettings)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("z -> %d, want -1", got)
	}
}

func TestGoalBarWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for _, p := range []model.GoalProgress{
		{Goal: 2000, Consumed: 0, Percent: 0},
		{Goal: 2000, Consumed: 1500, Percent: 75},
		{Goal: 2000, Consumed: 2600, Percent: 100, Over: true},
	} {
		if w := lipgloss.Width(GoalBar(p, 40)); w != 40 {
			t.Errorf("GoalBar(%d%%) width = %d, want 40", p.Percent, w)
		}
	}
}

func TestMacroBarUnknown(t *testing.T) {
	got := MacroBar("Protein", model.Unknown(), 100, theme.Active.Protein, 8, 20)
	if !strings.Contains(got, "–") {
		t.Errorf("unknown macro should show placeholder, got %q", got)
	}
	got = MacroBar("Protein", model.Grams(42), 100, theme.Active.Protein, 8, 20)
	if !strings.Contains(got, "42.0 g") {
		t.Errorf("known macro should show grams, got %q", got)
	}
}
