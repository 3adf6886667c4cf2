package report

import (
	"testing"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/localtime"
)

var navNow = localtime.Instant{Year: 2024, Month: time.March, Day: 10, Hour: 9}

func TestNavigator_NavigateResetsSelection(t *testing.T) {
	n := NewNavigator(navNow, ModeWeekly)
	n.Select(3)
	if _, ok := n.Selected(); !ok {
		t.Fatal("selection not set")
	}

	n.Navigate(calendar.Next)
	if _, ok := n.Selected(); ok {
		t.Error("selection survived navigation")
	}
	if got := n.Cursor().Anchor(); got != day(2024, time.March, 11) {
		t.Errorf("week anchor = %v, want 2024-03-11", got)
	}
	// Other cursors do not move.
	if got := n.CursorFor(ModeDaily).Anchor(); got != day(2024, time.March, 10) {
		t.Errorf("day cursor moved to %v", got)
	}
}

func TestNavigator_Toggle(t *testing.T) {
	n := NewNavigator(navNow, ModeMonthly)
	n.Toggle(4)
	if i, ok := n.Selected(); !ok || i != 4 {
		t.Fatalf("Selected = %d, %v", i, ok)
	}
	n.Toggle(4)
	if _, ok := n.Selected(); ok {
		t.Error("second toggle should clear")
	}
	n.Select(31)
	if _, ok := n.Selected(); ok {
		t.Error("March has no day index 31")
	}
}

func TestNavigator_MoveSelectionWraps(t *testing.T) {
	n := NewNavigator(navNow, ModeWeekly)
	n.MoveSelection(-1)
	if i, _ := n.Selected(); i != 6 {
		t.Errorf("first move back = %d, want 6", i)
	}
	n.MoveSelection(1)
	if i, _ := n.Selected(); i != 0 {
		t.Errorf("wrap forward = %d, want 0", i)
	}
}

func TestNavigator_OpenSelectedDay(t *testing.T) {
	n := NewNavigator(navNow, ModeMonthly)
	if n.OpenSelectedDay() {
		t.Fatal("OpenSelectedDay with no selection returned true")
	}

	n.Select(14)
	if !n.OpenSelectedDay() {
		t.Fatal("OpenSelectedDay returned false")
	}
	if n.Mode() != ModeDaily {
		t.Errorf("Mode = %v, want daily", n.Mode())
	}
	if got := n.Cursor().Anchor(); got != day(2024, time.March, 15) {
		t.Errorf("day = %v, want 2024-03-15", got)
	}
}

func TestNavigator_SetModeClearsSelection(t *testing.T) {
	n := NewNavigator(navNow, ModeWeekly)
	n.Select(2)
	n.SetMode(ModeMonthly)
	if _, ok := n.Selected(); ok {
		t.Error("selection survived a tab switch")
	}
}

func TestNavigator_Today(t *testing.T) {
	n := NewNavigator(navNow, ModeMonthly)
	n.Navigate(calendar.Prev)
	n.Navigate(calendar.Prev)
	n.Today(navNow)
	if got := n.Cursor().Key(); got != "2024-03" {
		t.Errorf("month after Today = %s", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"daily", ModeDaily, false},
		{"Weekly", ModeWeekly, false},
		{"m", ModeMonthly, false},
		{"", ModeDaily, false},
		{"yearly", ModeDaily, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}
