package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
)

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Goal.Daily != 2000 || cfg.General.DefaultView != "daily" {
		t.Errorf("defaults = %+v", cfg)
	}
	if Exists() {
		t.Error("Exists() = true before Save")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.General.UserID = "firebase-abc"
	cfg.Goal.Daily = 1750
	cfg.Goal.History = []GoalChange{{From: "2024-03-01", Kcal: 1800}}
	cfg.Appearance.Theme = "tokyo-night"

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}
	if Path() != filepath.Join(dir, "kburn", "config.toml") {
		t.Errorf("Path = %q", Path())
	}
	info, err := os.Stat(Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.General.UserID != "firebase-abc" || got.Goal.Daily != 1750 || got.Appearance.Theme != "tokyo-night" {
		t.Errorf("loaded = %+v", got)
	}
	if len(got.Goal.History) != 1 || got.Goal.History[0].Kcal != 1800 {
		t.Errorf("history = %+v", got.Goal.History)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "kburn"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(), []byte("[goal\ndaily = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("err = %v, want parsing error", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.UserID = "from-config"

	t.Setenv(EnvUserID, "")
	if GetUserID(cfg) != "from-config" {
		t.Error("empty env should fall back to config")
	}
	t.Setenv(EnvUserID, "from-env")
	t.Setenv(EnvBaseURL, "https://diet.example")
	if GetUserID(cfg) != "from-env" || GetBaseURL(cfg) != "https://diet.example" {
		t.Errorf("env not applied: %q %q", GetUserID(cfg), GetBaseURL(cfg))
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Goal.Daily = -1
	cfg.General.DefaultView = "yearly"
	cfg.API.BaseURL = "localhost:8080"
	cfg.Goal.History = []GoalChange{{From: "March", Kcal: 1}}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate accepted bad config")
	}
	for _, want := range []string{"goal.daily", "default_view", "base_url", "goal.history[0]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestGoalAt_UsesEffectiveDate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Goal.Daily = 2200
	cfg.Goal.History = []GoalChange{
		{From: "2024-07-01", Kcal: 1600},
		{From: "2024-01-01", Kcal: 1900},
		{From: "bad", Kcal: 1},
	}

	tests := []struct {
		date string
		want int
	}{
		{"2023-12-31", 2200},
		{"2024-01-01", 1900},
		{"2024-04-15", 1900},
		{"2024-07-01", 1600},
		{"2025-01-01", 1600},
	}
	for _, tt := range tests {
		if got := GoalAt(cfg, mustDate(t, tt.date)); got != tt.want {
			t.Errorf("GoalAt(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestGoalAt_DefaultWhenUnset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Goal.Daily = 0
	if got := GoalAt(cfg, calendar.Date{Year: 2024, Month: time.March, Day: 1}); got != 2000 {
		t.Errorf("GoalAt = %d, want 2000", got)
	}
}

func TestResolveGoal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Goal.Daily = 1700
	d := mustDate(t, "2024-03-10")

	t.Setenv(EnvGoal, "")
	if got := ResolveGoal(cfg, 0, d); got != 1700 {
		t.Errorf("no backend = %d, want config 1700", got)
	}
	if got := ResolveGoal(cfg, 1850, d); got != 1850 {
		t.Errorf("backend = %d, want 1850", got)
	}
	t.Setenv(EnvGoal, "1500")
	if got := ResolveGoal(cfg, 1850, d); got != 1500 {
		t.Errorf("env = %d, want 1500", got)
	}
	t.Setenv(EnvGoal, "lots")
	if got := ResolveGoal(cfg, 1850, d); got != 1850 {
		t.Errorf("bad env = %d, want backend 1850", got)
	}
}
