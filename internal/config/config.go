// Package config loads and saves the kburn TOML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all kburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	API        APIConfig        `toml:"api"`
	Goal       GoalConfig       `toml:"goal"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	UserID      string `toml:"user_id,omitempty"`
	DefaultView string `toml:"default_view"`
	// ExportPath is read instead of the backend when set.
	ExportPath string `toml:"export_path,omitempty"`
}

// APIConfig holds diet backend settings.
type APIConfig struct {
	BaseURL    string `toml:"base_url,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// GoalConfig holds the local calorie goal used when the backend has none.
type GoalConfig struct {
	Daily   int          `toml:"daily"`
	History []GoalChange `toml:"history,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// Environment overrides.
const (
	EnvUserID  = "KBURN_USER_ID"
	EnvBaseURL = "KBURN_API_URL"
	EnvGoal    = "KBURN_GOAL"
)

// DefaultBaseURL is the development backend address.
const DefaultBaseURL = "http://10.0.2.2:8080"

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultView: "daily",
		},
		API: APIConfig{
			BaseURL:    DefaultBaseURL,
			TimeoutSec: 10,
		},
		Goal: GoalConfig{
			Daily: 2000,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        false,
			RefreshIntervalSec: 60,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "kburn")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetUserID returns the user id from env var or config, in that order.
func GetUserID(cfg Config) string {
	if id := strings.TrimSpace(os.Getenv(EnvUserID)); id != "" {
		return id
	}
	return cfg.General.UserID
}

// GetBaseURL returns the backend URL from env var or config, in that order.
func GetBaseURL(cfg Config) string {
	if u := strings.TrimSpace(os.Getenv(EnvBaseURL)); u != "" {
		return u
	}
	return cfg.API.BaseURL
}

// Validate reports every invalid setting, joined.
func Validate(cfg Config) error {
	var errs []error
	if cfg.Goal.Daily < 0 {
		errs = append(errs, fmt.Errorf("goal.daily must not be negative (got %d)", cfg.Goal.Daily))
	}
	for i, ch := range cfg.Goal.History {
		if _, err := ch.date(); err != nil {
			errs = append(errs, fmt.Errorf("goal.history[%d]: %w", i, err))
		}
		if ch.Kcal < 0 {
			errs = append(errs, fmt.Errorf("goal.history[%d]: kcal must not be negative", i))
		}
	}
	switch strings.ToLower(cfg.General.DefaultView) {
	case "", "daily", "weekly", "monthly":
	default:
		errs = append(errs, fmt.Errorf("general.default_view %q must be daily, weekly or monthly", cfg.General.DefaultView))
	}
	if cfg.API.BaseURL != "" {
		u, err := url.Parse(cfg.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("api.base_url %q is not an http(s) URL", cfg.API.BaseURL))
		}
	}
	if cfg.TUI.RefreshIntervalSec < 0 {
		errs = append(errs, errors.New("tui.refresh_interval_sec must not be negative"))
	}
	return errors.Join(errs...)
}

// envGoal reads KBURN_GOAL. ok is false when unset or not a positive number.
func envGoal() (int, bool) {
	raw := strings.TrimSpace(os.Getenv(EnvGoal))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
