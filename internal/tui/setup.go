package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/theirongolddev/kburn/internal/config"
	"github.com/theirongolddev/kburn/internal/report"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the first-run form.
type SetupValues struct {
	userID string
	goal   string
	theme  string
	view   string
}

// NewSetupValues seeds the form from cfg.
func NewSetupValues(cfg config.Config) SetupValues {
	return SetupValues{
		userID: cfg.General.UserID,
		goal:   strconv.Itoa(cfg.Goal.Daily),
		theme:  cfg.Appearance.Theme,
		view:   cfg.General.DefaultView,
	}
}

// NewSetupForm builds the first-run form. `kburn setup` runs the same form
// outside the dashboard.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	viewOpts := make([]huh.Option[string], 0, len(report.Modes))
	for _, m := range report.Modes {
		viewOpts = append(viewOpts, huh.NewOption(m.String(), m.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to kburn").
				Description("Calorie reports for your meal log.\nThese settings are saved to "+config.Path()+"."),
			huh.NewInput().
				Title("User ID").
				Description("The account id the diet backend files your meals under.").
				Value(&vals.userID),
			huh.NewInput().
				Title("Daily calorie goal").
				Description("Used when the backend has no goal for you.").
				Value(&vals.goal).
				Validate(validateGoal),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default view").
				Options(viewOpts...).
				Value(&vals.view),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithShowHelp(true)
}

func validateGoal(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a whole number of kcal above 0")
	}
	return nil
}

// ApplySetup writes the form answers into cfg.
func ApplySetup(cfg *config.Config, vals *SetupValues) {
	cfg.General.UserID = strings.TrimSpace(vals.userID)
	if n, err := strconv.Atoi(strings.TrimSpace(vals.goal)); err == nil && n > 0 {
		cfg.Goal.Daily = n
	}
	if vals.theme != "" {
		cfg.Appearance.Theme = vals.theme
	}
	if vals.view != "" {
		cfg.General.DefaultView = vals.view
	}
}

// saveSetupConfig persists the form answers and applies the theme and view.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()
	ApplySetup(&cfg, a.setupVals)
	theme.SetActive(cfg.Appearance.Theme)
	if m, err := report.ParseMode(cfg.General.DefaultView); err == nil {
		a.setMode(m)
	}
	return config.Save(cfg)
}
