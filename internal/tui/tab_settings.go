package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/config"
	"github.com/theirongolddev/kburn/internal/pipeline"
	"github.com/theirongolddev/kburn/internal/report"
	"github.com/theirongolddev/kburn/internal/tui/components"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldUserID = iota
	settingsFieldBaseURL
	settingsFieldGoal
	settingsFieldTheme
	settingsFieldView
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldUserID:
		ti.Placeholder = "account id"
		ti.SetValue(cfg.General.UserID)
	case settingsFieldBaseURL:
		ti.Placeholder = config.DefaultBaseURL
		ti.SetValue(cfg.API.BaseURL)
	case settingsFieldGoal:
		ti.Placeholder = "2000 (kcal per day)"
		ti.SetValue(strconv.Itoa(cfg.Goal.Daily))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldView:
		ti.Placeholder = "daily, weekly or monthly"
		ti.SetValue(cfg.General.DefaultView)
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "60 (seconds, minimum 10)"
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		field := a.settings.cursor
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		// A new account or backend needs fresh data.
		if a.settings.saved && (field == settingsFieldUserID || field == settingsFieldBaseURL) && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.load)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldUserID:
		cfg.General.UserID = val
	case settingsFieldBaseURL:
		cfg.API.BaseURL = val
	case settingsFieldGoal:
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Goal.Daily = n
		}
	case settingsFieldTheme:
		for _, t := range theme.All {
			if t.Name == val {
				cfg.Appearance.Theme = val
				theme.SetActive(val)
				break
			}
		}
	case settingsFieldView:
		if m, err := report.ParseMode(val); err == nil {
			cfg.General.DefaultView = m.String()
		}
	case settingsFieldAutoRefresh:
		cfg.TUI.AutoRefresh = val == "true" || val == "1" || val == "yes"
		a.autoRefresh = cfg.TUI.AutoRefresh
	case settingsFieldRefreshInterval:
		if n, err := strconv.Atoi(val); err == nil && n >= int(minRefreshInterval.Seconds()) {
			cfg.TUI.RefreshIntervalSec = n
			a.refreshInterval = time.Duration(n) * time.Second
		}
	}

	if err := config.Validate(cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = config.Save(cfg)
	// Goal changes show up in the reports right away.
	a.recompute()
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	userID := config.GetUserID(cfg)
	if userID == "" {
		userID = "(not set)"
	}

	fields := []field{
		{"User ID", userID},
		{"API URL", config.GetBaseURL(cfg)},
		{"Daily Goal", cli.FormatKcal(cfg.Goal.Daily)},
		{"Theme", cfg.Appearance.Theme},
		{"Default View", cfg.General.DefaultView},
		{"Auto Refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
	}

	var formBody strings.Builder
	for i, f := range fields {
		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			padLen := components.CardInnerWidth(cw) - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value)
			if padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	// Data info card
	source, entries, synced := "none", 0, "never"
	if a.result != nil {
		source = a.result.Source
		entries = len(a.result.Entries)
		synced = cli.FormatAgo(a.result.SyncedAt, time.Now())
	}
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Data source:    ") + valueStyle.Render(source) + "\n")
	infoBody.WriteString(labelStyle.Render("Meals loaded:   ") + valueStyle.Render(cli.FormatNumber(int64(entries))) + "\n")
	infoBody.WriteString(labelStyle.Render("Last sync:      ") + valueStyle.Render(synced) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:      ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:    ") + valueStyle.Render(config.Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("Cache file:     ") + valueStyle.Render(pipeline.CachePath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Data", infoBody.String(), cw))

	return b.String()
}
