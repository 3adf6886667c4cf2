// Package tui provides the interactive Bubble Tea report browser for kburn.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/kburn/internal/calendar"
	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/config"
	"github.com/theirongolddev/kburn/internal/localtime"
	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/pipeline"
	"github.com/theirongolddev/kburn/internal/report"
	"github.com/theirongolddev/kburn/internal/tui/components"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the first load finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// Options configures the dashboard.
type Options struct {
	// Load fetches entries; it is called once at start and on every refresh.
	Load pipeline.LoadFunc
	// Goal resolves the goal for a report date. Nil uses the config file.
	Goal report.GoalFunc
	// Mode is the report shown first.
	Mode report.Mode
	// Filter keeps only entries whose name contains it.
	Filter string
	// NeedSetup shows the first-run form once data has loaded.
	NeedSetup bool
	// Now reads the wall clock. Nil uses localtime.Now.
	Now func() localtime.Instant
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	load     pipeline.LoadFunc
	goalFn   report.GoalFunc
	result   *pipeline.LoadResult
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Report state. daily or period is current depending on the mode;
	// selDaily is the day picked inside a week or month.
	nav      report.Navigator
	daily    report.Daily
	period   report.Period
	selDaily report.Daily
	hasSel   bool
	viewErr  error

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool
	message         string

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Name filter
	filter      string
	filtering   bool
	filterInput textinput.Model

	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues // shared with the form across App copies
	needSetup bool

	spinner spinner.Model
	now     func() localtime.Instant
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5 // minimum content area height
	headerHeight     = 2 // tab bar + title row

	loadTimeout        = 30 * time.Second
	minRefreshInterval = 10 * time.Second
)

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures the TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	cfg := loadConfigOrDefault()
	refreshInterval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < minRefreshInterval {
		refreshInterval = 60 * time.Second
	}

	now := opts.Now
	if now == nil {
		now = localtime.Now
	}
	goalFn := opts.Goal
	if goalFn == nil {
		goalFn = func(backend int, d calendar.Date) int {
			return config.ResolveGoal(loadConfigOrDefault(), backend, d)
		}
	}

	return App{
		load:            opts.Load,
		goalFn:          goalFn,
		nav:             report.NewNavigator(now(), opts.Mode),
		activeTab:       tabForMode(opts.Mode),
		filter:          opts.Filter,
		needSetup:       opts.NeedSetup,
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
		now:             now,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.load),
		a.spinner.Tick,
		tickCmd(),
	)
}

func tabForMode(m report.Mode) int {
	switch m {
	case report.ModeWeekly:
		return components.TabWeekly
	case report.ModeMonthly:
		return components.TabMonthly
	default:
		return components.TabDaily
	}
}

// modeForTab reports the report mode shown by tab, false for Settings.
func modeForTab(tab int) (report.Mode, bool) {
	switch tab {
	case components.TabDaily:
		return report.ModeDaily, true
	case components.TabWeekly:
		return report.ModeWeekly, true
	case components.TabMonthly:
		return report.ModeMonthly, true
	}
	return 0, false
}

func (a *App) setMode(m report.Mode) {
	a.nav.SetMode(m)
	a.activeTab = tabForMode(m)
	a.recompute()
}

func (a *App) selectTab(tab int) {
	if tab < 0 || tab >= len(components.Tabs) {
		return
	}
	if m, ok := modeForTab(tab); ok {
		a.setMode(m)
		return
	}
	a.activeTab = tab
}

func (a App) onReportTab() bool {
	_, ok := modeForTab(a.activeTab)
	return ok
}

// entries returns the loaded entries with the name filter applied.
func (a App) entries() []model.MealLogEntry {
	if a.result == nil {
		return nil
	}
	if a.filter == "" {
		return a.result.Entries
	}
	return pipeline.FilterByName(a.result.Entries, a.filter)
}

func (a *App) recompute() {
	a.viewErr = nil
	a.hasSel = false
	if a.result == nil {
		return
	}

	entries := a.entries()
	cur := a.nav.Cursor()
	goal := a.goalFn(a.result.Goal, cur.Anchor())

	var err error
	switch a.nav.Mode() {
	case report.ModeWeekly:
		a.period, err = report.WeeklyView(entries, cur, goal)
	case report.ModeMonthly:
		a.period, err = report.MonthlyView(entries, cur, goal)
	default:
		a.daily, err = report.DailyView(entries, cur, goal)
	}
	if err != nil {
		a.viewErr = err
		return
	}

	if d, ok := a.nav.SelectedDate(); ok {
		a.selDaily, err = report.DailyView(entries, calendar.NewDayCursor(d), a.goalFn(a.result.Goal, d))
		a.hasSel = err == nil
		a.viewErr = err
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to setup form if active
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		a.result, a.loadErr = msg.Result, msg.Err
		a.recompute()

		// Activate first-run setup after data loads
		if a.needSetup {
			vals := NewSetupValues(loadConfigOrDefault())
			a.setupVals = &vals
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing {
			if time.Since(a.lastRefresh) >= a.refreshInterval {
				a.refreshing = true
				cmds = append(cmds, refreshDataCmd(a.load))
			}
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Err != nil || msg.Result == nil {
			// Keep showing the last good data.
			if a.result == nil {
				a.loadErr = msg.Err
			} else if msg.Err != nil {
				a.message = "refresh failed: " + msg.Err.Error()
			}
			return a, nil
		}
		a.result, a.loadErr = msg.Result, nil
		a.loadTime = msg.LoadTime
		a.message = ""
		a.recompute()
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Settings tab has its own keybindings (text input)
	if a.activeTab == components.TabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	// Filter input intercepts all keys when active
	if a.filtering {
		return a.updateFilterInput(msg)
	}

	// Help toggle
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}

	// Dismiss help
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// Settings tab navigation (non-editing mode)
	if a.activeTab == components.TabSettings {
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit

	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.load)
		}
		return a, nil

	case "R":
		a.autoRefresh = !a.autoRefresh
		// Persist to config (best-effort, ignore errors)
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(cfg)
		return a, nil

	case "d", "w", "m", "x":
		a.selectTab(components.TabIdxByKey(rune(key[0])))
		return a, nil

	case "tab":
		a.selectTab((a.activeTab + 1) % len(components.Tabs))
		return a, nil

	case "shift+tab":
		a.selectTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		return a, nil
	}

	if !a.onReportTab() {
		return a, nil
	}

	switch key {
	case "left", "h":
		a.nav.Navigate(calendar.Prev)
		a.recompute()
	case "right", "l":
		a.nav.Navigate(calendar.Next)
		a.recompute()
	case "j", "down":
		a.nav.MoveSelection(1)
		a.recompute()
	case "k", "up":
		a.nav.MoveSelection(-1)
		a.recompute()
	case "enter":
		if a.nav.OpenSelectedDay() {
			a.activeTab = components.TabDaily
			a.recompute()
		}
	case "esc":
		if _, ok := a.nav.Selected(); ok {
			a.nav.ClearSelection()
		} else {
			a.filter = ""
		}
		a.recompute()
	case "t":
		a.nav.Today(a.now())
		a.recompute()
	case "/":
		a.filtering = true
		a.filterInput = newFilterInput(a.filter)
		cmd := a.filterInput.Focus()
		return a, cmd
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if !a.onReportTab() {
			return a, nil
		}
		delta := 1
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		if a.nav.Mode() == report.ModeDaily {
			a.nav.Navigate(calendar.Direction(delta))
		} else {
			a.nav.MoveSelection(delta)
		}
		a.recompute()
		return a, nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if msg.Y == 0 {
			a.selectTab(a.tabAtX(msg.X))
			return a, nil
		}
		if i := a.chartIndexAt(msg.X, msg.Y); i != components.NoSelection {
			a.nav.Toggle(i)
			a.recompute()
		}
		return a, nil
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if err := a.saveSetupConfig(); err != nil {
			a.message = "could not save config: " + err.Error()
		}
		a.needSetup = false
		a.setupForm = nil
		// The user id may have changed; load again with it.
		a.refreshing = true
		return a, refreshDataCmd(a.load)
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func newFilterInput(current string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "food name"
	ti.CharLimit = 64
	ti.Width = 30
	ti.SetValue(current)
	return ti
}

// updateFilterInput handles key events while the filter is being typed.
func (a App) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.filter = strings.TrimSpace(a.filterInput.Value())
		a.filtering = false
		a.recompute()
		return a, nil
	case "esc":
		a.filtering = false
		return a, nil
	}

	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// contentOffset is the left margin when content is centered in a wide
// terminal.
func (a App) contentOffset() int {
	return max((a.width-a.contentWidth())/2, 0)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  kburn needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ kburn"))
	b.WriteString(subtitleStyle.Render(" · Calorie Reports"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading meal log..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	writeSection := func(name string, bindings []struct{ key, desc string }) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, bind := range bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	writeSection("Navigation", []struct{ key, desc string }{
		{"d w m x", "Daily / Weekly / Monthly / Settings"},
		{"tab", "Next tab"},
		{"← → h l", "Previous / Next period"},
		{"j k", "Select a day in the week or month"},
		{"Enter", "Open the selected day"},
		{"t", "Jump to today"},
	})
	b.WriteString("\n")
	writeSection("Actions", []struct{ key, desc string }{
		{"/", "Filter by food name"},
		{"Esc", "Clear selection / filter"},
		{"r", "Refresh data"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + title row
	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderTitleRow(w)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, a.statusInfo(), time.Now())

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Tab content
	var content string
	switch {
	case a.activeTab == components.TabSettings:
		content = a.renderSettingsTab(cw)
	case a.result == nil:
		content = a.renderLoadError(cw)
	case a.viewErr != nil:
		content = components.ContentCard("Error", a.viewErr.Error(), cw)
	case a.nav.Mode() == report.ModeDaily:
		content = a.renderDailyTab(cw)
	default:
		content = a.renderPeriodTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Place content with background fill (handles centering when w > cw)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	// 8. Stack vertically
	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	// 9. Ensure entire terminal is filled with background
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderTitleRow shows the period under the cursor and the active filter.
func (a App) renderTitleRow(w int) string {
	t := theme.Active

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	row := dimStyle.Render(" ")
	if a.onReportTab() {
		row += dimStyle.Render("◂ ") + accentStyle.Render(cli.FormatCursorTitle(a.nav.Cursor())) + dimStyle.Render(" ▸")
	} else {
		row += accentStyle.Render("Settings")
	}

	switch {
	case a.filtering:
		row += dimStyle.Render(" │ ") + a.filterInput.View()
	case a.filter != "":
		row += dimStyle.Render(" │ food: ") + accentStyle.Render(a.filter)
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(row)
}

func (a App) statusInfo() components.StatusInfo {
	info := components.StatusInfo{
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
		Message:     a.message,
	}
	if a.result != nil {
		info.Source = a.result.Source
		info.SyncedAt = a.result.SyncedAt
		info.Stale = a.result.Stale
	}
	return info
}

func (a App) renderLoadError(cw int) string {
	t := theme.Active
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	msg := "no data"
	if a.loadErr != nil {
		msg = a.loadErr.Error()
	}
	body := warnStyle.Render(truncStr(msg, components.CardInnerWidth(cw))) + "\n\n" +
		dimStyle.Render("[r] retry  [x] settings  [q] quit")
	return components.ContentCard("Could not load meals", body, cw)
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func runLoad(load pipeline.LoadFunc) (*pipeline.LoadResult, time.Duration, error) {
	start := time.Now()
	if load == nil {
		return nil, 0, errors.New("no data source configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	res, err := load(ctx)
	return res, time.Since(start), err
}

// loadDataCmd runs the first load in the background.
func loadDataCmd(load pipeline.LoadFunc) tea.Cmd {
	return func() tea.Msg {
		res, took, err := runLoad(load)
		return DataLoadedMsg{Result: res, Err: err, LoadTime: took}
	}
}

// refreshDataCmd reloads data in the background (no loading screen).
func refreshDataCmd(load pipeline.LoadFunc) tea.Cmd {
	return func() tea.Msg {
		res, took, err := runLoad(load)
		return RefreshDataMsg{Result: res, Err: err, LoadTime: took}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
