package cmd

import (
	"fmt"

	"github.com/theirongolddev/kburn/internal/config"
	"github.com/theirongolddev/kburn/internal/report"
	"github.com/theirongolddev/kburn/internal/tui"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagTUIView string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTUIView, "view", "", "Initial view: daily, weekly or monthly (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Load config for theme
	cfg, _ := config.Load()
	theme.SetActive(cfg.Appearance.Theme)

	view := flagTUIView
	if view == "" {
		view = cfg.General.DefaultView
	}
	mode, err := report.ParseMode(view)
	if err != nil {
		return err
	}

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Load:      buildLoader(),
		Goal:      goalFunc(),
		Mode:      mode,
		Filter:    flagFood,
		NeedSetup: !config.Exists() && flagFile == "" && flagUser == "",
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
