package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/kburn/internal/cli"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar reports about the loaded data.
type StatusInfo struct {
	Source      string // api, cache or file
	SyncedAt    time.Time
	Stale       bool
	Refreshing  bool
	AutoRefresh bool
	// Message replaces the key hints on the left when set.
	Message string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo, now time.Time) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	left := base.Render(" [?]help  [r]efresh  [q]uit")
	if info.Message != "" {
		left = accent.Render(" " + info.Message)
	}

	var right []string
	if info.Refreshing {
		right = append(right, accent.Render("refreshing…"))
	} else if info.AutoRefresh {
		right = append(right, base.Render("auto"))
	}
	if info.Source != "" {
		src := base.Render("Data: ") + accent.Render(info.Source)
		if !info.SyncedAt.IsZero() {
			src += base.Render(fmt.Sprintf(" (%s)", cli.FormatAgo(info.SyncedAt, now)))
		}
		right = append(right, src)
	}
	if info.Stale {
		right = append(right, warn.Render("STALE"))
	}
	rightStr := strings.Join(right, base.Render("  ")) + base.Render(" ")

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(rightStr), 0)
	bar := left + base.Render(strings.Repeat(" ", padding)) + rightStr

	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).MaxHeight(1).Render(bar)
}
