package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/kburn/internal/model"
	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// GoalBar renders consumed calories against the goal as a bar followed by
// the clamped percentage. The bar turns red once the goal is exceeded.
func GoalBar(p model.GoalProgress, width int) string {
	t := theme.Active
	color := t.GoalColor(p.Percent, p.Over)

	barW := max(width-lipgloss.Width(goalLabel(p))-1, 4)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(float64(p.Percent)/100) +
		spaceStyle.Render(" ") +
		labelStyle.Render(goalLabel(p))
}

func goalLabel(p model.GoalProgress) string {
	return fmt.Sprintf("%3d%%", p.Percent)
}

// MacroBar renders one macro as a labelled bar scaled against the largest
// macro of the day. Unknown macros show the placeholder instead of a bar.
func MacroBar(label string, m model.Macro, peak float64, color lipgloss.Color, labelW, barW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	head := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + spaceStyle.Render(" ")
	if !m.Known {
		return head + valueStyle.Render("–")
	}

	n := 0
	if peak > 0 {
		n = min(int(m.Value/peak*float64(barW)), barW)
	}
	return head +
		barStyle.Render(strings.Repeat("█", n)) +
		spaceStyle.Render(strings.Repeat(" ", barW-n+1)) +
		valueStyle.Render(fmt.Sprintf("%.1f g", m.Value))
}
