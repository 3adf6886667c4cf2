package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/kburn/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// NoSelection marks a chart with no highlighted bar.
const NoSelection = -1

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := min(max(int(v/peak*float64(len(blocks)-1)), 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart describes a vertical bar chart with an optional goal line and a
// highlighted bar.
type BarChart struct {
	Values []float64
	Labels []string
	// Max is the y-axis floor for the ceiling; the ceiling is never below
	// the largest value.
	Max      float64
	Goal     float64
	Selected int
	Color    lipgloss.Color
	Width    int
	Height   int
}

// chartLayout is the geometry shared by rendering and hit testing.
type chartLayout struct {
	ceiling      float64
	tickStep     float64
	numIntervals int
	rowsPerTick  int
	yLabelW      int
	barW         int
	gap          int
}

func (c BarChart) layout() chartLayout {
	maxVal := c.Max
	for _, v := range c.Values {
		maxVal = max(maxVal, v)
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling
	tickStep := chartTickStep(maxVal)
	maxIntervals := max(c.Height/2, 2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(int(math.Round(ceiling/tickStep)), 1)
	rowsPerTick := max(c.Height/numIntervals, 2)

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	chartW := max(c.Width-yLabelW-1, 5)

	n := len(c.Values)
	gap := 1
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
		if barW < 1 {
			gap = 0
			barW = max(chartW/n, 1)
		}
	} else {
		gap = 0
	}
	barW = min(barW, 6)

	return chartLayout{
		ceiling:      ceiling,
		tickStep:     tickStep,
		numIntervals: numIntervals,
		rowsPerTick:  rowsPerTick,
		yLabelW:      yLabelW,
		barW:         barW,
		gap:          gap,
	}
}

// IndexAt returns the bar under column x of the rendered chart, or
// NoSelection when x falls on the axis or between bars.
func (c BarChart) IndexAt(x int) int {
	if len(c.Values) == 0 {
		return NoSelection
	}
	l := c.layout()
	x -= l.yLabelW + 1
	if x < 0 {
		return NoSelection
	}
	stride := l.barW + l.gap
	i := x / stride
	if i >= len(c.Values) || x%stride >= l.barW {
		return NoSelection
	}
	return i
}

// Render draws the chart. Bars over the goal are red, the selected bar is
// drawn in the accent color, and the goal line runs through empty cells.
func (c BarChart) Render() string {
	if len(c.Values) == 0 {
		return ""
	}
	if c.Width < 15 || c.Height < 3 {
		return Sparkline(c.Values, c.Color)
	}

	t := theme.Active
	l := c.layout()
	chartH := l.rowsPerTick * l.numIntervals
	n := len(c.Values)
	axisLen := n*l.barW + max(0, n-1)*l.gap

	tickLabels := make(map[int]string)
	for i := 1; i <= l.numIntervals; i++ {
		tickLabels[i*l.rowsPerTick] = formatChartLabel(l.tickStep * float64(i))
	}

	goalRow := 0
	if c.Goal > 0 {
		goalRow = max(int(math.Round(c.Goal/l.ceiling*float64(chartH))), 1)
	}

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	goalStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	barStyle := func(i int, v float64) lipgloss.Style {
		color := c.Color
		switch {
		case i == c.Selected:
			color = t.AccentBright
		case c.Goal > 0 && v > c.Goal:
			color = t.Red
		}
		return lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := l.ceiling * float64(row) / float64(chartH)
		rowBottom := l.ceiling * float64(row-1) / float64(chartH)

		label := tickLabels[row]
		if row == goalRow && label == "" {
			label = "goal"
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", l.yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range c.Values {
			if i > 0 && l.gap > 0 {
				if row == goalRow {
					b.WriteString(goalStyle.Render(strings.Repeat("─", l.gap)))
				} else {
					b.WriteString(spaceStyle.Render(strings.Repeat(" ", l.gap)))
				}
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle(i, v).Render(strings.Repeat("█", l.barW)))
			case v > rowBottom:
				frac := (v - rowBottom) / (rowTop - rowBottom)
				idx := min(max(int(frac*8), 1), 8)
				b.WriteString(barStyle(i, v).Render(strings.Repeat(string(blocks[idx]), l.barW)))
			case row == goalRow:
				b.WriteString(goalStyle.Render(strings.Repeat("─", l.barW)))
			default:
				b.WriteString(spaceStyle.Render(strings.Repeat(" ", l.barW)))
			}
		}
		b.WriteString("\n")
	}

	// X-axis line with 0 label
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", l.yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(c.Labels) == n {
		b.WriteString("\n")
		b.WriteString(spaceStyle.Render(strings.Repeat(" ", l.yLabelW+1)))
		b.WriteString(axisStyle.Render(c.axisLabels(l, axisLen)))
	}

	return b.String()
}

// axisLabels lays the x labels out under their bars, skipping any that
// would collide with the previous one. The selected bar's label always wins.
func (c BarChart) axisLabels(l chartLayout, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	stride := l.barW + l.gap

	place := func(i int) bool {
		lbl := []rune(c.Labels[i])
		pos := i * stride
		if pos+len(lbl) > axisLen {
			pos = max(axisLen-len(lbl), 0)
		}
		for j := pos; j < pos+len(lbl) && j < axisLen; j++ {
			if buf[j] != ' ' {
				return false
			}
		}
		copy(buf[pos:], lbl)
		return true
	}

	if c.Selected >= 0 && c.Selected < len(c.Labels) {
		place(c.Selected)
	}
	lastEnd := -1
	for i := range c.Labels {
		if i == c.Selected || i*stride <= lastEnd {
			continue
		}
		if place(i) {
			lastEnd = i*stride + len([]rune(c.Labels[i]))
		}
	}
	return strings.TrimRight(string(buf), " ")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
