package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)

	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true, false, false, false).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().Width(10)

	helpStyle = lipgloss.NewStyle().Italic(true)
)

// Canvas padding in cells, for mapping mouse positions back onto the grid.
const (
	padTop  = 1
	padLeft = 2
)

// GradientText colours each rune along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, err := colorful.Hex(string(start))
	if err != nil {
		a = colorful.Color{R: 1, G: 1, B: 1}
	}
	b, err := colorful.Hex(string(end))
	if err != nil {
		b = a
	}

	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

// ProgressBar renders percent in [0, 1] as a bar of width cells.
func ProgressBar(percent float64, width int, t Theme) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return lipgloss.NewStyle().Foreground(t.Accent).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(t.Muted).Render(strings.Repeat("░", width-filled))
}

// SparklineChart renders the last width values scaled to their range.
func SparklineChart(values []float64, width int, t Theme) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		b.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return lipgloss.NewStyle().Foreground(t.Secondary).Render(b.String())
}

func Separator(width int, t Theme) string {
	if width < 8 {
		return ""
	}
	mid := width / 2
	return lipgloss.NewStyle().Foreground(t.Muted).
		Render(strings.Repeat("─", mid-3) + " ✦ " + strings.Repeat("─", width-mid-3))
}
