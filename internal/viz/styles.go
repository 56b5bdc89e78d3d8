package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are derived from a Theme.
type Styles struct {
	Canvas    lipgloss.Style
	Panel     lipgloss.Style
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Equation  lipgloss.Style
	Struck    lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Recording lipgloss.Style
	Graph     lipgloss.Style
	Help      lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Foreground(t.Surface).Padding(1, 2),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(t.Title).MarginBottom(1),
		Label:     lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		Value:     lipgloss.NewStyle().Foreground(t.Text),
		Equation:  lipgloss.NewStyle().Foreground(t.Accent),
		Struck:    lipgloss.NewStyle().Foreground(t.Muted).Strikethrough(true),
		Running:   lipgloss.NewStyle().Bold(true).Foreground(t.Running),
		Paused:    lipgloss.NewStyle().Bold(true).Foreground(t.Paused),
		Recording: lipgloss.NewStyle().Bold(true).Foreground(t.Recording).Blink(true),
		Graph:     lipgloss.NewStyle().Foreground(t.Surface).Padding(1, 0),
		Help:      lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
	}
}

// ProgressBar renders fraction done as a bar of the given width.
func ProgressBar(percent float64, width int, done, rest lipgloss.Style) string {
	filled := int(percent * float64(width))
	filled = max(0, min(width, filled))
	return done.Render(strings.Repeat("█", filled)) + rest.Render(strings.Repeat("░", width-filled))
}

// Ticks renders boundary marks under a progress bar of the given width
// covering [0, span].
func Ticks(width int, span float64, marks []float64) string {
	row := []rune(strings.Repeat(" ", width+1))
	for _, m := range marks {
		i := int(m / span * float64(width))
		if i >= 0 && i <= width {
			row[i] = '╵'
		}
	}
	return string(row)
}

// Separator is a decorative rule.
func Separator(width int, s lipgloss.Style) string {
	mid := width / 2
	return s.Render(strings.Repeat("─", max(mid-3, 0)) + " ◆ " + strings.Repeat("─", max(width-mid-3, 0)))
}
