package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// habitHues are the base hues habit color indexes cycle through.
var habitHues = []float64{262, 217, 160, 38, 0, 330, 190, 90}

// HabitColor returns the accent color for a habit's color index.
// Indexes past the hue table get progressively darker shades.
func HabitColor(index int) lipgloss.Color {
	if index < 0 {
		index = -index
	}
	hue := habitHues[index%len(habitHues)]
	round := index / len(habitHues)
	lightness := 0.62 - 0.08*float64(round%3)
	c := colorful.Hcl(hue, 0.55, lightness).Clamped()
	return lipgloss.Color(c.Hex())
}

// HabitAccent returns a header style tinted with the habit color.
func HabitAccent(index int) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(HabitColor(index))
}
