package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-vj/modulation"
)

// Swatch renders glyph in colour c
func Swatch(c modulation.RGB, glyph rune) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.String())).Render(string(glyph))
}

// SwatchGrid renders one Launchpad page of colours. Row 0 is the bottom row,
// as on the device, so it is printed last.
func SwatchGrid(grid [8][8]modulation.RGB, glyph rune) string {
	lines := make([]string, 0, len(grid))
	for row := len(grid) - 1; row >= 0; row-- {
		cells := make([]string, len(grid[row]))
		for col, c := range grid[row] {
			cells[col] = Swatch(c, glyph)
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

// LegendItem names what a pad colour means
type LegendItem struct {
	Color modulation.RGB
	Name  string
	Desc  string
}

// Legend renders one line per item with the names aligned
func Legend(items []LegendItem, glyph rune) string {
	width := 0
	for _, it := range items {
		width = max(width, len(it.Name))
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("  %s %-*s  %s", Swatch(it.Color, glyph), width, it.Name, it.Desc)
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
