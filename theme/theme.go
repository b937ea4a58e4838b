package theme

import (
	"github.com/charmbracelet/lipgloss"

	"go-vj/modulation"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// pad swatches and help legend
	Solid rune // ■ lit
	Empty rune // □ unlit

	// sequencer row
	StepEmpty    rune // · no hit
	StepActive   rune // ● hit
	StepPlayhead rune // ▶ cursor on an empty step
	CursorActive rune // ◉ cursor on a hit

	// level bars
	BarFull  rune // █
	BarEmpty rune // ░

	Beat rune // ✱ beat indicator
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Solid: '■',
			Empty: '□',

			StepEmpty:    '·',
			StepActive:   '●',
			StepPlayhead: '▶',
			CursorActive: '◉',

			BarFull:  '█',
			BarEmpty: '░',

			Beat: '✱',
		},
	}
}

// Load builds a theme from a palette setting, falling back to plasma
func Load(name string) (*Theme, error) {
	p, err := LoadPalette(name)
	if err != nil {
		fallback, _ := Builtin("plasma")
		return New(fallback), err
	}
	return New(p), nil
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.1
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleCursor  = 0.6
	RoleActive  = 0.7
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color { return t.Color(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.Color(RoleSurface) }
func (t *Theme) FG() lipgloss.Color { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color { return t.Color(RoleActive) }
func (t *Theme) Cursor() lipgloss.Color { return t.Color(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return Lipgloss(t.Palette.Lookup(norm))
}

// RGB returns raw RGB for any normalized value (for Launchpad)
func (t *Theme) RGB(norm float64) modulation.RGB {
	return t.Palette.Lookup(norm)
}

// Lipgloss converts an RGB to a lipgloss colour
func Lipgloss(c modulation.RGB) lipgloss.Color {
	return lipgloss.Color(c.String())
}
