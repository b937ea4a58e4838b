package widgets

import (
	"fmt"
	"math"
	"strings"

	"go-vj/sequencer"
)

// StepSymbols are the runes a step row is drawn with
type StepSymbols struct {
	Empty, Hit, Cursor, CursorHit rune
}

// StepRow draws one instrument's pattern with the cursor marked.
// cursor < 0 hides it.
func StepRow(sel sequencer.Selection, inst sequencer.Instrument, cursor int, sym StepSymbols) string {
	var out strings.Builder
	for step := 0; step < sequencer.Steps; step++ {
		if step > 0 && step%4 == 0 {
			out.WriteByte(' ')
		}
		hit := sel.Hit(inst, step)
		switch {
		case step == cursor && hit:
			out.WriteRune(sym.CursorHit)
		case step == cursor:
			out.WriteRune(sym.Cursor)
		case hit:
			out.WriteRune(sym.Hit)
		default:
			out.WriteRune(sym.Empty)
		}
	}
	return out.String()
}

// LevelBar draws v in [0,1] as a bar of width cells
func LevelBar(v float64, width int, full, empty rune) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	n := int(math.Round(v * float64(width)))
	return strings.Repeat(string(full), n) + strings.Repeat(string(empty), width-n)
}

// Meter is a labelled level bar with its value as a percentage
func Meter(label string, v float64, width int, full, empty rune) string {
	pct := 0
	if v > 0 {
		pct = int(math.Round(math.Min(1, v) * 100))
	}
	return fmt.Sprintf("%-10s %s %3d%%", label, LevelBar(v, width, full, empty), pct)
}
