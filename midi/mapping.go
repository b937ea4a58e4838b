package midi

import (
	"go-vj/engine"
	"go-vj/scene"
	"go-vj/sequencer"
)

// Dispatcher consumes logical commands and reports the screen the click
// pads spread over
type Dispatcher interface {
	Dispatch(c engine.Command)
	ScreenSize() (w, h int)
}

// Launchpad layout (row 0 is the bottom row):
//
//	row 0        scenes 1-8
//	row 1        scenes 9-12, flash, combo, wireframe, random scene
//	row 2        kick/hihat/bass pattern, sequencer, auto, random trigger,
//	             random colour, reset colour
//	rows 3-7     click effects at the pad's screen position
//	side col 8   bpm -/+, volume -/+, reverb, filter, distortion, help
//	top row 8    scene -/+, reset, hue, saturation, brightness, effect,
//	             orbit
const (
	clickRowFirst = 3
	clickRowLast  = 7

	bpmStep    = 5
	volumeStep = 0.1
	effectStep = 0.1
	orbitStep  = 0.3
)

var (
	row1 = [GridCols]engine.Command{
		4: {Kind: engine.TriggerFlash},
		5: {Kind: engine.TriggerRandomCombo},
		6: {Kind: engine.ToggleWireframe},
		7: {Kind: engine.RandomScene},
	}
	row2 = [GridCols]engine.Command{
		{Kind: engine.CyclePattern, Instrument: sequencer.Kick},
		{Kind: engine.CyclePattern, Instrument: sequencer.Hihat},
		{Kind: engine.CyclePattern, Instrument: sequencer.Bass},
		{Kind: engine.ToggleSequencer},
		{Kind: engine.ToggleAutoMode},
		{Kind: engine.ToggleRandomBpmTrigger},
		{Kind: engine.ToggleRandomColor},
		{Kind: engine.ResetColor},
	}
	sideCol = [GridRows]engine.Command{
		{Kind: engine.AdjustBPM, N: -bpmStep},
		{Kind: engine.AdjustBPM, N: bpmStep},
		{Kind: engine.AdjustVolume, Value: -volumeStep},
		{Kind: engine.AdjustVolume, Value: volumeStep},
		{Kind: engine.AdjustEffect, Effect: engine.Reverb, Value: effectStep},
		{Kind: engine.AdjustEffect, Effect: engine.Filter, Value: effectStep},
		{Kind: engine.AdjustEffect, Effect: engine.Distortion, Value: effectStep},
		{Kind: engine.ToggleHelp},
	}
	topRow = [GridCols]engine.Command{
		{Kind: engine.StepScene, N: -1},
		{Kind: engine.StepScene, N: 1},
		{Kind: engine.ResetDisplay},
		{Kind: engine.RandomizeHue},
		{Kind: engine.RandomizeSaturation},
		{Kind: engine.RandomizeBrightness},
		{Kind: engine.TriggerEffect},
		{Kind: engine.Orbit, X: orbitStep},
	}
)

// PadCommand maps a Launchpad pad to a command. width and height are the
// screen size the click pads spread over.
func PadCommand(ev PadEvent, width, height int) (engine.Command, bool) {
	row, col := ev.Row, ev.Col
	switch {
	case row == GridRows && col >= 0 && col < GridCols:
		c := topRow[col]
		if c.Kind == engine.TriggerEffect {
			c.Value = float64(ev.Velocity) / 127
		}
		return c, true
	case col == GridCols && row >= 0 && row < GridRows:
		return sideCol[row], true
	case col < 0 || col >= GridCols:
		return engine.Command{}, false
	case row == 0:
		return engine.Command{Kind: engine.SelectScene, N: col + 1}, true
	case row == 1 && col < scene.Count-GridCols:
		return engine.Command{Kind: engine.SelectScene, N: GridCols + col + 1}, true
	case row == 1:
		return row1[col], true
	case row == 2:
		return row2[col], true
	case row >= clickRowFirst && row <= clickRowLast:
		x := (float64(col) + 0.5) / GridCols * float64(width)
		y := (float64(clickRowLast-row) + 0.5) / float64(clickRowLast-clickRowFirst+1) * float64(height)
		return engine.Command{Kind: engine.Click, X: x, Y: y}, true
	}
	return engine.Command{}, false
}

// Keyboard layout: C2-B2 (36-47) select scenes 1-12; every other key fires
// an effect whose strength follows velocity.
const (
	sceneNoteFirst = 36
	sceneNoteLast  = sceneNoteFirst + scene.Count - 1
)

// NoteCommand maps a keyboard note to a command
func NoteCommand(ev NoteEvent) engine.Command {
	if ev.Note >= sceneNoteFirst && ev.Note <= sceneNoteLast {
		return engine.Command{Kind: engine.SelectScene, N: int(ev.Note-sceneNoteFirst) + 1}
	}
	return engine.Command{Kind: engine.TriggerEffect, Value: float64(ev.Velocity) / 127}
}

// Route forwards a controller's events to d until both channels close
func Route(c Controller, d Dispatcher) {
	pads, notes := c.PadEvents(), c.NoteEvents()
	for pads != nil || notes != nil {
		select {
		case ev, ok := <-pads:
			if !ok {
				pads = nil
				continue
			}
			w, h := d.ScreenSize()
			if cmd, ok := PadCommand(ev, w, h); ok {
				d.Dispatch(cmd)
			}
		case ev, ok := <-notes:
			if !ok {
				notes = nil
				continue
			}
			d.Dispatch(NoteCommand(ev))
		}
	}
}
