package midi

import (
	"context"
	"time"

	"go-vj/debug"
	"go-vj/engine"
	"go-vj/modulation"
	"go-vj/render"
	"go-vj/scene"
	"go-vj/sequencer"
)

// MirrorRate is how often the Launchpad LEDs are refreshed
const MirrorRate = time.Second / 15

// Status colours
var (
	ledOff       = modulation.Hex(0x000000)
	ledWhite     = modulation.Hex(0xffffff)
	ledScene     = modulation.Hex(0x283c78)
	ledOrange    = modulation.Hex(0xff6400)
	ledDimOrange = modulation.Hex(0xb45028)
	ledGreen     = modulation.Hex(0x00ff00)
	ledDimGreen  = modulation.Hex(0x006400)
	ledYellow    = modulation.Hex(0xffc800)
	ledDimYellow = modulation.Hex(0xb4b43c)
	ledPink      = modulation.Hex(0xff50b4)
	ledPurple    = modulation.Hex(0x9600c8)
	ledCyan      = modulation.Hex(0x00c8c8)
	ledRed       = modulation.Hex(0xff0000)
	ledDimRed    = modulation.Hex(0xb43c3c)
	ledBlue      = modulation.Hex(0x0064ff)

	// one colour per pattern variant
	ledVariants = [sequencer.Variants]modulation.RGB{ledDimGreen, ledYellow, ledRed}
)

// LegendEntry names one status colour Frame uses
type LegendEntry struct {
	Color modulation.RGB
	Name  string
	Desc  string
}

// Legend lists the status colours Frame uses
func Legend() []LegendEntry {
	return []LegendEntry{
		{ledWhite, "active", "current scene, beat, help shown"},
		{ledScene, "scene", "select scene, step scene"},
		{ledOrange, "flash", "white flash, effect"},
		{ledPurple, "combo", "random effect combo"},
		{ledGreen, "on", "wireframe, sequencer playing"},
		{ledCyan, "random", "random scene, orbit"},
		{ledVariants[0], "pattern 1", "kick/hihat/bass variant"},
		{ledVariants[1], "pattern 2", "also auto mode"},
		{ledVariants[2], "pattern 3", "also reset display, beat idle"},
		{ledPink, "rndbpm", "bpm random trigger"},
		{ledBlue, "effects", "reverb, filter, distortion level"},
	}
}

// Pad addresses a Launchpad LED
type Pad struct {
	Row, Col int
}

// LEDFrame is the full set of colours to show
type LEDFrame map[Pad]modulation.RGB

// Frame lays out the Launchpad for one engine snapshot and render view.
// The click rows show the scene's swatch grid.
func Frame(snap engine.Snapshot, view render.View) LEDFrame {
	f := make(LEDFrame, (GridRows+1)*(GridCols+1))
	st := snap.State

	for col := 0; col < GridCols; col++ {
		f[Pad{0, col}] = sceneLED(snap, col+1)
	}
	for col := 0; col < scene.Count-GridCols; col++ {
		f[Pad{1, col}] = sceneLED(snap, GridCols+col+1)
	}
	f[Pad{1, 4}] = lit(st.FlashTrigger, ledOrange, ledDimOrange)
	f[Pad{1, 5}] = ledPurple
	f[Pad{1, 6}] = lit(st.Wireframe, ledGreen, ledDimGreen)
	f[Pad{1, 7}] = ledCyan

	for i, inst := range sequencer.Instruments() {
		v := snap.Sequencer.Selection[inst]
		if v < 0 || v >= sequencer.Variants {
			v = 0
		}
		f[Pad{2, i}] = ledVariants[v]
	}
	f[Pad{2, 3}] = lit(snap.Sequencer.Playing, ledGreen, ledDimGreen)
	f[Pad{2, 4}] = lit(st.AutoMode, ledYellow, ledDimYellow)
	f[Pad{2, 5}] = lit(snap.RandomTrigger, ledPink, ledOff)
	hue := modulation.HSL{H: st.Color.Hue, S: 1, L: 0.5}.RGB()
	f[Pad{2, 6}] = lit(st.RandomColor, hue, ledOff)
	f[Pad{2, 7}] = ledWhite

	rows := clickRowLast - clickRowFirst + 1
	for row := clickRowFirst; row <= clickRowLast; row++ {
		g := (row - clickRowFirst) * render.GridSize / rows
		for col := 0; col < GridCols; col++ {
			f[Pad{row, col}] = view.Grid[g][col*render.GridSize/GridCols]
		}
	}

	f[Pad{0, GridCols}] = ledDimRed
	f[Pad{1, GridCols}] = lit(st.Beat, ledWhite, ledRed)
	f[Pad{2, GridCols}] = ledDimGreen
	f[Pad{3, GridCols}] = ledGreen
	f[Pad{4, GridCols}] = level(ledBlue, st.Effects.Reverb)
	f[Pad{5, GridCols}] = level(ledBlue, st.Effects.Filter)
	f[Pad{6, GridCols}] = level(ledBlue, st.Effects.Distortion)
	f[Pad{7, GridCols}] = lit(st.ShowHelp, ledWhite, ledOff)

	f[Pad{GridRows, 0}] = ledScene
	f[Pad{GridRows, 1}] = ledScene
	f[Pad{GridRows, 2}] = ledRed
	f[Pad{GridRows, 3}] = hue
	f[Pad{GridRows, 4}] = modulation.HSL{H: st.Color.Hue, S: modulation.Clamp01(st.Color.Saturation), L: 0.5}.RGB()
	f[Pad{GridRows, 5}] = modulation.HSL{H: 0, S: 0, L: modulation.Clamp01(st.Color.Brightness) / 2}.RGB()
	f[Pad{GridRows, 6}] = ledOrange
	f[Pad{GridRows, 7}] = ledCyan
	return f
}

func sceneLED(snap engine.Snapshot, n int) modulation.RGB {
	if n == snap.Scene {
		return ledWhite
	}
	return ledScene
}

func lit(on bool, yes, no modulation.RGB) modulation.RGB {
	if on {
		return yes
	}
	return no
}

// level dims c by v in [0,1]
func level(c modulation.RGB, v float64) modulation.RGB {
	k := modulation.Clamp01(v)
	return modulation.RGB{uint8(float64(c[0]) * k), uint8(float64(c[1]) * k), uint8(float64(c[2]) * k)}
}

// Diff returns the pads in next whose colour differs from prev
func Diff(prev, next LEDFrame) []LEDUpdate {
	var out []LEDUpdate
	for row := 0; row <= GridRows; row++ {
		for col := 0; col <= GridCols; col++ {
			p := Pad{row, col}
			c, ok := next[p]
			if !ok {
				continue
			}
			if old, seen := prev[p]; seen && old == c {
				continue
			}
			out = append(out, LEDUpdate{Row: row, Col: col, Color: c, Channel: ChannelStatic})
		}
	}
	return out
}

// LaunchpadSource supplies the current Launchpad, if any
type LaunchpadSource interface {
	GetLaunchpad() Controller
}

// Mirror keeps a Launchpad's LEDs in step with the engine
type Mirror struct {
	devices LaunchpadSource
	eng     interface{ Snapshot() engine.Snapshot }
	views   interface{ View() render.View }

	lastID string
	last   LEDFrame
}

// NewMirror creates a mirror
func NewMirror(devices LaunchpadSource, eng interface{ Snapshot() engine.Snapshot }, views interface{ View() render.View }) *Mirror {
	return &Mirror{devices: devices, eng: eng, views: views}
}

// Refresh sends the LEDs that changed since the last call. A different
// controller gets a full frame.
func (m *Mirror) Refresh() error {
	lp := m.devices.GetLaunchpad()
	if lp == nil {
		m.lastID, m.last = "", nil
		return nil
	}
	if lp.ID() != m.lastID {
		m.lastID, m.last = lp.ID(), nil
	}

	next := Frame(m.eng.Snapshot(), m.views.View())
	updates := Diff(m.last, next)
	if err := lp.SetLEDBatch(updates); err != nil {
		// resend everything next time
		m.last = nil
		return err
	}
	m.last = next
	return nil
}

// Run refreshes at MirrorRate until ctx is done
func (m *Mirror) Run(ctx context.Context) error {
	ticker := time.NewTicker(MirrorRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.Refresh(); err != nil {
				debug.LogEvery(30, "mirror", "refresh: %v", err)
			}
		}
	}
}
