package midi

import (
	"fmt"
	"sync/atomic"

	colorful "github.com/lucasb-eyer/go-colorful"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-vj/debug"
	"go-vj/modulation"
)

var ledSendCount uint64

// Launchpad X SysEx bodies (without F0/F7)
var (
	sysexProgrammerMode = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}
	sysexMaxBrightness  = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}
	sysexExternalLEDs   = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x0A, 0x01, 0x01}
)

// LaunchpadController handles a Novation Launchpad X
type LaunchpadController struct {
	id       string
	send     func(msg gomidi.Message) error
	stopFunc func()

	padChan  chan PadEvent
	noteChan chan NoteEvent
}

// NewLaunchpadController switches the device to programmer mode and starts
// listening for pads. Either port may be nil.
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:       id,
		padChan:  make(chan PadEvent, 32),
		noteChan: make(chan NoteEvent, 32),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		lp.send = send
		for _, body := range [][]byte{sysexProgrammerMode, sysexMaxBrightness, sysexExternalLEDs} {
			if err := lp.send(gomidi.SysEx(body)); err != nil {
				return nil, fmt.Errorf("sysex: %w", err)
			}
		}
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, lp.handle)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

func (lp *LaunchpadController) handle(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8
	var cc, value uint8

	// grid + side column
	if msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0 {
		if row, col := noteToRowCol(note); row >= 0 {
			lp.emit(PadEvent{Row: row, Col: col, Velocity: velocity})
		}
	}
	// top row
	if msg.GetControlChange(&channel, &cc, &value) && value > 0 {
		if row, col := ccToRowCol(cc); row >= 0 {
			lp.emit(PadEvent{Row: row, Col: col, Velocity: value})
		}
	}
}

func (lp *LaunchpadController) emit(ev PadEvent) {
	select {
	case lp.padChan <- ev:
	default:
	}
}

func (lp *LaunchpadController) ID() string { return lp.id }

func (lp *LaunchpadController) Type() ControllerType { return ControllerLaunchpad }

func (lp *LaunchpadController) PadEvents() <-chan PadEvent { return lp.padChan }

// NoteEvents never fires; pads arrive as PadEvents
func (lp *LaunchpadController) NoteEvents() <-chan NoteEvent { return lp.noteChan }

// SetLEDBatch sends one NoteOn per pad
func (lp *LaunchpadController) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil || len(updates) == 0 {
		return nil
	}
	for _, u := range updates {
		msg := gomidi.NoteOn(u.Channel, rowColToNote(u.Row, u.Col), PaletteIndex(u.Color))
		if err := lp.send(msg); err != nil {
			return fmt.Errorf("led %d,%d: %w", u.Row, u.Col, err)
		}
	}

	count := atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	if count%500 < uint64(len(updates)) {
		debug.Log("lp-send", "batch count=%d (this batch=%d)", count, len(updates))
	}
	return nil
}

// Close blanks every LED and stops listening
func (lp *LaunchpadController) Close() error {
	if lp.send != nil {
		var updates []LEDUpdate
		for row := 0; row <= GridRows; row++ {
			for col := 0; col <= GridCols; col++ {
				if row == GridRows && col == GridCols {
					continue // no LED at 8,8
				}
				updates = append(updates, LEDUpdate{Row: row, Col: col})
			}
		}
		lp.SetLEDBatch(updates)
	}
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	close(lp.padChan)
	close(lp.noteChan)
	return nil
}

// paletteEntry is one Launchpad X palette velocity and its approximate colour
type paletteEntry struct {
	velocity uint8
	color    colorful.Color
}

func entry(vel uint8, hex uint32) paletteEntry {
	rgb := modulation.Hex(hex)
	return paletteEntry{vel, colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}}
}

var launchpadPalette = []paletteEntry{
	entry(0, 0x000000),   // off
	entry(5, 0xff0000),   // red
	entry(6, 0xff5050),   // bright red
	entry(7, 0xb43c3c),   // dim red
	entry(9, 0xff6400),   // orange
	entry(11, 0xb45028),  // dim orange
	entry(13, 0xffc800),  // yellow
	entry(17, 0x00b400),  // green
	entry(19, 0x006400),  // dim green
	entry(21, 0x00ff00),  // bright green
	entry(37, 0x00c8c8),  // cyan
	entry(43, 0x283c78),  // dim blue
	entry(45, 0x0064ff),  // blue
	entry(47, 0x5096ff),  // bright blue
	entry(49, 0x9600c8),  // purple
	entry(53, 0xff50b4),  // pink
	entry(78, 0x6464ff),  // light blue
	entry(84, 0xff9632),  // bright orange
	entry(87, 0x96ff64),  // lime
	entry(97, 0xb4b43c),  // dim yellow
	entry(119, 0xffffff), // white
}

// PaletteIndex finds the nearest Launchpad X palette velocity for a colour,
// measured in Lab space.
func PaletteIndex(rgb modulation.RGB) uint8 {
	c := colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}
	best := launchpadPalette[0].velocity
	bestDist := -1.0
	for _, p := range launchpadPalette {
		d := c.DistanceLab(p.color)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = p.velocity
		}
	}
	return best
}

// Launchpad X layout: rows 0-7 bottom to top, cols 0-7 grid, col 8 side
// buttons, row 8 the top CC row.
const (
	GridRows = 8
	GridCols = 8
)

// Grid notes: row 0 = 11-18, row 7 = 81-88; side column = x9
func rowColToNote(row, col int) uint8 {
	if row == GridRows {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	if note >= 91 && note <= 98 {
		return GridRows, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row >= GridRows || col < 0 || col > GridCols {
		return -1, -1
	}
	return row, col
}

func ccToRowCol(cc uint8) (row, col int) {
	if cc >= 91 && cc <= 98 {
		return GridRows, int(cc - 91)
	}
	return -1, -1
}
