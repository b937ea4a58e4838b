package sequencer

import "fmt"

// Steps per pattern (16th notes in one bar)
const Steps = 16

// Variants per instrument
const Variants = 3

// Instrument is one of the three sequenced voices
type Instrument int

const (
	Kick Instrument = iota
	Hihat
	Bass
	numInstruments
)

// Instruments lists every instrument in table order
func Instruments() []Instrument {
	return []Instrument{Kick, Hihat, Bass}
}

func (i Instrument) String() string {
	switch i {
	case Kick:
		return "kick"
	case Hihat:
		return "hihat"
	case Bass:
		return "bass"
	}
	return fmt.Sprintf("instrument(%d)", int(i))
}

// ParseInstrument maps a name back to an Instrument
func ParseInstrument(name string) (Instrument, error) {
	for _, i := range Instruments() {
		if i.String() == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown instrument %q", name)
}

// Pattern is one bar of on/off steps
type Pattern [Steps]uint8

// Table holds the fixed pattern variants, indexed [instrument][variant]
var Table = [numInstruments][Variants]Pattern{
	Kick: {
		{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}, // four on the floor
		{1, 0, 1, 0, 1, 0, 0, 1, 1, 0, 0, 0, 1, 0, 1, 0},
		{1, 0, 0, 1, 0, 1, 0, 0, 1, 0, 0, 1, 0, 1, 0, 0},
	},
	Hihat: {
		{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0}, // offbeats
		{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1},
		{1, 1, 0, 1, 1, 0, 1, 0, 1, 1, 0, 1, 1, 0, 1, 0},
	},
	Bass: {
		{1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		{1, 0, 0, 1, 0, 0, 1, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		{1, 1, 0, 0, 1, 0, 1, 0, 1, 1, 0, 0, 1, 0, 1, 0},
	},
}

// Selection is the chosen variant per instrument
type Selection [numInstruments]int

// Hit reports whether instrument i's selected variant has step set.
// Out-of-range variants and steps never hit.
func (s Selection) Hit(i Instrument, step int) bool {
	if i < 0 || i >= numInstruments {
		return false
	}
	v := s[i]
	if v < 0 || v >= Variants || step < 0 || step >= Steps {
		return false
	}
	return Table[i][v][step] == 1
}

// Row renders the selected pattern for display ('x' on, '.' off)
func (s Selection) Row(i Instrument) string {
	b := make([]byte, Steps)
	for step := range b {
		if s.Hit(i, step) {
			b[step] = 'x'
		} else {
			b[step] = '.'
		}
	}
	return string(b)
}
