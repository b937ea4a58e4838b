package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// General MIDI notes used by the voices
const (
	NoteKick      uint8 = 36
	NoteClosedHat uint8 = 42
	NoteBassLow   uint8 = 33 // A1, bass picks one of four notes from here
	bassSpread          = 4
)

// Event is one outgoing message before it is encoded
type Event struct {
	Type     uint8 // NoteOn, NoteOff, CC
	Channel  uint8 // 0-15
	Note     uint8
	Velocity uint8
}

// Message encodes the event for gomidi
func (e Event) Message() gomidi.Message {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return gomidi.NoteOff(e.Channel, e.Note)
	case CC:
		return gomidi.ControlChange(e.Channel, e.Note, e.Velocity)
	}
	return nil
}

func (e Event) String() string {
	kind := "?"
	switch e.Type {
	case NoteOn:
		kind = "on"
	case NoteOff:
		kind = "off"
	case CC:
		kind = "cc"
	}
	return fmt.Sprintf("%s ch=%d note=%d vel=%d", kind, e.Channel+1, e.Note, e.Velocity)
}

// channelIndex maps a 1-16 channel number to gomidi's 0-15, defaulting when
// out of range.
func channelIndex(ch, def int) uint8 {
	if ch < 1 || ch > 16 {
		ch = def
	}
	return uint8(ch - 1)
}
