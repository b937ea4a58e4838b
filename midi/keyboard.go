package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// KeyboardController handles a plain MIDI keyboard (input only)
type KeyboardController struct {
	id       string
	stopFunc func()

	padChan  chan PadEvent
	noteChan chan NoteEvent
}

// NewKeyboardController starts listening for note-ons on inPort
func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		padChan:  make(chan PadEvent, 32),
		noteChan: make(chan NoteEvent, 32),
	}
	if inPort == nil {
		return kb, nil
	}

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		var channel, note, velocity uint8
		if msg.GetNoteOn(&channel, &note, &velocity) && velocity > 0 {
			select {
			case kb.noteChan <- NoteEvent{Note: note, Velocity: velocity, Channel: channel}:
			default:
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	kb.stopFunc = stop
	return kb, nil
}

func (kb *KeyboardController) ID() string { return kb.id }

func (kb *KeyboardController) Type() ControllerType { return ControllerKeyboard }

// PadEvents never fires on a keyboard
func (kb *KeyboardController) PadEvents() <-chan PadEvent { return kb.padChan }

func (kb *KeyboardController) NoteEvents() <-chan NoteEvent { return kb.noteChan }

// SetLEDBatch is a no-op: keyboards have no lights
func (kb *KeyboardController) SetLEDBatch(updates []LEDUpdate) error { return nil }

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.padChan)
	close(kb.noteChan)
	return nil
}
