package midi

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-vj/debug"
)

// Voice velocities at full volume
const (
	kickVelocity  = 127
	hihatVelocity = 90
	bassVelocity  = 110

	// DefaultGate is how long a note sounds before its note-off
	DefaultGate = 100 * time.Millisecond
)

// Voices plays kick, hihat and bass as MIDI notes. Calls never block: the
// note-off is sent later from a timer.
type Voices struct {
	send   func(gomidi.Message) error
	drumCh uint8
	bassCh uint8
	gate   time.Duration

	volume atomic.Uint64 // float64 bits
	sent   atomic.Uint64

	mu  sync.Mutex
	rng *rand.Rand

	// afterFunc schedules the note-off; time.AfterFunc outside tests
	afterFunc func(time.Duration, func())
}

// NewVoices sends through send. Channels are 1-16.
func NewVoices(send func(gomidi.Message) error, drumChannel, bassChannel int) *Voices {
	v := &Voices{
		send:   send,
		drumCh: channelIndex(drumChannel, 10),
		bassCh: channelIndex(bassChannel, 1),
		gate:   DefaultGate,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	v.SetVolume(0.7)
	return v
}

// OpenVoices finds an output port by name and opens it
func OpenVoices(portName string, drumChannel, bassChannel int) (*Voices, error) {
	out, err := FindOutPort(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", out, err)
	}
	debug.Log("midi", "voices on %s drums=%d bass=%d", out, drumChannel, bassChannel)
	return NewVoices(send, drumChannel, bassChannel), nil
}

// SetVolume scales every following velocity; v is clamped to [0,1]
func (v *Voices) SetVolume(vol float64) {
	if math.IsNaN(vol) || vol < 0 {
		vol = 0
	}
	if vol > 1 {
		vol = 1
	}
	v.volume.Store(math.Float64bits(vol))
}

// Volume returns the current velocity scale
func (v *Voices) Volume() float64 {
	return math.Float64frombits(v.volume.Load())
}

// Sent returns how many note-ons went out
func (v *Voices) Sent() uint64 {
	return v.sent.Load()
}

func (v *Voices) PlayKick() { v.hit(v.drumCh, NoteKick, kickVelocity) }

func (v *Voices) PlayHihat() { v.hit(v.drumCh, NoteClosedHat, hihatVelocity) }

func (v *Voices) PlayBass() {
	v.mu.Lock()
	note := NoteBassLow + uint8(v.rng.Intn(bassSpread))
	v.mu.Unlock()
	v.hit(v.bassCh, note, bassVelocity)
}

func (v *Voices) hit(ch, note uint8, velocity float64) {
	vel := uint8(math.Round(velocity * v.Volume()))
	if vel == 0 || v.send == nil {
		return
	}
	on := Event{Type: NoteOn, Channel: ch, Note: note, Velocity: vel}
	if err := v.send(on.Message()); err != nil {
		debug.LogEvery(50, "midi", "send %s: %v", on, err)
		return
	}
	v.sent.Add(1)

	off := Event{Type: NoteOff, Channel: ch, Note: note}
	v.afterFunc(v.gate, func() {
		if err := v.send(off.Message()); err != nil {
			debug.LogEvery(50, "midi", "send %s: %v", off, err)
		}
	})
}
