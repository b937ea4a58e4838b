// Package sequencer is the 16-step kick/hihat/bass pattern engine that runs
// in lockstep with the engine's BPM.
package sequencer

import (
	"math/rand"
	"time"

	"go-vj/debug"
	"go-vj/modulation"
	"go-vj/schedule"
)

// Voices is the tone-generation contract. Calls must not block.
type Voices interface {
	PlayKick()
	PlayHihat()
	PlayBass()
}

// Play dispatches one instrument to v
func Play(v Voices, i Instrument) {
	switch i {
	case Kick:
		v.PlayKick()
	case Hihat:
		v.PlayHihat()
	case Bass:
		v.PlayBass()
	}
}

// Fanout plays every voice in order
type Fanout []Voices

func (f Fanout) PlayKick() {
	for _, v := range f {
		v.PlayKick()
	}
}

func (f Fanout) PlayHihat() {
	for _, v := range f {
		v.PlayHihat()
	}
}

func (f Fanout) PlayBass() {
	for _, v := range f {
		v.PlayBass()
	}
}

// Throttles on hihat and bass keep the voice load down
const (
	hihatEvery       = 4
	hihatOffset      = 2
	hihatProbability = 0.5
	bassEvery        = 8
	bassProbability  = 0.3
)

// StepDuration is one 16th note at bpm
func StepDuration(bpm int) time.Duration {
	if bpm <= 0 {
		bpm = modulation.DefaultBPM
	}
	return time.Minute / time.Duration(bpm*4)
}

// State is a snapshot for display
type State struct {
	Cursor    int
	Selection Selection
	Playing   bool
	BPM       int
}

// Sequencer owns the step cursor and its periodic tick.
// It is not safe for concurrent use; the owner serialises calls with the
// same lock that guards the scheduler.
type Sequencer struct {
	sched  *schedule.Scheduler
	voices Voices
	rng    *rand.Rand

	cursor    int
	selection Selection
	playing   bool
	bpm       int
	tick      schedule.Token
}

// New creates a stopped sequencer at the default tempo
func New(sched *schedule.Scheduler, voices Voices, rng *rand.Rand) *Sequencer {
	if voices == nil {
		voices = Fanout(nil)
	}
	return &Sequencer{
		sched:  sched,
		voices: voices,
		rng:    rng,
		bpm:    modulation.DefaultBPM,
	}
}

// Start begins ticking. No-op when already running.
func (s *Sequencer) Start() {
	if s.playing {
		return
	}
	s.playing = true
	s.arm()
	debug.Log("seq", "start bpm=%d cursor=%d", s.bpm, s.cursor)
}

// Stop cancels the tick and keeps the cursor where it is
func (s *Sequencer) Stop() {
	if !s.playing {
		return
	}
	s.playing = false
	s.sched.Cancel(s.tick)
	s.tick = 0
	debug.Log("seq", "stop cursor=%d", s.cursor)
}

// Toggle starts or stops and returns the new playing state
func (s *Sequencer) Toggle() bool {
	if s.playing {
		s.Stop()
	} else {
		s.Start()
	}
	return s.playing
}

// SetBPM clamps and stores the tempo. A running sequencer is re-armed with
// the new period; the old tick is cancelled first.
func (s *Sequencer) SetBPM(bpm int) {
	bpm = modulation.ClampBPM(bpm)
	if bpm == s.bpm {
		return
	}
	s.bpm = bpm
	if s.playing {
		s.sched.Cancel(s.tick)
		s.arm()
	}
}

// CyclePattern advances an instrument to its next variant and returns it
func (s *Sequencer) CyclePattern(i Instrument) int {
	if i < 0 || i >= numInstruments {
		return 0
	}
	s.selection[i] = (s.selection[i] + 1) % Variants
	debug.Log("seq", "%s pattern -> %d", i, s.selection[i])
	return s.selection[i]
}

// RandomizePatterns picks a random variant for every instrument
func (s *Sequencer) RandomizePatterns() {
	for i := range s.selection {
		s.selection[i] = s.rng.Intn(Variants)
	}
}

// Reset stops, rewinds the cursor and selects the first variants
func (s *Sequencer) Reset() {
	s.Stop()
	s.cursor = 0
	s.selection = Selection{}
}

// State returns a snapshot
func (s *Sequencer) State() State {
	return State{Cursor: s.cursor, Selection: s.selection, Playing: s.playing, BPM: s.bpm}
}

// BPM returns the current tempo
func (s *Sequencer) BPM() int { return s.bpm }

// Cursor returns the next step to play
func (s *Sequencer) Cursor() int { return s.cursor }

func (s *Sequencer) arm() {
	s.tick = s.sched.Every(StepDuration(s.bpm), s.step)
}

// step plays the current cursor position and advances it
func (s *Sequencer) step() {
	c := s.cursor
	if s.selection.Hit(Kick, c) {
		s.voices.PlayKick()
	}
	if c%hihatEvery == hihatOffset && s.selection.Hit(Hihat, c) && s.rng.Float64() < hihatProbability {
		s.voices.PlayHihat()
	}
	if c%bassEvery == 0 && s.selection.Hit(Bass, c) && s.rng.Float64() < bassProbability {
		s.voices.PlayBass()
	}
	s.cursor = (c + 1) % Steps
}
