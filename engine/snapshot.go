package engine

import (
	"go-vj/modulation"
	"go-vj/scene"
	"go-vj/sequencer"
)

// Snapshot is a copy of everything a front end displays
type Snapshot struct {
	State         modulation.State
	Scene         int
	SceneName     string
	Transitioning bool
	Sequencer     sequencer.State
	Ripples       []Ripple
	RandomTrigger bool
	Entities      int
	Frames        uint64
}

// Snapshot copies the current state under the lock
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:         *e.state,
		Scene:         e.active,
		SceneName:     scene.Name(e.active),
		Transitioning: e.transitioning,
		Sequencer:     e.seq.State(),
		Ripples:       append([]Ripple(nil), e.ripples...),
		RandomTrigger: e.randomTok != 0,
		Entities:      len(e.entities),
		Frames:        e.frames,
	}
}

// ActiveScene returns the 1-based index of the active scene
func (e *Engine) ActiveScene() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// ScreenSize returns the screen size clicks are measured against
func (e *Engine) ScreenSize() (w, h int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.screenW, e.screenH
}
