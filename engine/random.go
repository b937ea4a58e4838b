package engine

import (
	"time"

	"go-vj/debug"
	"go-vj/modulation"
	"go-vj/scene"
)

// randomActions are picked uniformly on every quarter note while the random
// trigger runs. Wireframe toggling appears twice to make it more frequent.
var randomActions = []func(e *Engine){
	func(e *Engine) { e.requestTransitionLocked(e.rng.Intn(scene.Count) + 1) },
	func(e *Engine) {
		k := EffectKind(e.rng.Intn(3))
		*e.effectValue(k) = e.rng.Float64()
	},
	func(e *Engine) {
		c := &e.state.Color
		c.Hue = e.rng.Float64()
		c.Saturation = e.rng.Float64()*0.5 + 0.5
		c.Brightness = e.rng.Float64()*0.5 + 0.5
	},
	func(e *Engine) { e.seq.RandomizePatterns() },
	func(e *Engine) { e.whiteFlashLocked() },
	func(e *Engine) { e.comboLocked() },
	func(e *Engine) {
		e.state.Volume = e.rng.Float64()*0.5 + 0.5
		e.volumeChangedLocked()
	},
	func(e *Engine) { e.setWireframeLocked(!e.state.Wireframe) },
	func(e *Engine) { e.setWireframeLocked(!e.state.Wireframe) },
	func(e *Engine) {
		e.setWireframeLocked(!e.state.Wireframe)
		if e.state.Wireframe {
			c := &e.state.Color
			c.Hue = e.rng.Float64()
			c.Saturation = 0.8 + e.rng.Float64()*0.2
			c.Brightness = 0.7 + e.rng.Float64()*0.3
		}
	},
	func(e *Engine) { e.wireframeSpecialLocked() },
	func(e *Engine) { e.state.AutoMode = !e.state.AutoMode },
}

// QuarterNote is the random trigger period at bpm
func QuarterNote(bpm int) time.Duration {
	return time.Minute / time.Duration(modulation.ClampBPM(bpm))
}

// RandomTriggerActive reports whether the BPM random trigger is running
func (e *Engine) RandomTriggerActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.randomTok != 0
}

func (e *Engine) startRandomTriggerLocked() {
	e.sched.Cancel(e.randomTok)
	e.randomTok = e.sched.Every(QuarterNote(e.state.BPM), func() {
		randomActions[e.rng.Intn(len(randomActions))](e)
	})
	debug.Log("engine", "random trigger every %v", QuarterNote(e.state.BPM))
}

func (e *Engine) stopRandomTriggerLocked() {
	e.sched.Cancel(e.randomTok)
	e.randomTok = 0
}

func (e *Engine) wireframeSpecialLocked() {
	if e.rng.Float64() < 0.4 {
		if !e.state.Wireframe {
			e.setWireframeLocked(true)
		}
		e.whiteFlashLocked()
		e.state.Color.Hue = e.rng.Float64()*0.3 + 0.5
		e.state.Effects.Intensity = 1.5 + e.rng.Float64()*0.5
		return
	}
	if e.state.Wireframe && e.rng.Float64() < 0.6 {
		e.setWireframeLocked(false)
	}
}
