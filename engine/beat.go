package engine

import (
	"math"
	"time"

	"go-vj/debug"
	"go-vj/modulation"
	"go-vj/scene"
)

// Beat detector thresholds on the bass band
const (
	BeatThreshold      = 0.3
	FlashThreshold     = 0.5
	BackgroundFlashMin = 0.7

	ShakeDecay       = 0.9
	AutoModeInterval = 15 // logical seconds

	beatFlashDuration = 50 * time.Millisecond
)

// detectBeatLocked runs once per frame. Beat and FlashTrigger are recomputed
// from scratch every call; shake decays exactly once per call.
func (e *Engine) detectBeatLocked() {
	s := e.state
	bass := s.Levels.Bass

	if bass > BeatThreshold {
		s.Beat = true
		s.Shake = modulation.Vec3{
			X: e.spread(1) * bass,
			Y: e.spread(1) * bass,
			Z: e.spread(0.5) * bass,
		}

		if bass > BackgroundFlashMin && !e.effects.beatFlashing {
			e.effects.beatFlashing = true
			e.setBackgroundLocked(modulation.Hex(uint32(e.rng.Float64() * 0xffffff)))
			e.effects.beatFlashTok = e.sched.After(beatFlashDuration, func() {
				e.effects.beatFlashTok = 0
				e.effects.beatFlashing = false
				e.setBackgroundLocked(modulation.Black)
			})
		}
		if bass > FlashThreshold {
			s.FlashTrigger = true
		}
		if s.RandomColor {
			s.Color.Hue = e.rng.Float64()
		}
	} else {
		s.Beat = false
		s.FlashTrigger = false
	}

	s.Shake = s.Shake.Scale(ShakeDecay)

	if s.AutoMode && autoModeEdge(s.Elapsed) {
		next := e.randomOtherScene()
		debug.Log("engine", "auto mode -> scene %d", next)
		e.requestTransitionLocked(next)
	}
}

// autoModeEdge reports whether elapsed just crossed a whole multiple of the
// auto-mode interval.
func autoModeEdge(elapsed float64) bool {
	cur := math.Floor(elapsed)
	if cur < AutoModeInterval {
		return false
	}
	prev := math.Floor(elapsed - modulation.FrameStep)
	return int(cur)%AutoModeInterval == 0 && cur != prev
}

// randomOtherScene picks uniformly among every scene but the active one
func (e *Engine) randomOtherScene() int {
	n := e.rng.Intn(scene.Count-1) + 1
	if n >= e.active {
		n++
	}
	return n
}
