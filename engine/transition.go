package engine

import (
	"time"

	"go-vj/debug"
	"go-vj/modulation"
	"go-vj/scene"
)

// Transition step delays: white now, black after the first, rebuild after
// the second.
const (
	TransitionFlash  = 50 * time.Millisecond
	TransitionSwitch = 50 * time.Millisecond
)

// RequestTransition switches to scene n (clamped to 1-12). Requests for the
// active scene, or while a transition is in flight, are dropped. Reports
// whether the request was accepted.
func (e *Engine) RequestTransition(n int) bool {
	e.mu.Lock()
	defer e.notify()
	defer e.mu.Unlock()
	return e.requestTransitionLocked(n)
}

// Transitioning reports whether a transition is in flight
func (e *Engine) Transitioning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transitioning
}

func (e *Engine) requestTransitionLocked(n int) bool {
	n = scene.ClampIndex(n)
	if n == e.active || e.transitioning {
		debug.Log("transition", "dropped request for %d (active=%d busy=%v)", n, e.active, e.transitioning)
		return false
	}
	e.transitioning = true
	e.cancelTransitionLocked()

	e.setBackgroundLocked(modulation.WhiteRGB)
	black := e.sched.After(TransitionFlash, func() {
		e.setBackgroundLocked(modulation.Black)
	})
	swap := e.sched.After(TransitionFlash+TransitionSwitch, func() {
		e.finishTransitionLocked(n)
	})
	e.transitionToks = append(e.transitionToks, black, swap)
	debug.Log("transition", "%d -> %d", e.active, n)
	return true
}

func (e *Engine) cancelTransitionLocked() {
	for _, tok := range e.transitionToks {
		e.sched.Cancel(tok)
	}
	e.transitionToks = e.transitionToks[:0]
}

// finishTransitionLocked rebuilds the scene. The latch is released however
// the build ends, including a panicking backend.
func (e *Engine) finishTransitionLocked(n int) {
	defer func() {
		e.transitionToks = e.transitionToks[:0]
		e.transitioning = false
	}()

	e.active = n
	if err := e.guardedBuildLocked(n); err != nil {
		debug.Log("transition", "%v", err)
		return
	}
	e.resetCameraLocked()
	if e.handle != 0 {
		e.backend.ApplyWireframe(e.handle, e.state.Wireframe)
	}
	e.state.FlashTrigger = true
	e.state.Shake.X = e.spread(0.5)
	e.state.Shake.Y = e.spread(0.5)
}
