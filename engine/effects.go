package engine

import (
	"math"
	"time"

	"go-vj/debug"
	"go-vj/modulation"
	"go-vj/schedule"
)

// Effect timings
const (
	FlashDuration      = 150 * time.Millisecond
	ZoomDuration       = 200 * time.Millisecond
	ColorShiftDuration = 2 * time.Second
	ComboStagger       = 200 * time.Millisecond
	WhiteFlashDuration = 100 * time.Millisecond

	ZoomFactor = 1.5

	RippleSpeed = 20
	RippleFade  = 0.02
)

// FlashColors are the flash effect's palette
var FlashColors = []modulation.RGB{
	modulation.Hex(0xff0000),
	modulation.Hex(0x00ff00),
	modulation.Hex(0x0000ff),
	modulation.Hex(0xffff00),
	modulation.Hex(0xff00ff),
	modulation.Hex(0x00ffff),
	modulation.Hex(0xffffff),
}

// Ripple is a screen-space ring that grows and fades each frame
type Ripple struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Speed     float64
	Opacity   float64
	Hue       float64
}

// effectState holds the pending revert tokens of every timed effect
type effectState struct {
	beatFlashing bool
	beatFlashTok schedule.Token

	flashTok schedule.Token

	rootScale  float64
	zoomTok    schedule.Token
	zoomOrigin float64

	colorTok schedule.Token

	whiteFlashTok schedule.Token
	whiteRestore  modulation.RGB

	wireTok  schedule.Token
	sceneTok schedule.Token

	comboToks []schedule.Token
}

// cancelAll drops every pending revert. Values stay where they are.
func (f *effectState) cancelAll(s *schedule.Scheduler) {
	for _, tok := range []schedule.Token{
		f.beatFlashTok, f.flashTok, f.zoomTok, f.colorTok,
		f.whiteFlashTok, f.wireTok, f.sceneTok,
	} {
		s.Cancel(tok)
	}
	for _, tok := range f.comboToks {
		s.Cancel(tok)
	}
	*f = effectState{rootScale: 1}
}

// updateEffectsLocked decays the colour shift and moves every ripple
func (e *Engine) updateEffectsLocked() {
	if e.state.Color.Shift > 0 {
		e.state.Color.Shift *= 0.98
	}

	kept := e.ripples[:0]
	for _, r := range e.ripples {
		r.Radius += r.Speed
		r.Opacity -= RippleFade
		if r.Opacity <= 0 || r.Radius > r.MaxRadius {
			continue
		}
		kept = append(kept, r)
	}
	e.ripples = kept
}

func (e *Engine) rippleLocked(x, y float64) {
	e.ripples = append(e.ripples, Ripple{
		X:         x,
		Y:         y,
		MaxRadius: math.Max(float64(e.screenW), float64(e.screenH)),
		Speed:     RippleSpeed,
		Opacity:   1,
		Hue:       e.rng.Float64(),
	})
}

func (e *Engine) flashLocked() {
	c := FlashColors[e.rng.Intn(len(FlashColors))]
	e.flashBackgroundLocked(&e.effects.flashTok, c, modulation.Black, FlashDuration)
}

// zoomPulseLocked scales the scene root by 1.5 and restores it later. A
// second pulse while one is pending keeps the first captured scale.
func (e *Engine) zoomPulseLocked() {
	if len(e.entities) == 0 {
		return
	}
	cur := e.effects.rootScale
	if !finite(cur) || !finite(e.entities[0].Scale.X) {
		debug.Log("effect", "zoom pulse aborted: scale %v", cur)
		return
	}

	if !e.sched.Pending(e.effects.zoomTok) {
		e.effects.zoomOrigin = cur
	}
	e.effects.rootScale = cur * ZoomFactor
	e.sched.Cancel(e.effects.zoomTok)
	e.effects.zoomTok = e.sched.After(ZoomDuration, func() {
		e.effects.zoomTok = 0
		e.effects.rootScale = e.effects.zoomOrigin
	})
}

// colorShiftLocked randomises the global colour; a new shift replaces the
// pending revert.
func (e *Engine) colorShiftLocked() {
	c := &e.state.Color
	c.Hue = e.rng.Float64()
	c.Saturation = e.rng.Float64()*0.5 + 0.5
	c.Brightness = e.rng.Float64()*0.5 + 0.5
	c.Shift = e.rng.Float64() * 3

	e.sched.Cancel(e.effects.colorTok)
	e.effects.colorTok = e.sched.After(ColorShiftDuration, func() {
		e.effects.colorTok = 0
		e.state.Color = modulation.DefaultColor()
	})
}

// shakeLocked sets the shake vector outright; the beat detector decays it
func (e *Engine) shakeLocked() {
	e.state.Shake = modulation.Vec3{X: e.spread(2), Y: e.spread(2), Z: e.spread(1)}
}

// comboLocked schedules one to three random effects 200ms apart
func (e *Engine) comboLocked() {
	n := e.rng.Intn(3) + 1
	for i := 0; i < n; i++ {
		var tok schedule.Token
		tok = e.sched.After(time.Duration(i)*ComboStagger, func() {
			e.dropComboToken(tok)
			e.comboStepLocked()
		})
		e.effects.comboToks = append(e.effects.comboToks, tok)
	}
	debug.Log("effect", "combo of %d", n)
}

func (e *Engine) dropComboToken(tok schedule.Token) {
	toks := e.effects.comboToks
	for i, t := range toks {
		if t == tok {
			e.effects.comboToks = append(toks[:i], toks[i+1:]...)
			return
		}
	}
}

func (e *Engine) comboStepLocked() {
	switch e.rng.Intn(6) {
	case 0:
		e.flashLocked()
	case 1:
		e.zoomPulseLocked()
	case 2:
		e.colorShiftLocked()
	case 3:
		e.shakeLocked()
	case 4:
		e.rippleLocked(e.rng.Float64()*float64(e.screenW), e.rng.Float64()*float64(e.screenH))
	case 5:
		e.requestTransitionLocked(e.rng.Intn(12) + 1)
	}
}

// whiteFlashLocked shows white briefly and restores whatever background was
// showing before the first of overlapping flashes.
func (e *Engine) whiteFlashLocked() {
	if !e.sched.Pending(e.effects.whiteFlashTok) {
		e.effects.whiteRestore = e.state.Background
	}
	e.flashBackgroundLocked(&e.effects.whiteFlashTok, modulation.WhiteRGB, e.effects.whiteRestore, WhiteFlashDuration)
}

// clickLocked fires one random effect at a screen point
func (e *Engine) clickLocked(x, y float64) {
	switch e.rng.Intn(5) {
	case 0:
		e.rippleLocked(x, y)
	case 1:
		e.flashLocked()
	case 2:
		e.zoomPulseLocked()
	case 3:
		e.colorShiftLocked()
	case 4:
		e.shakeLocked()
	}
}

// EffectKind names an adjustable audio effect
type EffectKind int

const (
	Reverb EffectKind = iota
	Filter
	Distortion
)

func (k EffectKind) String() string {
	switch k {
	case Reverb:
		return "reverb"
	case Filter:
		return "filter"
	case Distortion:
		return "distortion"
	}
	return "unknown"
}

func (e *Engine) effectValue(k EffectKind) *float64 {
	switch k {
	case Reverb:
		return &e.state.Effects.Reverb
	case Filter:
		return &e.state.Effects.Filter
	case Distortion:
		return &e.state.Effects.Distortion
	}
	return nil
}

func (e *Engine) adjustEffectLocked(k EffectKind, delta float64) {
	v := e.effectValue(k)
	if v == nil {
		return
	}
	*v = modulation.Clamp01(*v + delta)
}

// triggerEffectLocked picks an effect by intensity third and sets it to a
// random value in [0.5, 1).
func (e *Engine) triggerEffectLocked(intensity float64) {
	k := Distortion
	switch {
	case intensity < 0.33:
		k = Reverb
	case intensity < 0.66:
		k = Filter
	}
	*e.effectValue(k) = e.rng.Float64()*0.5 + 0.5
}

// Wireframe toggle effects
const (
	wireOnFlash  = 200 * time.Millisecond
	wireOffFlash = 150 * time.Millisecond
)

func (e *Engine) setWireframeLocked(on bool) {
	s := e.state
	s.Wireframe = on
	if e.handle != 0 {
		e.backend.ApplyWireframe(e.handle, on)
	}
	if on {
		s.FlashTrigger = true
		e.flashBackgroundLocked(&e.effects.wireTok, modulation.Hex(0x001122), modulation.Black, wireOnFlash)
		s.Shake.X = e.spread(0.3)
		s.Shake.Y = e.spread(0.3)
		s.Color.Hue = 0.5 + e.rng.Float64()*0.2
		s.Color.Saturation = 0.9
		s.Color.Brightness = 1.2
	} else {
		e.flashBackgroundLocked(&e.effects.wireTok, modulation.Hex(0x111111), modulation.Black, wireOffFlash)
		s.Color.Hue = 0
		s.Color.Saturation = 1
		s.Color.Brightness = 1
	}
	debug.Log("effect", "wireframe %v", on)
}
