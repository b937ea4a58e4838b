package engine

import (
	"fmt"
	"math"

	"go-vj/debug"
	"go-vj/modulation"
	"go-vj/scene"
	"go-vj/sequencer"
)

// CommandKind is a logical command from any input surface
type CommandKind int

const (
	SelectScene CommandKind = iota
	StepScene
	RandomScene
	ToggleAutoMode
	AdjustBPM
	AdjustEffect
	ToggleWireframe
	ToggleSequencer
	CyclePattern
	AdjustVolume
	ToggleHelp
	HideHelp
	TriggerFlash
	TriggerRandomCombo
	ResetDisplay
	ToggleRandomBpmTrigger
	RandomizeHue
	RandomizeSaturation
	RandomizeBrightness
	ResetColor
	ToggleRandomColor
	Click
	TriggerEffect
	Orbit
	Zoom
	Resize
)

var commandNames = [...]string{
	SelectScene:            "SelectScene",
	StepScene:              "StepScene",
	RandomScene:            "RandomScene",
	ToggleAutoMode:         "ToggleAutoMode",
	AdjustBPM:              "AdjustBPM",
	AdjustEffect:           "AdjustEffect",
	ToggleWireframe:        "ToggleWireframe",
	ToggleSequencer:        "ToggleSequencer",
	CyclePattern:           "CyclePattern",
	AdjustVolume:           "AdjustVolume",
	ToggleHelp:             "ToggleHelp",
	HideHelp:               "HideHelp",
	TriggerFlash:           "TriggerFlash",
	TriggerRandomCombo:     "TriggerRandomCombo",
	ResetDisplay:           "ResetDisplay",
	ToggleRandomBpmTrigger: "ToggleRandomBpmTrigger",
	RandomizeHue:           "RandomizeHue",
	RandomizeSaturation:    "RandomizeSaturation",
	RandomizeBrightness:    "RandomizeBrightness",
	ResetColor:             "ResetColor",
	ToggleRandomColor:      "ToggleRandomColor",
	Click:                  "Click",
	TriggerEffect:          "TriggerEffect",
	Orbit:                  "Orbit",
	Zoom:                   "Zoom",
	Resize:                 "Resize",
}

func (k CommandKind) String() string {
	if k >= 0 && int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command carries a kind and whichever arguments it needs.
// N is a scene index, step, BPM delta or width; Value is a float delta,
// intensity or height; X and Y are screen points or orbit deltas.
type Command struct {
	Kind       CommandKind
	N          int
	Value      float64
	Effect     EffectKind
	Instrument sequencer.Instrument
	X, Y       float64
}

func (c Command) String() string {
	switch c.Kind {
	case SelectScene, StepScene, AdjustBPM:
		return fmt.Sprintf("%s(%d)", c.Kind, c.N)
	case AdjustEffect:
		return fmt.Sprintf("%s(%s, %+.2f)", c.Kind, c.Effect, c.Value)
	case AdjustVolume, TriggerEffect, Zoom:
		return fmt.Sprintf("%s(%.2f)", c.Kind, c.Value)
	case CyclePattern:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Instrument)
	case Click, Orbit:
		return fmt.Sprintf("%s(%.1f, %.1f)", c.Kind, c.X, c.Y)
	case Resize:
		return fmt.Sprintf("%s(%dx%d)", c.Kind, c.N, int(c.Value))
	}
	return c.Kind.String()
}

// Camera limits for orbit and zoom
const (
	minPhi    = 0.1
	maxPhi    = math.Pi - 0.1
	minRadius = 2
	maxRadius = 20
)

// Dispatch applies one command. Numeric arguments are clamped, never rejected.
func (e *Engine) Dispatch(c Command) {
	e.mu.Lock()
	defer e.notify()
	defer e.mu.Unlock()
	e.dispatchLocked(c)
}

func (e *Engine) dispatchLocked(c Command) {
	debug.Log("cmd", "%s", c)
	s := e.state

	switch c.Kind {
	case SelectScene:
		e.requestTransitionLocked(c.N)
	case StepScene:
		e.requestTransitionLocked(scene.ClampIndex(e.active + c.N))
	case RandomScene:
		e.requestTransitionLocked(e.rng.Intn(scene.Count) + 1)
	case ToggleAutoMode:
		s.AutoMode = !s.AutoMode

	case AdjustBPM:
		s.BPM = modulation.ClampBPM(s.BPM + c.N)
		e.seq.SetBPM(s.BPM)
		if e.randomTok != 0 {
			e.startRandomTriggerLocked()
		}
	case AdjustEffect:
		e.adjustEffectLocked(c.Effect, c.Value)
	case TriggerEffect:
		e.triggerEffectLocked(c.Value)
	case AdjustVolume:
		s.Volume = modulation.Clamp01(s.Volume + c.Value)
		e.volumeChangedLocked()

	case ToggleWireframe:
		e.setWireframeLocked(!s.Wireframe)
	case ToggleSequencer:
		e.seq.Toggle()
	case CyclePattern:
		e.seq.CyclePattern(c.Instrument)

	case ToggleHelp:
		s.ShowHelp = !s.ShowHelp
	case HideHelp:
		s.ShowHelp = false

	case TriggerFlash:
		e.whiteFlashLocked()
	case TriggerRandomCombo:
		e.comboLocked()
	case Click:
		e.clickLocked(c.X, c.Y)

	case ResetDisplay:
		e.resetDisplayLocked()
	case ToggleRandomBpmTrigger:
		if e.randomTok != 0 {
			e.stopRandomTriggerLocked()
		} else {
			e.startRandomTriggerLocked()
		}

	case RandomizeHue:
		s.Color.Hue = e.rng.Float64()
	case RandomizeSaturation:
		s.Color.Saturation = e.rng.Float64()*0.5 + 0.5
	case RandomizeBrightness:
		s.Color.Brightness = e.rng.Float64()*0.5 + 0.5
	case ResetColor:
		e.sched.Cancel(e.effects.colorTok)
		e.effects.colorTok = 0
		s.Color = modulation.DefaultColor()
	case ToggleRandomColor:
		s.RandomColor = !s.RandomColor

	case Orbit:
		s.Camera.Theta -= c.X
		s.Camera.Phi = modulation.Clamp(s.Camera.Phi+c.Y, minPhi, maxPhi)
		if !s.Camera.Fixed {
			s.Camera.Orbit()
		}
	case Zoom:
		s.Camera.Radius = modulation.Clamp(s.Camera.Radius+c.Value, minRadius, maxRadius)
		if !s.Camera.Fixed {
			s.Camera.Orbit()
		}
	case Resize:
		if c.N > 0 {
			e.screenW = c.N
		}
		if h := int(c.Value); h > 0 {
			e.screenH = h
		}

	default:
		debug.Log("cmd", "unknown command %d", int(c.Kind))
	}
}

// resetDisplayLocked reverts everything but the tempo and rebuilds scene 1
func (e *Engine) resetDisplayLocked() {
	bpm := e.state.BPM

	e.cancelTransitionLocked()
	e.transitioning = false
	e.effects.cancelAll(e.sched)
	e.stopRandomTriggerLocked()
	e.seq.Reset()
	e.poller.Reset()
	e.ripples = nil

	e.state = modulation.NewState()
	e.state.BPM = bpm
	e.state.Volume = modulation.DefaultVolume
	e.state.RefreshWallClock(e.sched.Now())
	e.volumeChangedLocked()

	e.active = 1
	if err := e.guardedBuildLocked(1); err != nil {
		debug.Log("engine", "reset: %v", err)
	}
	if e.handle != 0 {
		e.backend.ApplyWireframe(e.handle, false)
	}
	e.resetCameraLocked()
	debug.Log("engine", "display reset bpm=%d", bpm)
}
