package modulation

import (
	"math"
)

// FrameStep is the logical time added per rendered frame (about 60fps),
// independent of the real frame delta.
const FrameStep = 0.016

// Levels are band energies in [0,1]
type Levels struct {
	Bass   float64 `json:"bass"`
	Mid    float64 `json:"mid"`
	Treble float64 `json:"treble"`
	Volume float64 `json:"volume"`
}

// Clamped returns l with every field forced into [0,1]. NaN becomes 0.
func (l Levels) Clamped() Levels {
	return Levels{
		Bass:   Clamp01(l.Bass),
		Mid:    Clamp01(l.Mid),
		Treble: Clamp01(l.Treble),
		Volume: Clamp01(l.Volume),
	}
}

// GlobalColor is the colour-shift state shared by every scene
type GlobalColor struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Brightness float64 `json:"brightness"`
	Shift      float64 `json:"shift"` // colour-shift magnitude, decays toward 0
}

// DefaultColor is the neutral global colour
func DefaultColor() GlobalColor {
	return GlobalColor{Hue: 0, Saturation: 1, Brightness: 1, Shift: 0}
}

// Effects are the audio effect amounts shown on the panel
type Effects struct {
	Reverb     float64 `json:"reverb"`
	Filter     float64 `json:"filter"`
	Distortion float64 `json:"distortion"`
	Intensity  float64 `json:"intensity"`
}

// DefaultEffects returns the panel defaults
func DefaultEffects() Effects {
	return Effects{Reverb: 0, Filter: 0.5, Distortion: 0, Intensity: 1}
}

// Camera is an orbit camera around Target in spherical coordinates
type Camera struct {
	Target Vec3    `json:"target"`
	Radius float64 `json:"radius"`
	Theta  float64 `json:"theta"`
	Phi    float64 `json:"phi"`

	// Fixed overrides the orbit (used by scenes with their own framing)
	Fixed    bool `json:"fixed"`
	Position Vec3 `json:"position"`
	LookAt   Vec3 `json:"lookAt"`
}

// DefaultCamera sits 5 units out on the +X axis looking at the origin
func DefaultCamera() Camera {
	c := Camera{Radius: 5, Theta: 0, Phi: math.Pi / 2}
	c.Orbit()
	return c
}

// Orbit recomputes Position from the spherical coordinates
func (c *Camera) Orbit() {
	c.Fixed = false
	c.LookAt = c.Target
	c.Position = Vec3{
		X: c.Target.X + c.Radius*math.Sin(c.Phi)*math.Cos(c.Theta),
		Y: c.Target.Y + c.Radius*math.Cos(c.Phi),
		Z: c.Target.Z + c.Radius*math.Sin(c.Phi)*math.Sin(c.Theta),
	}
}

// State is the single modulation state of an engine.
// All mutation happens under the engine's lock.
type State struct {
	Elapsed float64   `json:"elapsed"`
	Clock   WallClock `json:"clock"`
	Levels  Levels    `json:"levels"`

	Beat         bool `json:"beat"`
	FlashTrigger bool `json:"flashTrigger"`
	Shake        Vec3 `json:"shake"`

	Color   GlobalColor `json:"color"`
	Effects Effects     `json:"effects"`

	Wireframe   bool `json:"wireframe"`
	AutoMode    bool `json:"autoMode"`
	RandomColor bool `json:"randomColor"`
	ShowHelp    bool `json:"showHelp"`

	BPM    int     `json:"bpm"`
	Volume float64 `json:"volume"`

	Background RGB    `json:"background"`
	Camera     Camera `json:"camera"`
}

// BPM range
const (
	MinBPM     = 60
	MaxBPM     = 200
	DefaultBPM = 128
)

// DefaultVolume is the volume after a reset
const DefaultVolume = 0.7

// NewState creates a state with defaults
func NewState() *State {
	return &State{
		Color:   DefaultColor(),
		Effects: DefaultEffects(),
		BPM:     DefaultBPM,
		Volume:  DefaultVolume,
		Camera:  DefaultCamera(),
	}
}

// Advance adds a fixed logical step to Elapsed. Negative steps are ignored
// so Elapsed never decreases.
func (s *State) Advance(step float64) {
	if step > 0 && !math.IsInf(step, 0) {
		s.Elapsed += step
	}
}

// ClampBPM forces bpm into [MinBPM, MaxBPM]
func ClampBPM(bpm int) int {
	if bpm < MinBPM {
		return MinBPM
	}
	if bpm > MaxBPM {
		return MaxBPM
	}
	return bpm
}

// Clamp01 forces v into [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp forces v into [lo,hi]. NaN becomes lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Fract returns v modulo 1 in [0,1), matching hue wrap-around.
func Fract(v float64) float64 {
	f := math.Mod(v, 1)
	if f < 0 {
		f++
	}
	return f
}
