package modulation

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Vec3 is a plain 3-vector
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v+o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v*k
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{v.X * k, v.Y * k, v.Z * k}
}

// Len returns the Euclidean length
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Uniform returns {k,k,k}
func Uniform(k float64) Vec3 {
	return Vec3{k, k, k}
}

// HSL colour with every component nominally in [0,1].
// Lightness may exceed 1 in formulas; conversion clamps.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// RGB converts to 8-bit RGB
func (c HSL) RGB() RGB {
	col := colorful.Hsl(Fract(c.H)*360, Clamp01(c.S), Clamp01(c.L)).Clamped()
	r, g, b := col.RGB255()
	return RGB{r, g, b}
}

// Offset shifts the hue (wrapping) and adds to saturation and lightness
func (c HSL) Offset(h, s, l float64) HSL {
	return HSL{H: Fract(c.H + h), S: c.S + s, L: c.L + l}
}

// White is full lightness
var White = HSL{H: 0, S: 0, L: 1}

// RGB is an 8-bit colour used for backgrounds and swatches
type RGB [3]uint8

// Hex builds an RGB from 0xRRGGBB
func Hex(v uint32) RGB {
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

// HSL converts back to HSL
func (c RGB) HSL() HSL {
	col := colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
	h, s, l := col.Hsl()
	return HSL{H: h / 360, S: s, L: l}
}

// String returns #rrggbb
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Common backgrounds
var (
	Black    = Hex(0x000000)
	WhiteRGB = Hex(0xffffff)
)
