// Package scene holds the twelve scene strategies. A strategy builds a
// Layout of entities once and maps a Frame of modulation values onto
// per-entity Params every frame. Entities are owned by the caller;
// strategies only read them.
package scene

import (
	"math/rand"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"go-vj/modulation"
)

// Count is the number of scenes in the registry
const Count = 12

// EntityID is stable for the lifetime of a built scene
type EntityID int

// Handle identifies a built scene inside a rendering backend. Zero is none.
type Handle uint64

// Kind is the renderable class of an entity
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindPoints
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindPoints:
		return "points"
	case KindLine:
		return "line"
	}
	return "unknown"
}

// Shape tells the backend which geometry to build
type Shape int

const (
	ShapeNone Shape = iota
	ShapeIcosahedron
	ShapeSphere
	ShapeBox
	ShapeRing
	ShapeCylinder
	ShapePath
	ShapeCloud
)

// Tag distinguishes roles inside scenes that mix entity types
type Tag int

const (
	TagRoot Tag = iota
	TagBody
	TagRing
	TagCore
	TagParticles
	TagBeam
	TagBolt
	TagOrb
	TagClouds
)

// Meta is set once at build time and never changed
type Meta struct {
	Tag       Tag
	Shape     Shape
	Index     int     // child index inside the root group
	Phase     float64 // animation phase offset
	Speed     float64
	Radius    float64 // ring radius or sphere radius
	Inner     float64 // ring inner radius
	Intensity float64
	Dims      modulation.Vec3 // box dimensions / cylinder size
	Origin    modulation.Vec3 // rest position for orbiting entities
	Points    []modulation.Vec3
}

// Entity is one renderable with its current transform and material
type Entity struct {
	ID   EntityID
	Kind Kind
	Meta Meta

	Position modulation.Vec3
	Velocity modulation.Vec3
	Rotation modulation.Vec3
	Scale    modulation.Vec3

	Color    modulation.HSL
	Emissive modulation.HSL
	Opacity  float64
	Size     float64 // point size
	Visible  bool
}

// Param is a per-frame update for one entity. All values are absolute
// except RotationDelta, which records the rotation applied this frame.
type Param struct {
	ID EntityID

	Position      modulation.Vec3
	Velocity      modulation.Vec3
	Rotation      modulation.Vec3
	RotationDelta modulation.Vec3
	Scale         modulation.Vec3

	Color    modulation.HSL
	Emissive modulation.HSL
	Opacity  float64
	Size     float64
	Visible  bool
}

// ParamFrom starts a Param from an entity's current values
func ParamFrom(e Entity) Param {
	return Param{
		ID:       e.ID,
		Position: e.Position,
		Velocity: e.Velocity,
		Rotation: e.Rotation,
		Scale:    e.Scale,
		Color:    e.Color,
		Emissive: e.Emissive,
		Opacity:  e.Opacity,
		Size:     e.Size,
		Visible:  e.Visible,
	}
}

// Rotate adds a rotation delta
func (p *Param) Rotate(x, y, z float64) {
	d := modulation.Vec3{X: x, Y: y, Z: z}
	p.Rotation = p.Rotation.Add(d)
	p.RotationDelta = p.RotationDelta.Add(d)
}

// Apply copies a Param back onto an entity with the same ID
func (e *Entity) Apply(p Param) {
	e.Position = p.Position
	e.Velocity = p.Velocity
	e.Rotation = p.Rotation
	e.Scale = p.Scale
	e.Color = p.Color
	e.Emissive = p.Emissive
	e.Opacity = p.Opacity
	e.Size = p.Size
	e.Visible = p.Visible
}

// CameraMode selects how the engine frames a scene
type CameraMode int

const (
	// CameraStatic resets to the default orbit position and leaves it
	CameraStatic CameraMode = iota
	// CameraOrbit recomputes the orbit every frame
	CameraOrbit
	// CameraFixed uses the layout's own position and ignores shake
	CameraFixed
)

// Layout is what Build returns: the entity table plus framing
type Layout struct {
	Name       string
	Background modulation.RGB
	Entities   []Entity
	Camera     CameraMode
	CameraPos  modulation.Vec3
	CameraLook modulation.Vec3
	HighRate   bool // render at 60fps instead of 30
}

// Frame is the read-only input to Update
type Frame struct {
	Elapsed float64
	Clock   modulation.WallClock
	Cycles  modulation.Cycles
	Levels  modulation.Levels
	Beat    bool
	Color   modulation.GlobalColor
	Rand    *rand.Rand
}

// NewFrame snapshots a state for one update
func NewFrame(s *modulation.State, rng *rand.Rand) *Frame {
	return &Frame{
		Elapsed: s.Elapsed,
		Clock:   s.Clock,
		Cycles:  s.Clock.Cycles(),
		Levels:  s.Levels,
		Beat:    s.Beat,
		Color:   s.Color,
		Rand:    rng,
	}
}

// Tint scales saturation and lightness by the global colour state
func (f *Frame) Tint(c modulation.HSL) modulation.HSL {
	return modulation.HSL{
		H: c.H,
		S: c.S * f.Color.Saturation,
		L: c.L * f.Color.Brightness,
	}
}

// TimeOfDay is shorthand for the wall clock fraction
func (f *Frame) TimeOfDay() float64 { return f.Cycles.TimeOfDay }

// BackgroundFlash asks the engine to set the background now and revert later
type BackgroundFlash struct {
	Color  modulation.RGB
	Revert modulation.RGB
	After  time.Duration
}

// Output is the result of one Update
type Output struct {
	Params []Param
	Flash  *BackgroundFlash
}

// Strategy is one scene variant
type Strategy interface {
	Name() string
	Build(rng *rand.Rand) Layout
	Update(f *Frame, entities []Entity) Output
}

// hsl builds an HSL with the hue wrapped into [0,1)
func hsl(h, s, l float64) modulation.HSL {
	return modulation.HSL{H: modulation.Fract(h), S: s, L: l}
}

// rgbToHSL converts float RGB in [0,1] to HSL
func rgbToHSL(r, g, b float64) modulation.HSL {
	h, s, l := colorful.Color{R: r, G: g, B: b}.Clamped().Hsl()
	return modulation.HSL{H: h / 360, S: s, L: l}
}

// randomHex mimics a random 24-bit colour
func randomHex(rng *rand.Rand) modulation.HSL {
	return modulation.Hex(uint32(rng.Float64() * 0xffffff)).HSL()
}

// spread returns a value uniformly in [-w/2, w/2)
func spread(rng *rand.Rand, w float64) float64 {
	return (rng.Float64() - 0.5) * w
}

func randomVec(rng *rand.Rand, w float64) modulation.Vec3 {
	return modulation.Vec3{X: spread(rng, w), Y: spread(rng, w), Z: spread(rng, w)}
}

// root is the group entity every layout starts with
func root(kind Kind, shape Shape) Entity {
	return Entity{
		Kind:    kind,
		Meta:    Meta{Tag: TagRoot, Shape: shape, Index: -1},
		Scale:   modulation.Uniform(1),
		Color:   modulation.White,
		Opacity: 1,
		Visible: true,
	}
}

// child builds a visible child entity at a group index
func child(kind Kind, meta Meta, pos modulation.Vec3, color modulation.HSL, opacity float64) Entity {
	return Entity{
		Kind:     kind,
		Meta:     meta,
		Position: pos,
		Scale:    modulation.Uniform(1),
		Color:    color,
		Opacity:  opacity,
		Visible:  true,
	}
}
