package scene

import (
	"math"
	"math/rand"

	"go-vj/modulation"
)

const beamCount = 16

// laserBeams: a white core with sixteen beams fanning out of it
type laserBeams struct{}

func (laserBeams) Name() string { return "Laser Beams" }

func (laserBeams) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}

	core := child(KindMesh, Meta{Tag: TagCore, Shape: ShapeSphere, Index: 0, Radius: 0.5},
		modulation.Vec3{}, modulation.White, 0.8)
	entities = append(entities, core)

	for i := 0; i < beamCount; i++ {
		angle := float64(i) / beamCount * math.Pi * 2
		meta := Meta{Tag: TagBeam, Shape: ShapeCylinder, Index: i + 1, Radius: 0.05, Dims: modulation.Vec3{Y: 25}}
		pos := modulation.Vec3{X: math.Cos(angle) * 0.1, Y: math.Sin(angle) * 0.1}
		beam := child(KindMesh, meta, pos, hsl(float64(i)/beamCount, 1, 0.8), 0.7)
		beam.Rotation = modulation.Vec3{X: math.Pi / 2, Z: angle}
		entities = append(entities, beam)
	}
	return Layout{
		Name:       "Laser Beams",
		Background: modulation.Hex(0x000011),
		Entities:   entities,
		HighRate:   true,
	}
}

func (laserBeams) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	t := f.Elapsed
	tod := f.TimeOfDay()
	hour := f.Cycles.HourSin

	params := make([]Param, 0, len(entities))

	group := ParamFrom(entities[0])
	group.Rotate(0, lv.Treble*0.1*(1+f.Cycles.SecondCos*0.3), 0)
	params = append(params, group)

	// the core spins with the beams; indices run over the whole group
	for _, e := range entities[1:] {
		i := float64(e.Meta.Index)
		p := ParamFrom(e)

		target := i/12*math.Pi*2 + t*0.5*(1+tod*0.4)
		p.Rotate(0, 0, target-p.Rotation.Z)
		p.Opacity = (0.3 + lv.Bass*0.7) * (0.8 + tod*0.2)
		p.Color = f.Tint(hsl(tod+hour*0.1+i/12+t*0.1, 1, 0.8*(0.7+tod*0.3)))
		params = append(params, p)
	}
	return Output{Params: params}
}
