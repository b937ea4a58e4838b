package scene

import (
	"math"
	"math/rand"

	"go-vj/modulation"
)

const orbCount = 8

// energyOrbs: eight orbs circling the origin
type energyOrbs struct{}

func (energyOrbs) Name() string { return "Energy Orbs" }

func (energyOrbs) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}
	for i := 0; i < orbCount; i++ {
		meta := Meta{Tag: TagOrb, Shape: ShapeSphere, Index: i, Radius: 1 + rng.Float64()*0.5}
		r := 3 + rng.Float64()*2
		angle := float64(i) / orbCount * math.Pi * 2
		pos := modulation.Vec3{X: math.Cos(angle) * r, Y: spread(rng, 4), Z: math.Sin(angle) * r}
		entities = append(entities, child(KindMesh, meta, pos, hsl(float64(i)/orbCount, 0.8, 0.6), 0.7))
	}
	return Layout{
		Name:       "Energy Orbs",
		Background: modulation.Hex(0x0a0a2a),
		Entities:   entities,
	}
}

func (energyOrbs) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	t := f.Elapsed
	tod := f.TimeOfDay()
	hour := f.Cycles.HourCos
	minute := f.Cycles.MinuteSin

	speed := (0.02 + lv.Bass*0.15) * (1 + tod*0.5)
	radius := (3 + lv.Mid*4) * (0.8 + tod*0.4)
	spin := 1 + minute*0.3

	params := make([]Param, 0, len(entities))
	params = append(params, ParamFrom(entities[0]))

	for _, e := range entities[1:] {
		i := float64(e.Meta.Index)
		p := ParamFrom(e)

		angle := t*speed + i*math.Pi/4
		p.Position = modulation.Vec3{
			X: math.Cos(angle) * radius,
			Y: math.Sin(t*2+i)*3*(0.8+tod*0.4) + lv.Treble*2,
			Z: math.Sin(angle) * radius,
		}
		p.Scale = modulation.Uniform(0.8 + tod*0.4 + lv.Volume*1.2)
		p.Color = f.Tint(hsl(tod+hour*0.1+i/orbCount+t*0.1+lv.Bass*2, 1, (0.6+lv.Volume*0.6)*(0.7+tod*0.3)))
		p.Rotate(lv.Mid*0.1*spin, lv.Treble*0.08*spin, 0)

		if f.Beat {
			p.Opacity = 1
		} else {
			p.Opacity = (0.7 + lv.Volume*0.3) * (0.8 + tod*0.2)
		}
		params = append(params, p)
	}
	return Output{Params: params}
}
