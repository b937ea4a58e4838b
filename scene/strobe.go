package scene

import (
	"math"
	"math/rand"

	"go-vj/modulation"
)

const strobeSpheres = 20

// neonStrobe: scattered spheres that strobe and jump on strong beats
type neonStrobe struct{}

func (neonStrobe) Name() string { return "Neon Strobe" }

func (neonStrobe) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}
	for i := 0; i < strobeSpheres; i++ {
		meta := Meta{Tag: TagBody, Shape: ShapeSphere, Index: i, Radius: 0.1 + rng.Float64()*0.5}
		color := hsl(rng.Float64(), 1, 0.5)
		entities = append(entities, child(KindMesh, meta, randomVec(rng, 10), color, 0.8))
	}
	return Layout{
		Name:       "Neon Strobe",
		Background: modulation.Black,
		Entities:   entities,
	}
}

func (neonStrobe) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	t := f.Elapsed
	tod := f.TimeOfDay()
	hour := f.Cycles.HourCos
	minute := f.Cycles.MinuteSin

	strobe := 0.7 + tod*0.6
	movement := 1 + tod*0.5
	jump := 1 + tod*0.5

	params := make([]Param, 0, len(entities))

	group := ParamFrom(entities[0])
	group.Rotate(lv.Bass*0.1*(1+hour*0.2), lv.Mid*0.15*(1+tod*0.4), 0)
	params = append(params, group)

	for _, e := range entities[1:] {
		i := float64(e.Meta.Index)
		p := ParamFrom(e)

		if f.Beat && lv.Bass > 0.6 {
			p.Opacity = f.Rand.Float64() * strobe
		} else {
			p.Opacity = (0.1 + lv.Mid*2) * strobe
		}

		hue := tod + hour*0.2 + t*0.8 + i*0.2 + lv.Bass*10
		p.Color = f.Tint(hsl(hue,
			(0.8+lv.Treble*0.2)*(0.8+tod*0.2),
			(0.3+lv.Volume*1.2)*(0.7+minute*0.3),
		))

		p.Position.Y += math.Sin(t*8+i) * 0.1 * movement
		p.Rotate(lv.Bass*0.8*(1+hour*0.3), lv.Treble*0.6*(1+minute*0.4), lv.Mid*0.4*movement)
		p.Scale = modulation.Uniform(0.8 + tod*0.4 + lv.Bass*2)

		if f.Beat {
			p.Position.X += spread(f.Rand, 2) * jump
			p.Position.Z += spread(f.Rand, 2) * jump
		}
		params = append(params, p)
	}
	return Output{Params: params}
}
