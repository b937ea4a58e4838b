package scene

import (
	"math/rand"

	"go-vj/modulation"
)

// pulsar is a single icosahedron that swells with the bass
type pulsar struct{}

func (pulsar) Name() string { return "Pulsar" }

func (pulsar) Build(rng *rand.Rand) Layout {
	body := root(KindMesh, ShapeIcosahedron)
	body.Meta.Tag = TagBody
	body.Meta.Radius = 1
	body.Color = modulation.Hex(0x00ffff).HSL()
	body.Emissive = modulation.HSL{}
	return Layout{
		Name:       "Pulsar",
		Background: modulation.Black,
		Entities:   []Entity{body},
		Camera:     CameraOrbit,
	}
}

func (pulsar) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	tod := f.TimeOfDay()
	hour := f.Cycles.HourSin
	minute := f.Cycles.MinuteSin

	p := ParamFrom(entities[0])
	p.Scale = modulation.Uniform(0.8 + tod*0.4 + lv.Bass*8)

	emissiveHue := tod + hour*0.1 + f.Elapsed*0.3 + lv.Treble*5
	p.Emissive = f.Tint(hsl(emissiveHue, 1, lv.Bass*2))

	spin := 1 + minute*0.5
	p.Rotate((0.05+lv.Mid*0.3)*spin, (0.05+lv.Treble*0.25)*spin, 0)

	p.Color = f.Tint(hsl(
		tod+f.Elapsed*0.2+lv.Bass*3,
		(0.8+lv.Mid*0.2)*(0.7+tod*0.3),
		(0.5+lv.Volume*0.5)*(0.6+hour*0.4),
	))

	if f.Beat && lv.Bass > 0.7 {
		p.Emissive = modulation.White
	}
	return Output{Params: []Param{p}}
}
