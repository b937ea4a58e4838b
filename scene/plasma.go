package scene

import (
	"math/rand"

	"go-vj/modulation"
)

// plasmaField: one large wireframe sphere
type plasmaField struct{}

func (plasmaField) Name() string { return "Plasma Field" }

func (plasmaField) Build(rng *rand.Rand) Layout {
	body := root(KindMesh, ShapeSphere)
	body.Meta.Tag = TagBody
	body.Meta.Radius = 3
	body.Color = modulation.Hex(0x00ffff).HSL()
	body.Opacity = 0.3
	return Layout{
		Name:       "Plasma Field",
		Background: modulation.Hex(0x001122),
		Entities:   []Entity{body},
	}
}

func (plasmaField) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	tod := f.TimeOfDay()

	p := ParamFrom(entities[0])
	p.Scale = modulation.Uniform(0.8 + tod*0.4 + lv.Bass*2)
	p.Color = f.Tint(hsl(tod*0.2+f.Cycles.HourCos*0.1+f.Elapsed*0.1, 1, 0.5*(0.7+tod*0.3)))
	p.Opacity = (0.2 + lv.Volume*0.6) * (0.8 + tod*0.2)
	spin := 1 + f.Cycles.MinuteSin*0.3
	p.Rotate((0.01+lv.Mid*0.05)*spin, (0.02+lv.Treble*0.03)*spin, 0)
	return Output{Params: []Param{p}}
}
