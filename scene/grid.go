package scene

import (
	"math"
	"math/rand"

	"go-vj/modulation"
)

const gridExtent = 15

// pulseGrid: a floor of tiles whose height follows the bass
type pulseGrid struct{}

func (pulseGrid) Name() string { return "Pulse Grid" }

func (pulseGrid) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}
	i := 0
	for x := -gridExtent; x <= gridExtent; x += 2 {
		for z := -gridExtent; z <= gridExtent; z += 2 {
			meta := Meta{Tag: TagBody, Shape: ShapeBox, Index: i, Dims: modulation.Vec3{X: 0.5, Y: 0.1, Z: 0.5}}
			pos := modulation.Vec3{X: float64(x), Z: float64(z)}
			entities = append(entities, child(KindMesh, meta, pos, hsl(0.6, 1, 0.3), 1))
			i++
		}
	}
	return Layout{
		Name:       "Pulse Grid",
		Background: modulation.Hex(0x001a33),
		Entities:   entities,
	}
}

func (pulseGrid) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	tod := f.TimeOfDay()
	minute := f.Cycles.MinuteSin
	second := f.Cycles.SecondCos

	height := 0.7 + tod*0.6 + lv.Bass*6
	side := 0.8 + tod*0.4 + lv.Mid*0.5
	lightness := (0.3 + lv.Mid) * (0.7 + tod*0.3)
	opacity := (0.6 + lv.Volume*0.8) * (0.8 + tod*0.2)
	vibration := lv.Bass * 0.5 * (1 + second*0.3)

	params := make([]Param, 0, len(entities))

	group := ParamFrom(entities[0])
	group.Rotate(lv.Bass*0.02*(1+minute*0.2), (0.01+lv.Treble*0.08)*(1+tod*0.3), 0)
	params = append(params, group)

	for _, e := range entities[1:] {
		i := float64(e.Meta.Index)
		p := ParamFrom(e)
		p.Scale = modulation.Vec3{X: side, Y: height, Z: side}
		p.Color = f.Tint(hsl(tod+minute*0.1+0.6+lv.Treble*0.4+i*0.05, 1, lightness))
		p.Opacity = opacity
		p.Position.Y += math.Sin(f.Elapsed*5+i*0.5) * vibration
		params = append(params, p)
	}
	return Output{Params: params}
}
