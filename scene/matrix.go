package scene

import (
	"math"
	"math/rand"

	"go-vj/modulation"
)

const matrixExtent = 10

// cyberMatrix: a field of falling columns
type cyberMatrix struct{}

func (cyberMatrix) Name() string { return "Cyber Matrix" }

func (cyberMatrix) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}
	i := 0
	for x := -matrixExtent; x <= matrixExtent; x++ {
		for z := -matrixExtent; z <= matrixExtent; z++ {
			height := rng.Float64()*10 + 2
			meta := Meta{Tag: TagBody, Shape: ShapeBox, Index: i, Dims: modulation.Vec3{X: 0.3, Y: height, Z: 0.3}}
			pos := modulation.Vec3{X: float64(x), Y: height / 2, Z: float64(z)}
			entities = append(entities, child(KindMesh, meta, pos, hsl(0.3+rng.Float64()*0.2, 1, 0.5), 0.7))
			i++
		}
	}
	return Layout{
		Name:       "Cyber Matrix",
		Background: modulation.Hex(0x001a1a),
		Entities:   entities,
	}
}

func (cyberMatrix) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	tod := f.TimeOfDay()

	fall := (0.05 + lv.Bass*0.1) * (0.8 + tod*0.4)
	reset := 15 * (0.8 + tod*0.4)
	hueBase := tod*0.2 + f.Cycles.HourSin*0.1 + 0.3
	saturation := 0.8 + tod*0.2
	lightness := 0.5 * (0.7 + f.Cycles.MinuteCos*0.3)
	opacity := (0.5 + lv.Mid*0.5) * (0.7 + tod*0.3)

	params := make([]Param, 0, len(entities))
	params = append(params, ParamFrom(entities[0]))

	for _, e := range entities[1:] {
		i := float64(e.Meta.Index)
		p := ParamFrom(e)
		p.Position.Y -= fall
		if p.Position.Y < -10 {
			p.Position.Y = reset
		}
		p.Color = f.Tint(hsl(hueBase+math.Sin(f.Elapsed*0.5+i*0.1)*0.2, saturation, lightness))
		p.Opacity = opacity
		params = append(params, p)
	}
	return Output{Params: params}
}
