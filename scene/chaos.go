package scene

import (
	"math/rand"

	"go-vj/modulation"
)

const chaosBoxes = 50

// strobeChaos: random boxes that blink and teleport
type strobeChaos struct{}

func (strobeChaos) Name() string { return "Strobe Chaos" }

func (strobeChaos) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}
	for i := 0; i < chaosBoxes; i++ {
		dims := modulation.Vec3{X: rng.Float64() * 0.5, Y: rng.Float64() * 0.5, Z: rng.Float64() * 0.5}
		meta := Meta{Tag: TagBody, Shape: ShapeBox, Index: i, Dims: dims}
		color := randomHex(rng)
		entities = append(entities, child(KindMesh, meta, randomVec(rng, 15), color, 1))
	}
	return Layout{
		Name:       "Strobe Chaos",
		Background: modulation.Black,
		Entities:   entities,
	}
}

func (strobeChaos) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	tod := f.TimeOfDay()

	intensity := 0.7 + tod*0.6
	threshold := 0.7 * intensity
	if f.Beat {
		threshold = 0.3 * intensity
	}
	chaosFreq := 0.05 * (0.8 + tod*0.4) * (1 + f.Cycles.SecondSin15*0.5)
	chaosRange := 15 * (0.8 + tod*0.4)

	params := make([]Param, 0, len(entities))
	params = append(params, ParamFrom(entities[0]))

	for _, e := range entities[1:] {
		p := ParamFrom(e)
		p.Visible = f.Rand.Float64() > threshold

		if f.Beat {
			p.Color = f.Tint(randomHex(f.Rand).Offset(tod*0.3, 0, 0))
		}
		if f.Rand.Float64() > 0.95-chaosFreq {
			p.Position = randomVec(f.Rand, chaosRange)
		}
		params = append(params, p)
	}
	return Output{Params: params}
}
