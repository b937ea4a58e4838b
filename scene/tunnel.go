package scene

import (
	"math/rand"

	"go-vj/modulation"
)

const tunnelRings = 20

// hyperTunnel: rings flying toward the camera and recycling behind
type hyperTunnel struct{}

func (hyperTunnel) Name() string { return "Hyper Tunnel" }

func (hyperTunnel) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}
	for i := 0; i < tunnelRings; i++ {
		fi := float64(i)
		meta := Meta{Tag: TagRing, Shape: ShapeRing, Index: i, Inner: 1 + fi*0.5, Radius: 2 + fi*0.5}
		pos := modulation.Vec3{Z: -fi * 2}
		entities = append(entities, child(KindMesh, meta, pos, hsl(fi/tunnelRings, 1, 0.5), 0.6))
	}
	return Layout{
		Name:       "Hyper Tunnel",
		Background: modulation.Hex(0x000033),
		Entities:   entities,
	}
}

func (hyperTunnel) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	tod := f.TimeOfDay()

	speed := (1 + tod*0.5) * (1 + f.Cycles.SecondSin*0.3)
	step := (0.1 + lv.Bass*0.2) * speed
	length := 40 * (0.8 + tod*0.4)
	lightness := 0.5 * (0.7 + tod*0.3)
	opacity := (0.4 + lv.Mid*0.6) * (0.8 + tod*0.2)

	params := make([]Param, 0, len(entities))
	params = append(params, ParamFrom(entities[0]))

	for _, e := range entities[1:] {
		i := float64(e.Meta.Index)
		p := ParamFrom(e)
		p.Position.Z += step
		if p.Position.Z > 10 {
			p.Position.Z = -length
		}
		p.Color = f.Tint(hsl(tod+f.Cycles.MinuteCos*0.1+i/tunnelRings+f.Elapsed*0.05, 1, lightness))
		p.Opacity = opacity
		params = append(params, p)
	}
	return Output{Params: params}
}
