package scene

import (
	"math"
	"math/rand"

	"go-vj/modulation"
)

const (
	neonRingCount     = 8
	neonParticleCount = 200
)

// neonRings: concentric rings around a core orb, seen from a fixed camera
type neonRings struct{}

func (neonRings) Name() string { return "Neon Pulse Rings" }

func (neonRings) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}

	for i := 0; i < neonRingCount; i++ {
		radius := 2 + float64(i)*0.8
		meta := Meta{
			Tag:    TagRing,
			Shape:  ShapeRing,
			Index:  i,
			Radius: radius + 0.1,
			Inner:  radius - 0.1,
			Phase:  float64(i) * 0.5,
			Speed:  0.02 + float64(i)*0.01,
		}
		entities = append(entities, child(KindMesh, meta, modulation.Vec3{},
			hsl(float64(i)/neonRingCount, 1, 0.5), 0.8))
	}

	core := child(KindMesh, Meta{Tag: TagCore, Shape: ShapeSphere, Index: neonRingCount, Radius: 0.5},
		modulation.Vec3{}, modulation.Hex(0x00ffff).HSL(), 0.9)
	entities = append(entities, core)

	points := make([]modulation.Vec3, neonParticleCount)
	for i := range points {
		r := 8 + rng.Float64()*4
		theta := rng.Float64() * math.Pi * 2
		phi := rng.Float64() * math.Pi
		points[i] = modulation.Vec3{
			X: r * math.Sin(phi) * math.Cos(theta),
			Y: r * math.Sin(phi) * math.Sin(theta),
			Z: r * math.Cos(phi),
		}
	}
	particles := child(KindPoints, Meta{Tag: TagParticles, Shape: ShapeCloud, Index: neonRingCount + 1, Points: points},
		modulation.Vec3{}, hsl(0.5+rng.Float64()*0.2, 1, 0.8), 0.7)
	particles.Size = 4
	entities = append(entities, particles)

	return Layout{
		Name:       "Neon Pulse Rings",
		Background: modulation.Hex(0x000a1a),
		Entities:   entities,
		Camera:     CameraFixed,
		CameraPos:  modulation.Vec3{Z: -5},
		CameraLook: modulation.Vec3{Z: 10},
		HighRate:   true,
	}
}

func (neonRings) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	t := f.Elapsed
	tod := f.TimeOfDay()
	hour := f.Cycles.HourSin
	minute := f.Cycles.MinuteCos
	second := f.Cycles.SecondSin

	params := make([]Param, 0, len(entities))

	group := ParamFrom(entities[0])
	groupSpin := 1 + tod*0.3
	group.Rotate((0.005+lv.Mid*0.02)*groupSpin, (0.008+lv.Bass*0.03)*groupSpin, 0)
	params = append(params, group)

	for _, e := range entities[1:] {
		p := ParamFrom(e)
		switch e.Meta.Tag {
		case TagCore:
			p.Scale = modulation.Uniform(0.8 + tod*0.4 + lv.Bass*2)
			hue := tod + hour*0.2 + t*0.2 + lv.Treble*2
			p.Color = f.Tint(hsl(hue, 1, 0.8*(0.7+tod*0.3)))
			p.Opacity = (0.7 + lv.Volume*0.3) * (0.8 + tod*0.2)
			spin := 1 + minute*0.3
			p.Rotate((0.02+lv.Mid*0.1)*spin, (0.03+lv.Treble*0.08)*spin, 0)

		case TagParticles:
			p.Size = (3 + lv.Volume*5) * (1 + tod*1.5)
			p.Opacity = (0.5 + lv.Mid*0.5) * (0.6 + tod*0.4)
			p.Rotate(0, (0.01+lv.Bass*0.05)*(1+second*0.4), (0.005+lv.Treble*0.03)*(1+minute*0.3))

		case TagRing:
			i := float64(e.Meta.Index)
			bassImpact := lv.Bass * 3
			midImpact := lv.Mid * 2

			pulse := 1 + second*0.2 + bassImpact*0.3 + math.Sin(t*e.Meta.Speed+e.Meta.Phase)*0.2
			p.Scale = modulation.Uniform(pulse)

			hue := i/neonRingCount + tod*(i+1)*0.1 + t*0.1 + lv.Treble*1.5 + f.Color.Hue + hour*0.1
			p.Color = f.Tint(hsl(hue,
				(0.8+midImpact*0.2)*(0.7+tod*0.3),
				(0.4+bassImpact*0.4)*(0.6+minute*0.4),
			))
			p.Opacity = (0.6 + lv.Volume*0.4) * (0.7 + tod*0.3)
			p.Rotate(0, 0, (e.Meta.Speed+lv.Treble*0.1)*(1+hour*0.2))

			if f.Beat {
				p.Opacity = 1
				p.Scale = p.Scale.Scale(1.2 * (1 + tod*0.1))
			}
		}
		params = append(params, p)
	}
	return Output{Params: params}
}
