package scene

import (
	"math"
	"math/rand"

	"go-vj/modulation"
)

const (
	stormParticles = 1000
	// only every updateStride-th particle moves on a given frame
	updateStride = 5
)

// particleStorm is a bouncing cloud of points coloured by the three bands
type particleStorm struct{}

func (particleStorm) Name() string { return "Particle Storm" }

func (particleStorm) Build(rng *rand.Rand) Layout {
	entities := make([]Entity, 0, stormParticles+1)

	cloud := root(KindPoints, ShapeCloud)
	cloud.Size = 2
	cloud.Opacity = 0.8
	entities = append(entities, cloud)

	for i := 0; i < stormParticles; i++ {
		p := child(KindPoints, Meta{Tag: TagParticles, Index: i}, randomVec(rng, 20),
			rgbToHSL(rng.Float64(), rng.Float64(), rng.Float64()), 1)
		p.Velocity = randomVec(rng, 0.02)
		entities = append(entities, p)
	}

	return Layout{
		Name:       "Particle Storm",
		Background: modulation.Hex(0x000011),
		Entities:   entities,
		Camera:     CameraOrbit,
	}
}

func (particleStorm) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	tod := f.TimeOfDay()
	seconds := f.Cycles.SecondSin
	minutes := f.Cycles.MinuteCos

	musicFactor := (1 + lv.Mid*2) * (0.8 + tod*0.4)
	movement := musicFactor * (1 + seconds*0.3)
	boundary := 15 * (0.8 + tod*0.4)

	particles := entities[1:]
	params := make([]Param, 0, len(particles)/updateStride+1)

	cloud := ParamFrom(entities[0])
	cloud.Size = (3 + lv.Volume*15 + math.Sin(f.Elapsed*10)*3) * (1 + tod*2)
	cloud.Scale = modulation.Uniform((1 + lv.Bass*1.5) * (0.8 + tod*0.4))
	cloud.Rotate(lv.Mid*0.15*(1+seconds*0.3), lv.Treble*0.2*(1+minutes*0.5), 0)
	if f.Beat {
		cloud.Opacity = 1
		cloud.Scale = cloud.Scale.Scale(1.5 * (1 + tod*0.2))
	} else {
		cloud.Opacity = 0.8 * (0.7 + tod*0.3)
	}
	params = append(params, cloud)

	color := f.Tint(rgbToHSL(
		lv.Bass*(0.7+tod*0.3),
		lv.Mid*(0.8+minutes*0.2),
		lv.Treble*(0.6+seconds*0.4),
	))

	for i := 0; i < len(particles); i += updateStride {
		p := ParamFrom(particles[i])
		p.Position = p.Position.Add(p.Velocity.Scale(movement))
		if math.Abs(p.Position.X) > boundary {
			p.Velocity.X = -p.Velocity.X
		}
		if math.Abs(p.Position.Y) > boundary {
			p.Velocity.Y = -p.Velocity.Y
		}
		if math.Abs(p.Position.Z) > boundary {
			p.Velocity.Z = -p.Velocity.Z
		}
		p.Color = color
		params = append(params, p)
	}
	return Output{Params: params}
}
