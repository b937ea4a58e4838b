package scene

import (
	"math"
	"math/rand"
	"time"

	"go-vj/modulation"
)

const (
	boltCount     = 12
	boltSegments  = 10
	stormOrbCount = 6
	cloudCount    = 300
)

// Storm backgrounds
var (
	stormSky       = modulation.Hex(0x0a0a20)
	stormFlashCool = modulation.Hex(0x2a2a4a)
	stormFlashWarm = modulation.Hex(0x4a4a2a)
)

// StormFlashDuration is how long the sky stays lit after a strong beat
const StormFlashDuration = 100 * time.Millisecond

// lightningStorm: flickering bolts, drifting orbs and a cloud layer
type lightningStorm struct{}

func (lightningStorm) Name() string { return "Lightning Storm" }

func (lightningStorm) Build(rng *rand.Rand) Layout {
	entities := []Entity{root(KindGroup, ShapeNone)}
	index := 0

	for i := 0; i < boltCount; i++ {
		path := make([]modulation.Vec3, boltSegments+1)
		for j := range path {
			fj := float64(j)
			path[j] = modulation.Vec3{
				X: spread(rng, 6) + math.Sin(fj*0.5)*2,
				Y: 8 - fj/boltSegments*16,
				Z: spread(rng, 6),
			}
		}
		meta := Meta{
			Tag:       TagBolt,
			Shape:     ShapePath,
			Index:     index,
			Phase:     float64(i) * 0.3,
			Intensity: rng.Float64()*0.5 + 0.5,
			Points:    path,
		}
		entities = append(entities, child(KindLine, meta, modulation.Vec3{}, hsl(0.6+float64(i)*0.05, 1, 0.8), 0.8))
		index++
	}

	for i := 0; i < stormOrbCount; i++ {
		radius := 0.3 + rng.Float64()*0.4
		pos := modulation.Vec3{X: spread(rng, 12), Y: spread(rng, 8), Z: spread(rng, 12)}
		meta := Meta{Tag: TagOrb, Shape: ShapeSphere, Index: index, Radius: radius, Origin: pos, Phase: float64(i)}
		entities = append(entities, child(KindMesh, meta, pos, hsl(0.65, 1, 0.9), 0.9))
		index++
	}

	clouds := make([]modulation.Vec3, cloudCount)
	for i := range clouds {
		r := rng.Float64()*15 + 5
		theta := rng.Float64() * math.Pi * 2
		phi := spread(rng, math.Pi*0.3)
		clouds[i] = modulation.Vec3{
			X: r * math.Cos(phi) * math.Cos(theta),
			Y: r*math.Sin(phi) + 5,
			Z: r * math.Cos(phi) * math.Sin(theta),
		}
	}
	cloud := child(KindPoints, Meta{Tag: TagClouds, Shape: ShapeCloud, Index: index, Points: clouds},
		modulation.Vec3{}, hsl(0.6+rng.Float64()*0.15, 0.8, 0.4+rng.Float64()*0.4), 0.4)
	cloud.Size = 6
	entities = append(entities, cloud)

	return Layout{
		Name:       "Lightning Storm",
		Background: stormSky,
		Entities:   entities,
		HighRate:   true,
	}
}

func (lightningStorm) Update(f *Frame, entities []Entity) Output {
	if len(entities) == 0 {
		return Output{}
	}
	lv := f.Levels
	t := f.Elapsed
	tod := f.TimeOfDay()
	hour := f.Cycles.HourSin
	minute := f.Cycles.MinuteCos
	second := f.Cycles.SecondSin15

	params := make([]Param, 0, len(entities))

	group := ParamFrom(entities[0])
	group.Rotate(0, (0.002+lv.Bass*0.01)*(1+tod*0.4), 0)
	params = append(params, group)

	for _, e := range entities[1:] {
		p := ParamFrom(e)
		phase := e.Meta.Phase

		switch e.Meta.Tag {
		case TagBolt:
			storm := 0.7 + tod*0.6
			bassIntensity := lv.Bass * e.Meta.Intensity * storm
			flicker := math.Sin(t*(15+second*10)+phase)*0.3 + 0.7
			p.Opacity = flicker * (0.5 + bassIntensity)
			hue := 0.6 + tod*0.1 + hour*0.05 + math.Sin(t*2+phase)*0.1 + lv.Treble*0.2
			p.Color = f.Tint(hsl(hue, 1, (0.8+bassIntensity*0.2)*storm))
			if f.Beat {
				p.Opacity = 1
				p.Color = modulation.White
			}

		case TagOrb:
			activity := 0.8 + tod*0.4
			bassImpact := lv.Bass * 2 * activity
			midImpact := lv.Mid * 1.5 * activity

			p.Scale = modulation.Uniform(0.8 + tod*0.4 + bassImpact*0.8 + math.Sin(t*3+phase)*0.3)
			vib := midImpact * (1 + minute*0.3)
			p.Position = e.Meta.Origin.Add(modulation.Vec3{
				X: math.Sin(t*2+phase) * vib,
				Y: math.Cos(t*1.5+phase) * vib,
				Z: math.Sin(t*2.5+phase) * vib,
			})
			hue := 0.65 + tod*0.1 + hour*0.05 + math.Sin(t*1.5+phase)*0.1 + lv.Treble*0.3
			p.Color = f.Tint(hsl(hue, 1, (0.8+bassImpact*0.2)*activity))
			p.Opacity = (0.7 + lv.Volume*0.3) * (0.8 + tod*0.2)
			spin := 1 + tod*0.3
			p.Rotate((0.02+lv.Mid*0.05)*spin, (0.03+lv.Treble*0.04)*spin, 0)

		case TagClouds:
			density := 0.7 + tod*0.6
			p.Size = (5 + lv.Volume*3) * density
			p.Opacity = (0.3 + lv.Mid*0.3) * density
			wind := 1 + hour*0.3
			p.Rotate(0, (0.005+lv.Bass*0.02)*wind, (0.003+lv.Treble*0.01)*wind)
		}
		params = append(params, p)
	}

	out := Output{Params: params}
	if f.Beat && lv.Bass > 0.6 {
		flash := stormFlashWarm
		if tod < 0.5 {
			flash = stormFlashCool
		}
		out.Flash = &BackgroundFlash{Color: flash, Revert: stormSky, After: StormFlashDuration}
	}
	return out
}
