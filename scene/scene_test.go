package scene

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"go-vj/modulation"
)

func build(t *testing.T, index int, seed int64) Layout {
	t.Helper()
	s, err := Get(index)
	if err != nil {
		t.Fatalf("Get(%d): %v", index, err)
	}
	l := s.Build(rand.New(rand.NewSource(seed)))
	for i := range l.Entities {
		l.Entities[i].ID = EntityID(i + 1)
	}
	return l
}

func testFrame(bass float64, beat bool, seed int64) *Frame {
	s := modulation.NewState()
	s.Elapsed = 3.2
	s.RefreshWallClock(time.Date(2024, 6, 1, 14, 25, 10, 0, time.UTC))
	s.Levels = modulation.Levels{Bass: bass, Mid: 0.4, Treble: 0.3, Volume: 0.5}
	s.Beat = beat
	return NewFrame(s, rand.New(rand.NewSource(seed)))
}

func TestRegistry(t *testing.T) {
	want := []string{
		"Pulsar", "Particle Storm", "Neon Pulse Rings", "Neon Strobe",
		"Pulse Grid", "Energy Orbs", "Laser Beams", "Plasma Field",
		"Strobe Chaos", "Hyper Tunnel", "Lightning Storm", "Cyber Matrix",
	}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v", got)
	}
	if _, err := Get(0); err == nil {
		t.Error("Get(0) should fail")
	}
	if _, err := Get(13); err == nil {
		t.Error("Get(13) should fail")
	}
	if Name(99) != "Unknown" {
		t.Errorf("Name(99) = %q", Name(99))
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct{ index, want int }{
		{-4, 1}, {0, 1}, {7, 7}, {12, 12}, {40, 12},
	}
	for _, tt := range tests {
		if got := ClampIndex(tt.index); got != tt.want {
			t.Errorf("ClampIndex(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}
}

func TestEntityCounts(t *testing.T) {
	// root entity included
	tests := []struct {
		index int
		want  int
	}{
		{1, 1},
		{2, 1 + 1000},
		{3, 1 + 8 + 2},
		{4, 1 + 20},
		{5, 1 + 16*16},
		{6, 1 + 8},
		{7, 1 + 1 + 16},
		{8, 1},
		{9, 1 + 50},
		{10, 1 + 20},
		{11, 1 + 12 + 6 + 1},
		{12, 1 + 21*21},
	}
	for _, tt := range tests {
		l := build(t, tt.index, 1)
		if len(l.Entities) != tt.want {
			t.Errorf("scene %d: %d entities, want %d", tt.index, len(l.Entities), tt.want)
		}
	}
}

func TestFramingAndRate(t *testing.T) {
	for i := 1; i <= Count; i++ {
		l := build(t, i, 1)
		high := i == 3 || i == 7 || i == 11
		if l.HighRate != high {
			t.Errorf("scene %d HighRate = %v", i, l.HighRate)
		}
		if (l.Camera == CameraFixed) != (i == 3) {
			t.Errorf("scene %d camera mode %v", i, l.Camera)
		}
		if (l.Camera == CameraOrbit) != (i == 1 || i == 2) {
			t.Errorf("scene %d camera mode %v", i, l.Camera)
		}
	}
}

func TestUpdateIsDeterministic(t *testing.T) {
	for i := 1; i <= Count; i++ {
		s, _ := Get(i)
		a := s.Update(testFrame(0.8, true, 7), build(t, i, 3).Entities)
		b := s.Update(testFrame(0.8, true, 7), build(t, i, 3).Entities)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("scene %d: same seed gave different output", i)
		}
	}
}

func TestUpdateEmptyEntities(t *testing.T) {
	for i := 1; i <= Count; i++ {
		s, _ := Get(i)
		out := s.Update(testFrame(0.5, true, 1), nil)
		if len(out.Params) != 0 || out.Flash != nil {
			t.Errorf("scene %d produced output without entities", i)
		}
	}
}

func TestParamsKeepIDs(t *testing.T) {
	for i := 1; i <= Count; i++ {
		l := build(t, i, 1)
		s, _ := Get(i)
		out := s.Update(testFrame(0.5, false, 1), l.Entities)
		for _, p := range out.Params {
			if p.ID < 1 || int(p.ID) > len(l.Entities) {
				t.Fatalf("scene %d: param for unknown entity %d", i, p.ID)
			}
		}
	}
}

func TestBeatOverridesOpacity(t *testing.T) {
	l := build(t, 6, 1)
	s, _ := Get(6)

	calm := s.Update(testFrame(0.2, false, 1), l.Entities)
	beat := s.Update(testFrame(0.2, true, 1), l.Entities)

	for i, p := range beat.Params[1:] {
		if p.Opacity != 1 {
			t.Errorf("orb %d opacity on beat = %v, want 1", i, p.Opacity)
		}
		if calm.Params[i+1].Opacity >= 1 {
			t.Errorf("orb %d opacity without beat = %v, want < 1", i, calm.Params[i+1].Opacity)
		}
	}
}

func TestRingsScaleUpOnBeat(t *testing.T) {
	l := build(t, 3, 1)
	s, _ := Get(3)
	calm := s.Update(testFrame(0.5, false, 1), l.Entities)
	beat := s.Update(testFrame(0.5, true, 1), l.Entities)

	for i, e := range l.Entities {
		if e.Meta.Tag != TagRing {
			continue
		}
		if beat.Params[i].Scale.X <= calm.Params[i].Scale.X {
			t.Errorf("ring %d not scaled up on beat", e.Meta.Index)
		}
	}
}

func TestPulsarBeatFlashesEmissive(t *testing.T) {
	l := build(t, 1, 1)
	s, _ := Get(1)

	out := s.Update(testFrame(0.9, true, 1), l.Entities)
	if out.Params[0].Emissive != modulation.White {
		t.Errorf("emissive = %+v, want white", out.Params[0].Emissive)
	}
	out = s.Update(testFrame(0.6, true, 1), l.Entities)
	if out.Params[0].Emissive == modulation.White {
		t.Error("emissive flashed below 0.7 bass")
	}
	if got := out.Params[0].Scale.X; math.Abs(got-(0.8+testFrame(0, false, 1).TimeOfDay()*0.4+0.6*8)) > 1e-9 {
		t.Errorf("scale = %v", got)
	}
}

func TestStormFlashRequest(t *testing.T) {
	l := build(t, 11, 1)
	s, _ := Get(11)

	if out := s.Update(testFrame(0.5, true, 1), l.Entities); out.Flash != nil {
		t.Error("flash requested at bass 0.5")
	}
	out := s.Update(testFrame(0.7, true, 1), l.Entities)
	if out.Flash == nil {
		t.Fatal("no flash at bass 0.7 on beat")
	}
	// 14:25 is past midday
	if out.Flash.Color != stormFlashWarm || out.Flash.Revert != stormSky {
		t.Errorf("flash = %+v", out.Flash)
	}
}

func TestParticleStormMovesEveryFifth(t *testing.T) {
	l := build(t, 2, 1)
	s, _ := Get(2)
	out := s.Update(testFrame(0.2, false, 1), l.Entities)

	// root plus particles 0, 5, 10, ...
	if want := 1 + stormParticles/updateStride; len(out.Params) != want {
		t.Fatalf("%d params, want %d", len(out.Params), want)
	}
	if out.Params[2].ID != l.Entities[1+updateStride].ID {
		t.Errorf("second particle param is for entity %d", out.Params[2].ID)
	}
}

func TestTunnelRecycles(t *testing.T) {
	l := build(t, 10, 1)
	l.Entities[1].Position.Z = 9.99
	s, _ := Get(10)
	out := s.Update(testFrame(1, true, 1), l.Entities)
	if out.Params[1].Position.Z >= 0 {
		t.Errorf("ring past the camera not recycled: z = %v", out.Params[1].Position.Z)
	}
}

func TestTintScalesSaturationAndLightness(t *testing.T) {
	f := testFrame(0, false, 1)
	f.Color = modulation.GlobalColor{Hue: 0.4, Saturation: 0.5, Brightness: 0.5}
	got := f.Tint(modulation.HSL{H: 0.2, S: 1, L: 0.8})
	if got.H != 0.2 || got.S != 0.5 || got.L != 0.4 {
		t.Errorf("Tint = %+v", got)
	}
}

func TestParamRoundTrip(t *testing.T) {
	e := Entity{ID: 4, Position: modulation.Vec3{X: 1}, Opacity: 0.5, Visible: true}
	p := ParamFrom(e)
	p.Rotate(0.1, 0, 0)
	p.Rotate(0.1, 0, 0)
	e.Apply(p)
	if math.Abs(e.Rotation.X-0.2) > 1e-12 || math.Abs(p.RotationDelta.X-0.2) > 1e-12 {
		t.Errorf("rotation = %+v, delta = %+v", e.Rotation, p.RotationDelta)
	}
	if e.Position.X != 1 || e.Opacity != 0.5 || !e.Visible {
		t.Errorf("apply lost fields: %+v", e)
	}
}
