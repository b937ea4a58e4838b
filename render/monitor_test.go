package render

import (
	"errors"
	"math/rand"
	"testing"

	"go-vj/modulation"
	"go-vj/scene"
)

func buildLayout(t *testing.T, index int) scene.Layout {
	t.Helper()
	s, err := scene.Get(index)
	if err != nil {
		t.Fatal(err)
	}
	l := s.Build(rand.New(rand.NewSource(1)))
	for i := range l.Entities {
		l.Entities[i].ID = scene.EntityID(i + 1)
	}
	return l
}

func TestDisposeIsIdempotent(t *testing.T) {
	m := NewMonitor()
	h, err := m.BuildScene(1, buildLayout(t, 1))
	if err != nil {
		t.Fatal(err)
	}

	m.DisposeScene(h)
	m.DisposeScene(h)
	m.DisposeScene(0)
	m.DisposeScene(999)

	if m.Live() != 0 {
		t.Errorf("live = %d, want 0", m.Live())
	}
	if s := m.Stats(); s.Disposes != 1 {
		t.Errorf("disposes = %d, want 1", s.Disposes)
	}
	if v := m.View(); v.Handle != 0 || v.Entities != 0 {
		t.Errorf("view after dispose = %+v", v)
	}
}

func TestBuildRejectsEmptyLayout(t *testing.T) {
	m := NewMonitor()
	_, err := m.BuildScene(3, scene.Layout{Name: "empty"})
	if !errors.Is(err, ErrEmptyLayout) {
		t.Errorf("err = %v, want ErrEmptyLayout", err)
	}
	if m.Live() != 0 {
		t.Error("empty layout left a scene behind")
	}
}

func TestCallsOnDisposedSceneAreIgnored(t *testing.T) {
	m := NewMonitor()
	h, _ := m.BuildScene(1, buildLayout(t, 1))
	m.DisposeScene(h)

	m.ApplyWireframe(h, true)
	m.ApplyParameters(h, []scene.Param{{ID: 1}})
	if s := m.Stats(); s.Updates != 0 {
		t.Errorf("updates = %d on a disposed scene", s.Updates)
	}
}

func TestApplyParameters(t *testing.T) {
	m := NewMonitor()
	l := buildLayout(t, 6)
	h, _ := m.BuildScene(6, l)

	p := scene.ParamFrom(l.Entities[1])
	p.Opacity = 0.25
	p.Visible = false
	m.ApplyParameters(h, []scene.Param{p, {ID: 0}, {ID: 10000}})

	v := m.View()
	if v.Updates != 1 {
		t.Errorf("updates = %d", v.Updates)
	}
	if v.Visible != len(l.Entities)-1 {
		t.Errorf("visible = %d, want %d", v.Visible, len(l.Entities)-1)
	}
}

func TestWireframeAndView(t *testing.T) {
	m := NewMonitor()
	h, _ := m.BuildScene(5, buildLayout(t, 5))
	m.ApplyWireframe(h, true)
	m.SetBackground(modulation.Hex(0x102030))

	v := m.View()
	if !v.Wireframe || v.Index != 5 || v.Name != scene.Name(5) {
		t.Errorf("view = %+v", v)
	}
	if v.Background != modulation.Hex(0x102030) {
		t.Errorf("background = %v", v.Background)
	}
}

func TestSwatch(t *testing.T) {
	bg := modulation.Black
	red := scene.Entity{
		Color:   modulation.Hex(0xff0000).HSL(),
		Opacity: 1,
		Visible: true,
	}
	tests := []struct {
		name string
		mod  func(e scene.Entity) scene.Entity
		want modulation.RGB
	}{
		{"opaque", func(e scene.Entity) scene.Entity { return e }, modulation.Hex(0xff0000)},
		{"hidden", func(e scene.Entity) scene.Entity { e.Visible = false; return e }, bg},
		{"transparent", func(e scene.Entity) scene.Entity { e.Opacity = 0; return e }, bg},
	}
	for _, tt := range tests {
		if got := Swatch(tt.mod(red), bg); got != tt.want {
			t.Errorf("%s: swatch = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGridFillsFromSingleEntity(t *testing.T) {
	m := NewMonitor()
	m.BuildScene(1, buildLayout(t, 1))
	v := m.View()
	first := v.Grid[0][0]
	for r := range v.Grid {
		for c := range v.Grid[r] {
			if v.Grid[r][c] != first {
				t.Fatalf("cell %d,%d = %v, want %v", r, c, v.Grid[r][c], first)
			}
		}
	}
}
