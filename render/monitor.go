// Package render holds Monitor, an in-process rendering backend. It keeps
// the entity tables the engine builds and updates, so the terminal view and
// the Launchpad mirror can show what a GPU backend would draw.
package render

import (
	"errors"
	"fmt"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"

	"go-vj/debug"
	"go-vj/modulation"
	"go-vj/scene"
)

// GridSize is the side of the swatch grid (one Launchpad page)
const GridSize = 8

// ErrEmptyLayout is returned for layouts without entities
var ErrEmptyLayout = errors.New("layout has no entities")

type built struct {
	index     int
	name      string
	entities  []scene.Entity
	wireframe bool
	updates   uint64
}

// Stats counts backend calls
type Stats struct {
	Builds   int
	Disposes int
	Updates  uint64
}

// Monitor implements the engine backend contract in memory.
// It is safe for concurrent use.
type Monitor struct {
	mu         sync.Mutex
	next       scene.Handle
	scenes     map[scene.Handle]*built
	current    scene.Handle
	background modulation.RGB
	camera     modulation.Camera
	stats      Stats
}

// NewMonitor creates an empty monitor
func NewMonitor() *Monitor {
	return &Monitor{scenes: make(map[scene.Handle]*built)}
}

// BuildScene copies the layout's entities and makes the scene current
func (m *Monitor) BuildScene(index int, layout scene.Layout) (scene.Handle, error) {
	if len(layout.Entities) == 0 {
		return 0, fmt.Errorf("build %d %q: %w", index, layout.Name, ErrEmptyLayout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	h := m.next
	m.scenes[h] = &built{
		index:    index,
		name:     layout.Name,
		entities: append([]scene.Entity(nil), layout.Entities...),
	}
	m.current = h
	m.stats.Builds++
	debug.Log("render", "build %d %s handle=%d entities=%d", index, layout.Name, h, len(layout.Entities))
	return h, nil
}

// DisposeScene frees a scene. Unknown and already disposed handles are ignored.
func (m *Monitor) DisposeScene(h scene.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.scenes[h]; !ok {
		return
	}
	delete(m.scenes, h)
	if m.current == h {
		m.current = 0
	}
	m.stats.Disposes++
}

// ApplyWireframe switches every material of a scene
func (m *Monitor) ApplyWireframe(h scene.Handle, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.scenes[h]; ok {
		b.wireframe = enabled
	}
}

// ApplyParameters copies per-entity params. Unknown IDs are skipped.
func (m *Monitor) ApplyParameters(h scene.Handle, params []scene.Param) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.scenes[h]
	if !ok {
		return
	}
	for _, p := range params {
		i := int(p.ID) - 1
		if i < 0 || i >= len(b.entities) {
			continue
		}
		b.entities[i].Apply(p)
	}
	b.updates++
	m.stats.Updates++
}

// SetBackground sets the clear colour
func (m *Monitor) SetBackground(c modulation.RGB) {
	m.mu.Lock()
	m.background = c
	m.mu.Unlock()
}

// SetCamera sets the view
func (m *Monitor) SetCamera(c modulation.Camera) {
	m.mu.Lock()
	m.camera = c
	m.mu.Unlock()
}

// Live returns the number of scenes not yet disposed
func (m *Monitor) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.scenes)
}

// Stats returns the call counters
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// View is what the monitor currently shows
type View struct {
	Handle     scene.Handle
	Index      int
	Name       string
	Wireframe  bool
	Background modulation.RGB
	Camera     modulation.Camera
	Entities   int
	Visible    int
	Updates    uint64
	Grid       [GridSize][GridSize]modulation.RGB
}

// View snapshots the current scene
func (m *Monitor) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Handle:     m.current,
		Background: m.background,
		Camera:     m.camera,
	}
	b, ok := m.scenes[m.current]
	if !ok {
		for r := range v.Grid {
			for c := range v.Grid[r] {
				v.Grid[r][c] = m.background
			}
		}
		return v
	}

	v.Index = b.index
	v.Name = b.name
	v.Wireframe = b.wireframe
	v.Entities = len(b.entities)
	v.Updates = b.updates
	for _, e := range b.entities {
		if e.Visible {
			v.Visible++
		}
	}
	v.Grid = swatchGrid(b.entities, m.background)
	return v
}

// swatchGrid samples entities evenly onto the grid. Row 0 is the bottom row.
func swatchGrid(entities []scene.Entity, bg modulation.RGB) [GridSize][GridSize]modulation.RGB {
	var g [GridSize][GridSize]modulation.RGB
	cells := GridSize * GridSize
	for i := 0; i < cells; i++ {
		e := entities[i*len(entities)/cells]
		g[i/GridSize][i%GridSize] = Swatch(e, bg)
	}
	return g
}

// Swatch is the colour an entity shows: its base colour lit by the emissive
// term and faded toward bg by opacity. Hidden entities show bg.
func Swatch(e scene.Entity, bg modulation.RGB) modulation.RGB {
	back := toColorful(bg)
	if !e.Visible {
		return bg
	}
	base := toColorful(e.Color.RGB())
	glow := toColorful(e.Emissive.RGB())
	lit := base.BlendRgb(glow, modulation.Clamp(e.Emissive.L, 0, 1)*0.5)
	out := back.BlendRgb(lit, modulation.Clamp01(e.Opacity)).Clamped()
	r, g, b := out.RGB255()
	return modulation.RGB{r, g, b}
}

func toColorful(c modulation.RGB) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}
