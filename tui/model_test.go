package tui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-vj/engine"
	"go-vj/render"
	"go-vj/sequencer"
	"go-vj/theme"
)

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  string
		want engine.Command
		ok   bool
	}{
		{"1", engine.Command{Kind: engine.SelectScene, N: 1}, true},
		{"9", engine.Command{Kind: engine.SelectScene, N: 9}, true},
		{"0", engine.Command{Kind: engine.SelectScene, N: 10}, true},
		{"f3", engine.Command{Kind: engine.SelectScene, N: 12}, true},
		{"f4", engine.Command{Kind: engine.ToggleAutoMode}, true},
		{"S", engine.Command{Kind: engine.ToggleSequencer}, true},
		{"a", engine.Command{Kind: engine.AdjustBPM, N: -1}, true},
		{"D", engine.Command{Kind: engine.AdjustBPM, N: 1}, true},
		{"r", engine.Command{Kind: engine.AdjustEffect, Effect: engine.Filter, Value: 0.1}, true},
		{"R", engine.Command{Kind: engine.ResetDisplay}, true},
		{"w", engine.Command{Kind: engine.AdjustEffect, Effect: engine.Reverb, Value: 0.1}, true},
		{"W", engine.Command{Kind: engine.ToggleWireframe}, true},
		{"b", engine.Command{Kind: engine.ToggleRandomBpmTrigger}, true},
		{"B", engine.Command{Kind: engine.ToggleRandomBpmTrigger}, true},
		{"X", engine.Command{Kind: engine.CyclePattern, Instrument: sequencer.Hihat}, true},
		{" ", engine.Command{Kind: engine.TriggerFlash}, true},
		{"=", engine.Command{Kind: engine.AdjustVolume, Value: 0.1}, true},
		{"esc", engine.Command{Kind: engine.HideHelp}, true},
		{"left", engine.Command{Kind: engine.StepScene, N: -1}, true},
		{"enter", engine.Command{Kind: engine.RandomScene}, true},
		{"g", engine.Command{}, false},
		{"ctrl+x", engine.Command{}, false},
	}
	for _, tt := range tests {
		got, ok := KeyCommand(tt.key)
		if ok != tt.ok || got != tt.want {
			t.Errorf("KeyCommand(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	mon := render.NewMonitor()
	eng, err := engine.New(engine.Options{
		Backend: mon,
		Seed:    7,
		Now:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	th, _ := theme.Load("plasma")
	return NewModel(eng, mon, nil, th)
}

func TestUpdateDispatchesKeys(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'W'}})
	m = next.(Model)
	if !m.Engine.Snapshot().State.Wireframe {
		t.Error("W did not turn wireframe on")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !next.(Model).quitting {
		t.Error("ctrl+c did not quit")
	}
}

func TestMouseDragOrbits(t *testing.T) {
	m := newTestModel(t)
	before := m.Engine.Snapshot().State.Camera.Theta

	next, _ := m.Update(tea.MouseMsg{X: 10, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	next, _ = next.Update(tea.MouseMsg{X: 12, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = next.(Model)

	after := m.Engine.Snapshot().State.Camera.Theta
	if want := before - 2*orbitPerCell; math.Abs(after-want) > 1e-9 {
		t.Errorf("theta = %v, want %v", after, want)
	}

	next, _ = m.Update(tea.MouseMsg{X: 12, Y: 10, Action: tea.MouseActionRelease})
	next, _ = next.Update(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionMotion})
	if got := next.(Model).Engine.Snapshot().State.Camera.Theta; got != after {
		t.Errorf("motion after release orbited to %v", got)
	}
}

func TestMouseWheelZooms(t *testing.T) {
	m := newTestModel(t)
	before := m.Engine.Snapshot().State.Camera.Radius
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := m.Engine.Snapshot().State.Camera.Radius; got != before+zoomStep {
		t.Errorf("radius = %v, want %v", got, before+zoomStep)
	}
}

func TestMouseEffectColumn(t *testing.T) {
	m := newTestModel(t)
	m.width, m.height = 80, 40
	c, ok := m.mouseCommand(tea.MouseMsg{X: 79, Y: 20, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !ok || c.Kind != engine.TriggerEffect || c.Value != 0.5 {
		t.Errorf("right edge press = %v, %v", c, ok)
	}
	c, ok = m.mouseCommand(tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !ok || c.Kind != engine.Click || c.X <= 0 || c.Y <= 0 {
		t.Errorf("left press = %v, %v", c, ok)
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	for _, want := range []string{"go-vj", "128bpm", "scene 1", "kick"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.Engine.Dispatch(engine.Command{Kind: engine.ToggleHelp})
	out = m.View()
	for _, want := range []string{"reset display", "ctrl+c", "Launchpad", "bpm random trigger"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestWindowSizeResizesScreen(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	if w, h := m.Engine.ScreenSize(); w != 100*cellWidth || h != 30*cellHeight {
		t.Errorf("screen = %dx%d, want %dx%d", w, h, 100*cellWidth, 30*cellHeight)
	}
	// a click in the middle cell lands in the middle of the screen
	c, ok := m.mouseCommand(tea.MouseMsg{X: 50, Y: 15, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !ok || c.Kind != engine.Click {
		t.Fatalf("press = %v, %v", c, ok)
	}
	if want := 50.5 * cellWidth; math.Abs(c.X-want) > 1e-9 {
		t.Errorf("click x = %v, want %v", c.X, want)
	}
}
