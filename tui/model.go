package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-vj/engine"
	"go-vj/midi"
	"go-vj/modulation"
	"go-vj/render"
	"go-vj/sequencer"
	"go-vj/theme"
	"go-vj/widgets"
)

// Mouse gestures
const (
	orbitPerCell = 0.05 // radians per dragged cell
	zoomStep     = 0.5
	effectCols   = 4 // rightmost columns trigger effects by height
	barWidth     = 20

	// the engine's screen follows the terminal at this many points per cell
	cellWidth  = 8
	cellHeight = 16
)

type Model struct {
	Engine    *engine.Engine
	Monitor   *render.Monitor
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme

	quitting   bool
	width      int
	height     int
	dragging   bool
	lastX      int
	lastY      int
	controller midi.Controller // current launchpad (may be nil)
	keyboards  int
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(eng *engine.Engine, mon *render.Monitor, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Engine:    eng,
		Monitor:   mon,
		DeviceMgr: deviceMgr,
		Theme:     th,
	}
}

func ListenForUpdates(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		<-eng.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Engine)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

// KeyCommand maps a key to a command. Letters are case-insensitive except
// r/R (filter up / reset display) and w/W (reverb up / wireframe).
func KeyCommand(key string) (engine.Command, bool) {
	switch key {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return engine.Command{Kind: engine.SelectScene, N: int(key[0] - '0')}, true
	case "0":
		return engine.Command{Kind: engine.SelectScene, N: 10}, true
	case "f2":
		return engine.Command{Kind: engine.SelectScene, N: 11}, true
	case "f3":
		return engine.Command{Kind: engine.SelectScene, N: 12}, true
	case "f4":
		return engine.Command{Kind: engine.ToggleAutoMode}, true
	case "left":
		return engine.Command{Kind: engine.StepScene, N: -1}, true
	case "right":
		return engine.Command{Kind: engine.StepScene, N: 1}, true
	case "enter":
		return engine.Command{Kind: engine.RandomScene}, true
	case "up":
		return engine.Command{Kind: engine.Zoom, Value: -zoomStep}, true
	case "down":
		return engine.Command{Kind: engine.Zoom, Value: zoomStep}, true

	case "R":
		return engine.Command{Kind: engine.ResetDisplay}, true
	case "W":
		return engine.Command{Kind: engine.ToggleWireframe}, true

	case "-":
		return engine.Command{Kind: engine.AdjustVolume, Value: -0.1}, true
	case "=", "+":
		return engine.Command{Kind: engine.AdjustVolume, Value: 0.1}, true
	case " ", "space":
		return engine.Command{Kind: engine.TriggerFlash}, true
	case "f1":
		return engine.Command{Kind: engine.ToggleHelp}, true
	case "esc":
		return engine.Command{Kind: engine.HideHelp}, true
	}

	switch strings.ToLower(key) {
	case "s":
		return engine.Command{Kind: engine.ToggleSequencer}, true
	case "a":
		return engine.Command{Kind: engine.AdjustBPM, N: -1}, true
	case "d":
		return engine.Command{Kind: engine.AdjustBPM, N: 1}, true
	case "q":
		return engine.Command{Kind: engine.AdjustEffect, Effect: engine.Reverb, Value: -0.1}, true
	case "w":
		return engine.Command{Kind: engine.AdjustEffect, Effect: engine.Reverb, Value: 0.1}, true
	case "e":
		return engine.Command{Kind: engine.AdjustEffect, Effect: engine.Filter, Value: -0.1}, true
	case "r":
		return engine.Command{Kind: engine.AdjustEffect, Effect: engine.Filter, Value: 0.1}, true
	case "t":
		return engine.Command{Kind: engine.AdjustEffect, Effect: engine.Distortion, Value: -0.1}, true
	case "y":
		return engine.Command{Kind: engine.AdjustEffect, Effect: engine.Distortion, Value: 0.1}, true
	case "z":
		return engine.Command{Kind: engine.CyclePattern, Instrument: sequencer.Kick}, true
	case "x":
		return engine.Command{Kind: engine.CyclePattern, Instrument: sequencer.Hihat}, true
	case "c":
		return engine.Command{Kind: engine.CyclePattern, Instrument: sequencer.Bass}, true
	case "h":
		return engine.Command{Kind: engine.ToggleHelp}, true
	case "u":
		return engine.Command{Kind: engine.RandomizeHue}, true
	case "i":
		return engine.Command{Kind: engine.RandomizeSaturation}, true
	case "o":
		return engine.Command{Kind: engine.RandomizeBrightness}, true
	case "p":
		return engine.Command{Kind: engine.ToggleRandomColor}, true
	case "l":
		return engine.Command{Kind: engine.TriggerRandomCombo}, true
	case "k":
		return engine.Command{Kind: engine.ResetColor}, true
	case "b":
		return engine.Command{Kind: engine.ToggleRandomBpmTrigger}, true
	}
	return engine.Command{}, false
}

// mouseCommand maps a mouse event to a command. Cells are scaled to the
// engine's screen size; the rightmost columns fire effects by height.
func (m *Model) mouseCommand(msg tea.MouseMsg) (engine.Command, bool) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return engine.Command{Kind: engine.Zoom, Value: -zoomStep}, true
	case tea.MouseButtonWheelDown:
		return engine.Command{Kind: engine.Zoom, Value: zoomStep}, true
	}
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return engine.Command{}, false
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.dragging = true
		m.lastX, m.lastY = msg.X, msg.Y
		if m.width <= 0 || m.height <= 0 {
			return engine.Command{}, false
		}
		if msg.X >= m.width-effectCols {
			return engine.Command{Kind: engine.TriggerEffect, Value: float64(msg.Y) / float64(m.height)}, true
		}
		w, h := m.Engine.ScreenSize()
		return engine.Command{
			Kind: engine.Click,
			X:    (float64(msg.X) + 0.5) / float64(m.width) * float64(w),
			Y:    (float64(msg.Y) + 0.5) / float64(m.height) * float64(h),
		}, true
	case tea.MouseActionMotion:
		if !m.dragging {
			return engine.Command{}, false
		}
		dx, dy := msg.X-m.lastX, msg.Y-m.lastY
		m.lastX, m.lastY = msg.X, msg.Y
		if dx == 0 && dy == 0 {
			return engine.Command{}, false
		}
		return engine.Command{Kind: engine.Orbit, X: float64(dx) * orbitPerCell, Y: float64(dy) * orbitPerCell}, true
	case tea.MouseActionRelease:
		m.dragging = false
	}
	return engine.Command{}, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if c, ok := KeyCommand(msg.String()); ok {
			m.Engine.Dispatch(c)
		}

	case tea.MouseMsg:
		if c, ok := m.mouseCommand(msg); ok {
			m.Engine.Dispatch(c)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.Engine.Dispatch(engine.Command{Kind: engine.Resize, N: msg.Width * cellWidth, Value: float64(msg.Height * cellHeight)})

	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			if event.Controller.Type() == midi.ControllerLaunchpad {
				m.controller = event.Controller
			} else {
				m.keyboards++
			}
			go midi.Route(event.Controller, m.Engine)
		case midi.DeviceDisconnected:
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
			} else if m.keyboards > 0 {
				m.keyboards--
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Engine.Snapshot()
	st := snap.State
	sym := m.Theme.Symbols

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	onStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.Surface()).
		Padding(0, 1)

	// header
	playState := "STOP"
	if snap.Sequencer.Playing {
		playState = "PLAY"
	}
	beat := " "
	if st.Beat {
		beat = string(sym.Beat)
	}
	devices := ""
	if m.controller != nil {
		devices += " LP:X"
	}
	if m.keyboards > 0 {
		devices += fmt.Sprintf(" KB:%d", m.keyboards)
	}
	sceneLabel := fmt.Sprintf("%d %s", snap.Scene, snap.SceneName)
	if snap.Transitioning {
		sceneLabel += " ..."
	}
	header := headerStyle.Render(fmt.Sprintf("go-vj  %s %s %3dbpm  scene %s%s", beat, playState, st.BPM, sceneLabel, devices))

	// levels and effects
	meter := func(label string, v float64) string {
		return labelStyle.Render(widgets.Meter(label, v, barWidth, sym.BarFull, sym.BarEmpty))
	}
	levels := strings.Join([]string{
		meter("bass", st.Levels.Bass),
		meter("mid", st.Levels.Mid),
		meter("treble", st.Levels.Treble),
		meter("input", st.Levels.Volume),
		meter("volume", st.Volume),
	}, "\n")
	effects := strings.Join([]string{
		meter("reverb", st.Effects.Reverb),
		meter("filter", st.Effects.Filter),
		meter("distortion", st.Effects.Distortion),
		meter("intensity", st.Effects.Intensity),
		meter("shift", st.Color.Shift),
	}, "\n")

	// colour and toggles
	tint := modulation.HSL{H: st.Color.Hue, S: modulation.Clamp01(st.Color.Saturation), L: 0.5 * modulation.Clamp01(st.Color.Brightness)}.RGB()
	flag := func(name string, on bool) string {
		if on {
			return onStyle.Render(string(sym.Solid) + " " + name)
		}
		return dimStyle.Render(string(sym.Empty) + " " + name)
	}
	colour := fmt.Sprintf("%s hue %.2f sat %.2f bri %.2f  bg %s",
		widgets.Swatch(tint, sym.Solid), st.Color.Hue, st.Color.Saturation, st.Color.Brightness, st.Background)
	toggles := strings.Join([]string{
		flag("wire", st.Wireframe),
		flag("auto", st.AutoMode),
		flag("rndcol", st.RandomColor),
		flag("rndbpm", snap.RandomTrigger),
		flag("flash", st.FlashTrigger),
	}, "  ")

	// sequencer
	stepSym := widgets.StepSymbols{Empty: sym.StepEmpty, Hit: sym.StepActive, Cursor: sym.StepPlayhead, CursorHit: sym.CursorActive}
	cursor := -1
	if snap.Sequencer.Playing {
		cursor = snap.Sequencer.Cursor
	}
	var seqLines []string
	for _, inst := range sequencer.Instruments() {
		seqLines = append(seqLines, fmt.Sprintf("%-6s %d %s", inst, snap.Sequencer.Selection[inst]+1,
			widgets.StepRow(snap.Sequencer.Selection, inst, cursor, stepSym)))
	}

	// scene swatches
	view := m.Monitor.View()
	grid := widgets.SwatchGrid(view.Grid, sym.Solid)
	stats := dimStyle.Render(fmt.Sprintf("%d/%d visible  %d frames", view.Visible, view.Entities, snap.Frames))

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(levels),
		panelStyle.Render(effects),
		panelStyle.Render(grid+"\n"+stats),
	)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(top)
	out.WriteString("\n")
	out.WriteString(colour)
	out.WriteString("\n")
	out.WriteString(toggles)
	out.WriteString("\n\n")
	out.WriteString(labelStyle.Render(strings.Join(seqLines, "\n")))
	out.WriteString("\n\n")

	if st.ShowHelp {
		out.WriteString(labelStyle.Render(widgets.RenderKeyHelp(keyHelp)))
		out.WriteString("\n\n")
		out.WriteString(labelStyle.Render("Launchpad"))
		out.WriteString("\n")
		out.WriteString(widgets.Legend(padLegend(), sym.Solid))
	} else {
		out.WriteString(dimStyle.Render("1-0 F2 F3:scene  s:seq  a/d:bpm  space:flash  h:help  ctrl+c:quit"))
	}
	return out.String()
}

var keyHelp = []widgets.KeySection{
	{Title: "Scenes", Keys: []widgets.KeyBinding{
		{Key: "1-9 0 F2 F3", Desc: "scene 1-12"},
		{Key: "left/right", Desc: "previous/next scene"},
		{Key: "enter", Desc: "random scene"},
		{Key: "F4", Desc: "auto mode"},
	}},
	{Title: "Sound", Keys: []widgets.KeyBinding{
		{Key: "s", Desc: "sequencer on/off"},
		{Key: "a/d", Desc: "bpm -/+"},
		{Key: "z/x/c", Desc: "kick/hihat/bass pattern"},
		{Key: "-/+", Desc: "volume"},
		{Key: "q/w e/r t/y", Desc: "reverb, filter, distortion -/+"},
	}},
	{Title: "Visuals", Keys: []widgets.KeyBinding{
		{Key: "space", Desc: "white flash"},
		{Key: "l", Desc: "random effect combo"},
		{Key: "W", Desc: "wireframe"},
		{Key: "u/i/o", Desc: "random hue/saturation/brightness"},
		{Key: "p k", Desc: "random colour mode, reset colour"},
		{Key: "b", Desc: "bpm random trigger"},
		{Key: "R", Desc: "reset display"},
		{Key: "mouse", Desc: "click effect, drag orbit, wheel zoom"},
		{Key: "h esc", Desc: "help"},
	}},
	{Title: "General", Keys: []widgets.KeyBinding{
		{Key: "ctrl+c", Desc: "quit (q is reverb down)"},
	}},
}

func padLegend() []widgets.LegendItem {
	var items []widgets.LegendItem
	for _, l := range midi.Legend() {
		items = append(items, widgets.LegendItem{Color: l.Color, Name: l.Name, Desc: l.Desc})
	}
	return items
}
