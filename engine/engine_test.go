package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"go-vj/modulation"
	"go-vj/scene"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeBackend records calls and can be told to fail builds
type fakeBackend struct {
	next     scene.Handle
	builds   []int
	disposed []scene.Handle
	live     map[scene.Handle]bool
	wire     map[scene.Handle]bool
	params   []scene.Param
	bg       modulation.RGB
	camera   modulation.Camera

	panicOn map[int]bool
	failOn  map[int]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		live:    make(map[scene.Handle]bool),
		wire:    make(map[scene.Handle]bool),
		panicOn: make(map[int]bool),
		failOn:  make(map[int]bool),
	}
}

func (b *fakeBackend) BuildScene(index int, layout scene.Layout) (scene.Handle, error) {
	b.builds = append(b.builds, index)
	if b.panicOn[index] {
		panic("geometry exploded")
	}
	b.next++
	b.live[b.next] = true
	if b.failOn[index] {
		return b.next, errors.New("out of buffers")
	}
	return b.next, nil
}

func (b *fakeBackend) DisposeScene(h scene.Handle) {
	b.disposed = append(b.disposed, h)
	delete(b.live, h)
}

func (b *fakeBackend) ApplyWireframe(h scene.Handle, on bool) { b.wire[h] = on }

func (b *fakeBackend) ApplyParameters(h scene.Handle, p []scene.Param) { b.params = p }

func (b *fakeBackend) SetBackground(c modulation.RGB) { b.bg = c }

func (b *fakeBackend) SetCamera(c modulation.Camera) { b.camera = c }

func newTestEngine(t *testing.T) (*Engine, *fakeBackend) {
	t.Helper()
	b := newFakeBackend()
	e, err := New(Options{
		Backend:      b,
		Seed:         42,
		Now:          t0,
		ScreenWidth:  100,
		ScreenHeight: 80,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, b
}

func TestNewBuildsStartScene(t *testing.T) {
	e, b := newTestEngine(t)
	if e.ActiveScene() != 1 {
		t.Errorf("active = %d, want 1", e.ActiveScene())
	}
	if len(b.builds) != 1 || b.builds[0] != 1 {
		t.Errorf("builds = %v, want [1]", b.builds)
	}
	if e.state.BPM != modulation.DefaultBPM || e.seq.BPM() != modulation.DefaultBPM {
		t.Errorf("bpm = %d/%d", e.state.BPM, e.seq.BPM())
	}
}

func TestNewRejectsNilBackend(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error for nil backend")
	}
}

func TestAdjustBPMClamps(t *testing.T) {
	tests := []struct {
		start, delta, want int
	}{
		{195, 20, 200},
		{65, -20, 60},
		{128, 1, 129},
		{200, 1000, 200},
		{60, -1, 60},
	}
	for _, tt := range tests {
		e, _ := newTestEngine(t)
		e.state.BPM = tt.start
		e.Dispatch(Command{Kind: AdjustBPM, N: tt.delta})
		if e.state.BPM != tt.want {
			t.Errorf("%d%+d: bpm = %d, want %d", tt.start, tt.delta, e.state.BPM, tt.want)
		}
		if e.seq.BPM() != tt.want {
			t.Errorf("%d%+d: sequencer bpm = %d, want %d", tt.start, tt.delta, e.seq.BPM(), tt.want)
		}
	}
}

func TestRapidFireTransitionsCollapse(t *testing.T) {
	e, b := newTestEngine(t)

	accepted := 0
	for i := 0; i < 3; i++ {
		if e.RequestTransition(5) {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("accepted %d requests, want 1", accepted)
	}
	if !e.Transitioning() {
		t.Fatal("not transitioning after accepted request")
	}
	if b.bg != modulation.WhiteRGB {
		t.Errorf("background = %v, want white", b.bg)
	}

	e.Tick(t0.Add(TransitionFlash))
	if b.bg != modulation.Black {
		t.Errorf("background after first step = %v, want black", b.bg)
	}
	if e.ActiveScene() != 1 {
		t.Fatal("scene switched before the second step")
	}

	e.Tick(t0.Add(TransitionFlash + TransitionSwitch))
	if e.ActiveScene() != 5 {
		t.Errorf("active = %d, want 5", e.ActiveScene())
	}
	if e.Transitioning() {
		t.Error("latch still held")
	}
	if len(b.builds) != 2 || b.builds[1] != 5 {
		t.Errorf("builds = %v, want [1 5]", b.builds)
	}
	if len(b.live) != 1 {
		t.Errorf("%d live scenes, want 1", len(b.live))
	}
	if !e.state.FlashTrigger {
		t.Error("transition should set the flash trigger")
	}
}

func TestTransitionToActiveIsDropped(t *testing.T) {
	e, _ := newTestEngine(t)
	if e.RequestTransition(1) {
		t.Error("request for the active scene accepted")
	}
	if e.RequestTransition(-3) {
		t.Error("clamped request for the active scene accepted")
	}
}

func TestTransitionClampsTarget(t *testing.T) {
	e, _ := newTestEngine(t)
	if !e.RequestTransition(99) {
		t.Fatal("request dropped")
	}
	e.Tick(t0.Add(time.Second))
	if e.ActiveScene() != scene.Count {
		t.Errorf("active = %d, want %d", e.ActiveScene(), scene.Count)
	}
}

func TestPanickingBuildReleasesLatch(t *testing.T) {
	e, b := newTestEngine(t)
	b.panicOn[4] = true

	e.RequestTransition(4)
	e.Tick(t0.Add(time.Second))
	if e.Transitioning() {
		t.Fatal("latch held after panicking build")
	}

	if !e.RequestTransition(6) {
		t.Fatal("engine stopped accepting transitions")
	}
	e.Tick(t0.Add(2 * time.Second))
	if e.ActiveScene() != 6 || e.handle == 0 {
		t.Errorf("active = %d handle = %d after recovery", e.ActiveScene(), e.handle)
	}

	// a frame with no scene must not panic either
	e.Frame(t0.Add(3 * time.Second))
}

func TestPanickingResetKeepsRunning(t *testing.T) {
	e, b := newTestEngine(t)
	e.RequestTransition(4)
	e.Tick(t0.Add(time.Second))
	b.panicOn[1] = true

	e.Dispatch(Command{Kind: ResetDisplay})
	if e.ActiveScene() != 1 || e.handle != 0 {
		t.Errorf("active = %d handle = %d after failed reset", e.ActiveScene(), e.handle)
	}
	e.Frame(t0.Add(2 * time.Second))

	b.panicOn[1] = false
	if !e.RequestTransition(5) {
		t.Fatal("engine stopped accepting transitions")
	}
	e.Tick(t0.Add(3 * time.Second))
	if e.ActiveScene() != 5 || e.handle == 0 {
		t.Errorf("active = %d handle = %d after recovery", e.ActiveScene(), e.handle)
	}
}

func TestNewWithPanickingBackend(t *testing.T) {
	b := newFakeBackend()
	b.panicOn[1] = true
	if _, err := New(Options{Backend: b, Seed: 1, Now: t0}); err == nil {
		t.Error("New succeeded with a panicking backend")
	}
}

func TestFailedBuildDisposesPartialScene(t *testing.T) {
	e, b := newTestEngine(t)
	b.failOn[3] = true

	e.RequestTransition(3)
	e.Tick(t0.Add(time.Second))

	if e.Transitioning() {
		t.Error("latch held after failed build")
	}
	if len(b.live) != 0 {
		t.Errorf("live scenes = %v, want none", b.live)
	}
	if e.handle != 0 {
		t.Errorf("handle = %d, want 0", e.handle)
	}
	e.Frame(t0.Add(2 * time.Second))
}

func TestResetDisplayKeepsBPM(t *testing.T) {
	e, b := newTestEngine(t)
	e.Dispatch(Command{Kind: AdjustBPM, N: 12})
	e.RequestTransition(7)
	e.Tick(t0.Add(time.Second))
	e.Dispatch(Command{Kind: AdjustVolume, Value: -0.5})
	e.Dispatch(Command{Kind: ToggleWireframe})
	e.Dispatch(Command{Kind: ToggleSequencer})
	e.Dispatch(Command{Kind: ToggleRandomBpmTrigger})

	before := e.Snapshot()
	if before.State.BPM != 140 || before.Scene != 7 || math.Abs(before.State.Volume-0.2) > 1e-9 {
		t.Fatalf("setup state = bpm %d scene %d vol %v", before.State.BPM, before.Scene, before.State.Volume)
	}

	e.Dispatch(Command{Kind: ResetDisplay})

	s := e.Snapshot()
	if s.State.BPM != 140 {
		t.Errorf("bpm = %d, want 140", s.State.BPM)
	}
	if s.Scene != 1 {
		t.Errorf("scene = %d, want 1", s.Scene)
	}
	if s.State.Volume != 0.7 {
		t.Errorf("volume = %v, want 0.7", s.State.Volume)
	}
	if s.State.Wireframe || b.wire[e.handle] {
		t.Error("wireframe still on")
	}
	if s.Sequencer.Playing || s.RandomTrigger {
		t.Error("sequencer or random trigger still running")
	}
	if s.State.Elapsed != 0 || s.State.Color != modulation.DefaultColor() {
		t.Errorf("state not reset: %+v", s.State)
	}
	if e.sched.Len() != 0 {
		t.Errorf("%d timers left after reset", e.sched.Len())
	}
	if b.builds[len(b.builds)-1] != 1 {
		t.Errorf("last build = %d, want 1", b.builds[len(b.builds)-1])
	}
}

func TestResetDisplayFromSceneOne(t *testing.T) {
	e, b := newTestEngine(t)
	e.Dispatch(Command{Kind: ResetDisplay})
	if len(b.builds) != 2 || e.handle == 0 {
		t.Errorf("builds = %v handle = %d; reset must rebuild scene 1", b.builds, e.handle)
	}
	if len(b.live) != 1 {
		t.Errorf("%d live scenes, want 1", len(b.live))
	}
}

func TestShakeDecays(t *testing.T) {
	e, _ := newTestEngine(t)
	e.state.Shake = modulation.Vec3{X: 1, Y: -2, Z: 0.5}

	prev := e.state.Shake.Len()
	for i := 0; i < 50; i++ {
		e.detectBeatLocked()
		got := e.state.Shake.Len()
		if math.Abs(got-ShakeDecay*prev) > 1e-12 {
			t.Fatalf("step %d: |shake| = %v, want %v", i, got, ShakeDecay*prev)
		}
		if got <= 0 {
			t.Fatalf("shake reached zero at step %d", i)
		}
		prev = got
	}
}

func TestBeatThresholdHasNoMemory(t *testing.T) {
	e, _ := newTestEngine(t)
	tests := []struct {
		bass      float64
		beat      bool
		flashTrig bool
	}{
		{0.29, false, false},
		{0.31, true, false},
		{0.29, false, false},
		{0.51, true, true},
		{0.31, true, true}, // only a non-beat frame clears the trigger
		{0, false, false},
	}
	for _, tt := range tests {
		e.state.Levels.Bass = tt.bass
		e.detectBeatLocked()
		if e.state.Beat != tt.beat {
			t.Errorf("bass %v: beat = %v, want %v", tt.bass, e.state.Beat, tt.beat)
		}
		if e.state.FlashTrigger != tt.flashTrig {
			t.Errorf("bass %v: flash trigger = %v, want %v", tt.bass, e.state.FlashTrigger, tt.flashTrig)
		}
	}
}

func TestStrongBeatFlashesOnce(t *testing.T) {
	e, b := newTestEngine(t)
	e.state.Levels.Bass = 0.9

	e.detectBeatLocked()
	first := e.effects.beatFlashTok
	if !e.effects.beatFlashing || first == 0 {
		t.Fatal("strong beat did not flash")
	}
	e.detectBeatLocked()
	if e.effects.beatFlashTok != first {
		t.Error("overlapping beat flash scheduled")
	}

	e.Tick(t0.Add(beatFlashDuration))
	if e.effects.beatFlashing {
		t.Error("latch not released by revert")
	}
	if b.bg != modulation.Black {
		t.Errorf("background = %v, want black", b.bg)
	}
}

func TestAdjustEffectClamps(t *testing.T) {
	tests := []struct {
		kind         EffectKind
		start, delta float64
		want         float64
	}{
		{Reverb, 0.95, 0.2, 1.0},
		{Filter, 0.1, -0.5, 0},
		{Distortion, 0.25, 0.25, 0.5},
	}
	for _, tt := range tests {
		e, _ := newTestEngine(t)
		*e.effectValue(tt.kind) = tt.start
		e.Dispatch(Command{Kind: AdjustEffect, Effect: tt.kind, Value: tt.delta})
		if got := *e.effectValue(tt.kind); got != tt.want {
			t.Errorf("%s %v%+v = %v, want %v", tt.kind, tt.start, tt.delta, got, tt.want)
		}
	}
}

func TestTriggerEffectPicksByThird(t *testing.T) {
	tests := []struct {
		intensity float64
		kind      EffectKind
	}{
		{0.1, Reverb},
		{0.5, Filter},
		{0.9, Distortion},
	}
	for _, tt := range tests {
		e, _ := newTestEngine(t)
		e.state.Effects = modulation.Effects{}
		e.Dispatch(Command{Kind: TriggerEffect, Value: tt.intensity})
		if v := *e.effectValue(tt.kind); v < 0.5 || v >= 1 {
			t.Errorf("intensity %v: %s = %v, want [0.5,1)", tt.intensity, tt.kind, v)
		}
	}
}

func TestRippleLifetime(t *testing.T) {
	e, _ := newTestEngine(t)
	e.rippleLocked(10, 10)
	if r := e.ripples[0]; r.MaxRadius != 100 || r.Radius != 0 || r.Opacity != 1 {
		t.Fatalf("new ripple = %+v", r)
	}

	// max(100, 80) bounds the radius: 5 updates reach 100, the 6th exceeds it
	for i := 0; i < 5; i++ {
		e.updateEffectsLocked()
	}
	if len(e.ripples) != 1 {
		t.Fatalf("ripple removed early at radius %v", 5*RippleSpeed)
	}
	e.updateEffectsLocked()
	if len(e.ripples) != 0 {
		t.Errorf("ripple kept past max radius: %+v", e.ripples)
	}
}

func TestRippleFadesOut(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Dispatch(Command{Kind: Resize, N: 100000, Value: 100000})
	e.rippleLocked(0, 0)
	for i := 0; i < 49; i++ {
		e.updateEffectsLocked()
	}
	if len(e.ripples) != 1 {
		t.Fatal("ripple removed before fading out")
	}
	e.updateEffectsLocked()
	e.updateEffectsLocked()
	if len(e.ripples) != 0 {
		t.Errorf("faded ripple kept: %+v", e.ripples)
	}
}

func TestZoomPulse(t *testing.T) {
	e, b := newTestEngine(t)

	e.zoomPulseLocked()
	e.zoomPulseLocked()
	if got := e.effects.rootScale; math.Abs(got-2.25) > 1e-12 {
		t.Errorf("root scale after two pulses = %v, want 2.25", got)
	}

	e.Frame(t0.Add(time.Millisecond))
	if len(b.params) == 0 || b.params[0].ID != 1 {
		t.Fatalf("params = %+v", b.params)
	}
	want := e.entities[0].Scale.X * 2.25
	if got := b.params[0].Scale.X; math.Abs(got-want) > 1e-9 {
		t.Errorf("root param scale = %v, want %v", got, want)
	}

	e.Tick(t0.Add(ZoomDuration))
	if e.effects.rootScale != 1 {
		t.Errorf("root scale after revert = %v, want first captured 1", e.effects.rootScale)
	}
}

func TestZoomPulseAbortsOnNaN(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1)} {
		e, _ := newTestEngine(t)
		e.effects.rootScale = bad
		pending := e.sched.Len()

		e.zoomPulseLocked()
		if e.sched.Len() != pending || e.effects.zoomTok != 0 {
			t.Errorf("scale %v: zoom scheduled a revert", bad)
		}
		if got := e.effects.rootScale; !math.IsNaN(bad) && got != bad {
			t.Errorf("scale %v changed to %v", bad, got)
		}
	}
}

func TestColorShiftReverts(t *testing.T) {
	e, _ := newTestEngine(t)
	e.colorShiftLocked()
	if e.state.Color == modulation.DefaultColor() {
		t.Fatal("colour shift changed nothing")
	}

	e.Tick(t0.Add(ColorShiftDuration - time.Millisecond))
	if e.state.Color == modulation.DefaultColor() {
		t.Fatal("colour reverted early")
	}
	e.Tick(t0.Add(ColorShiftDuration))
	if e.state.Color != modulation.DefaultColor() {
		t.Errorf("colour after 2s = %+v", e.state.Color)
	}
}

func TestColorShiftReplacesPendingRevert(t *testing.T) {
	e, _ := newTestEngine(t)
	e.colorShiftLocked()
	e.Tick(t0.Add(time.Second))
	e.colorShiftLocked()

	e.Tick(t0.Add(ColorShiftDuration))
	if e.state.Color == modulation.DefaultColor() {
		t.Error("first revert cut the second shift short")
	}
	e.Tick(t0.Add(time.Second + ColorShiftDuration))
	if e.state.Color != modulation.DefaultColor() {
		t.Errorf("colour = %+v, want default", e.state.Color)
	}
}

func TestShakeEffectSets(t *testing.T) {
	e, _ := newTestEngine(t)
	e.state.Shake = modulation.Vec3{X: 100, Y: 100, Z: 100}
	e.shakeLocked()
	s := e.state.Shake
	if math.Abs(s.X) > 1 || math.Abs(s.Y) > 1 || math.Abs(s.Z) > 0.5 {
		t.Errorf("shake = %+v, want set not added", s)
	}
}

func TestWhiteFlashRestoresBackground(t *testing.T) {
	e, b := newTestEngine(t)
	e.setBackgroundLocked(modulation.Hex(0x0a0a20))

	e.Dispatch(Command{Kind: TriggerFlash})
	e.Dispatch(Command{Kind: TriggerFlash})
	if b.bg != modulation.WhiteRGB {
		t.Fatalf("background = %v, want white", b.bg)
	}
	e.Tick(t0.Add(WhiteFlashDuration))
	if b.bg != modulation.Hex(0x0a0a20) {
		t.Errorf("background = %v, want restored", b.bg)
	}
}

func TestComboSchedulesStaggered(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Dispatch(Command{Kind: TriggerRandomCombo})
	n := len(e.effects.comboToks)
	if n < 1 || n > 3 {
		t.Fatalf("combo scheduled %d effects", n)
	}
	e.Tick(t0.Add(time.Duration(n-1) * ComboStagger))
	if len(e.effects.comboToks) != 0 {
		t.Errorf("%d combo steps left", len(e.effects.comboToks))
	}
}

func TestWireframeToggle(t *testing.T) {
	e, b := newTestEngine(t)
	e.Dispatch(Command{Kind: ToggleWireframe})
	if !e.state.Wireframe || !b.wire[e.handle] {
		t.Fatal("wireframe not applied")
	}
	if e.state.Color.Saturation != 0.9 || e.state.Color.Brightness != 1.2 {
		t.Errorf("wireframe colour = %+v", e.state.Color)
	}

	e.Dispatch(Command{Kind: ToggleWireframe})
	if e.state.Wireframe || b.wire[e.handle] {
		t.Error("wireframe still on")
	}
	e.Tick(t0.Add(time.Second))
	if b.bg != modulation.Black {
		t.Errorf("background = %v, want black", b.bg)
	}
}

func TestTransitionReappliesWireframe(t *testing.T) {
	e, b := newTestEngine(t)
	e.Dispatch(Command{Kind: ToggleWireframe})
	e.RequestTransition(2)
	e.Tick(t0.Add(time.Second))
	if !b.wire[e.handle] {
		t.Error("new scene built without wireframe")
	}
}

func TestStepSceneClamps(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Dispatch(Command{Kind: StepScene, N: -1})
	if e.Transitioning() {
		t.Error("stepping below scene 1 started a transition")
	}
	e.Dispatch(Command{Kind: StepScene, N: 1})
	e.Tick(t0.Add(time.Second))
	if e.ActiveScene() != 2 {
		t.Errorf("active = %d, want 2", e.ActiveScene())
	}
}

func TestAutoModeEdge(t *testing.T) {
	tests := []struct {
		elapsed float64
		want    bool
	}{
		{0, false},
		{0.008, false},
		{14.992, false},
		{15.008, true},
		{15.024, false},
		{29.5, false},
		{30.01, true},
	}
	for _, tt := range tests {
		if got := autoModeEdge(tt.elapsed); got != tt.want {
			t.Errorf("autoModeEdge(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}

func TestAutoModeRequestsOtherScene(t *testing.T) {
	e, _ := newTestEngine(t)
	e.state.AutoMode = true
	e.state.Elapsed = 15.008
	e.detectBeatLocked()
	if !e.transitioning {
		t.Fatal("auto mode did not request a transition")
	}
	e.Tick(t0.Add(time.Second))
	if e.ActiveScene() == 1 {
		t.Error("auto mode picked the active scene")
	}
}

func TestRandomOtherScene(t *testing.T) {
	e, _ := newTestEngine(t)
	for active := 1; active <= scene.Count; active++ {
		e.active = active
		seen := map[int]bool{}
		for i := 0; i < 500; i++ {
			n := e.randomOtherScene()
			if n == active || n < 1 || n > scene.Count {
				t.Fatalf("active %d: picked %d", active, n)
			}
			seen[n] = true
		}
		if len(seen) != scene.Count-1 {
			t.Errorf("active %d: only %d scenes reachable", active, len(seen))
		}
	}
}

func TestRandomTriggerRestartsOnBPMChange(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Dispatch(Command{Kind: ToggleRandomBpmTrigger})
	old := e.randomTok
	if old == 0 {
		t.Fatal("random trigger not started")
	}

	e.Dispatch(Command{Kind: AdjustBPM, N: 10})
	if e.sched.Pending(old) {
		t.Error("stale random trigger still pending")
	}
	if !e.sched.Pending(e.randomTok) {
		t.Error("random trigger not re-armed")
	}

	e.Dispatch(Command{Kind: ToggleRandomBpmTrigger})
	if e.RandomTriggerActive() {
		t.Error("random trigger still active")
	}
}

func TestRandomTriggerRuns(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Dispatch(Command{Kind: ToggleRandomBpmTrigger})
	for i := 1; i <= 64; i++ {
		e.Frame(t0.Add(time.Duration(i) * QuarterNote(e.state.BPM)))
	}
	if !e.RandomTriggerActive() {
		t.Error("random trigger stopped itself")
	}
	s := e.Snapshot()
	if s.State.Volume < 0 || s.State.Volume > 1 {
		t.Errorf("volume out of range: %v", s.State.Volume)
	}
}

func TestQuarterNote(t *testing.T) {
	if got := QuarterNote(120); got != 500*time.Millisecond {
		t.Errorf("QuarterNote(120) = %v", got)
	}
}

func TestOrbitAndZoomClamp(t *testing.T) {
	e, b := newTestEngine(t)
	e.Dispatch(Command{Kind: Orbit, X: 0.2, Y: 10})
	if e.state.Camera.Phi != maxPhi {
		t.Errorf("phi = %v, want %v", e.state.Camera.Phi, maxPhi)
	}
	e.Dispatch(Command{Kind: Zoom, Value: -50})
	if e.state.Camera.Radius != minRadius {
		t.Errorf("radius = %v, want %v", e.state.Camera.Radius, minRadius)
	}
	e.Frame(t0.Add(time.Millisecond))
	if b.camera.Position.Len() == 0 {
		t.Error("camera never reached the backend")
	}
}

func TestFixedCameraIgnoresShake(t *testing.T) {
	e, b := newTestEngine(t)
	e.RequestTransition(3)
	e.Tick(t0.Add(time.Second))
	if !e.state.Camera.Fixed {
		t.Fatal("scene 3 camera not fixed")
	}
	e.state.Shake = modulation.Vec3{X: 3, Y: 3, Z: 3}
	e.Frame(t0.Add(2 * time.Second))
	if b.camera.Position != e.layout.CameraPos {
		t.Errorf("camera = %+v, want %+v", b.camera.Position, e.layout.CameraPos)
	}
}

func TestFrameRate(t *testing.T) {
	e, _ := newTestEngine(t)
	if e.FrameInterval() != time.Second/30 {
		t.Errorf("scene 1 interval = %v", e.FrameInterval())
	}
	e.RequestTransition(7)
	e.Tick(t0.Add(time.Second))
	if e.FrameInterval() != time.Second/60 {
		t.Errorf("scene 7 interval = %v", e.FrameInterval())
	}
}

func TestFrameAdvancesLogicalTime(t *testing.T) {
	e, _ := newTestEngine(t)
	for i := 1; i <= 10; i++ {
		e.Frame(t0.Add(time.Duration(i) * time.Second))
	}
	if got := e.Snapshot().State.Elapsed; math.Abs(got-10*modulation.FrameStep) > 1e-12 {
		t.Errorf("elapsed = %v, want %v", got, 10*modulation.FrameStep)
	}
}

type kickCounter struct{ kicks int }

func (k *kickCounter) PlayKick() { k.kicks++ }
func (k *kickCounter) PlayHihat() {}
func (k *kickCounter) PlayBass() {}

func TestStallDoesNotReplaySteps(t *testing.T) {
	voices := &kickCounter{}
	e, err := New(Options{Backend: newFakeBackend(), Voices: voices, Seed: 1, Now: t0})
	if err != nil {
		t.Fatal(err)
	}
	e.Dispatch(Command{Kind: ToggleSequencer})
	e.Dispatch(Command{Kind: ToggleRandomBpmTrigger})

	e.Frame(t0.Add(time.Minute))
	if voices.kicks > 1 {
		t.Errorf("%d kicks after a one minute stall, want at most 1", voices.kicks)
	}
	if !e.sched.Pending(e.randomTok) {
		t.Error("random trigger lost after stall")
	}
}

func TestStartVolume(t *testing.T) {
	tests := []struct {
		name string
		vol  *float64
		want float64
	}{
		{"default", nil, modulation.DefaultVolume},
		{"muted", new(float64), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(Options{Backend: newFakeBackend(), Volume: tt.vol, Seed: 1, Now: t0})
			if err != nil {
				t.Fatal(err)
			}
			if got := e.Snapshot().State.Volume; got != tt.want {
				t.Errorf("volume = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVolumeCallback(t *testing.T) {
	var got []float64
	e, err := New(Options{
		Backend:  newFakeBackend(),
		Seed:     1,
		Now:      t0,
		OnVolume: func(v float64) { got = append(got, v) },
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Dispatch(Command{Kind: AdjustVolume, Value: 1})
	if len(got) != 2 || got[1] != 1 {
		t.Errorf("volume callbacks = %v, want [0.7 1]", got)
	}
}

func TestUpdateChanNotifies(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Dispatch(Command{Kind: ToggleHelp})
	select {
	case <-e.UpdateChan:
	default:
		t.Error("no update after command")
	}
	if !e.Snapshot().State.ShowHelp {
		t.Error("help not shown")
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Command{Kind: SelectScene, N: 3}, "SelectScene(3)"},
		{Command{Kind: AdjustEffect, Effect: Reverb, Value: 0.1}, "AdjustEffect(reverb, +0.10)"},
		{Command{Kind: ResetDisplay}, "ResetDisplay"},
		{Command{Kind: CommandKind(99)}, "command(99)"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
