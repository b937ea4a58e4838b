// Package engine is the coordinating object of go-vj: it owns the modulation
// state, the active scene and its entities, every timer, the sequencer and
// the command surface.
//
// One coarse mutex guards everything. Timers are schedule tasks advanced from
// the engine's own loop while holding that lock, so a timer callback, a frame
// and a command never interleave.
package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go-vj/analysis"
	"go-vj/debug"
	"go-vj/modulation"
	"go-vj/scene"
	"go-vj/schedule"
	"go-vj/sequencer"
)

// Backend is the rendering contract. DisposeScene must be idempotent and
// accept handles of partially built scenes.
type Backend interface {
	BuildScene(index int, layout scene.Layout) (scene.Handle, error)
	DisposeScene(h scene.Handle)
	ApplyWireframe(h scene.Handle, enabled bool)
	ApplyParameters(h scene.Handle, params []scene.Param)
	SetBackground(c modulation.RGB)
	SetCamera(c modulation.Camera)
}

// Frame rates
const (
	baseFPS = 30
	highFPS = 60
)

// Options configures a new Engine
type Options struct {
	Backend  Backend
	Analyzer analysis.Analyzer
	Voices   sequencer.Voices

	BPM          int
	ScreenWidth  int
	ScreenHeight int
	StartScene   int
	Seed         int64

	// Volume is the starting volume; nil keeps the default
	Volume *float64

	// Now is the scheduler's starting time; zero means time.Now()
	Now time.Time

	// OnVolume is called under the engine lock whenever the volume changes.
	// It must not call back into the engine.
	OnVolume func(v float64)
}

// Engine coordinates everything
type Engine struct {
	mu sync.Mutex

	state   *modulation.State
	sched   *schedule.Scheduler
	rng     *rand.Rand
	backend Backend
	poller  *analysis.Poller
	seq     *sequencer.Sequencer

	onVolume func(float64)

	// scene session
	active         int
	transitioning  bool
	transitionToks []schedule.Token
	strategy       scene.Strategy
	layout         scene.Layout
	entities       []scene.Entity
	handle         scene.Handle

	effects effectState
	ripples []Ripple
	screenW int
	screenH int

	randomTok schedule.Token

	frames uint64

	// UpdateChan is signalled (non-blocking) after every frame and command
	UpdateChan chan struct{}
}

// New creates an engine and builds the start scene directly
func New(opts Options) (*Engine, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("engine: nil backend")
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}

	e := &Engine{
		state:      modulation.NewState(),
		sched:      schedule.New(now),
		rng:        rand.New(rand.NewSource(seed)),
		backend:    opts.Backend,
		poller:     analysis.NewPoller(opts.Analyzer),
		onVolume:   opts.OnVolume,
		screenW:    opts.ScreenWidth,
		screenH:    opts.ScreenHeight,
		UpdateChan: make(chan struct{}, 1),
	}
	e.effects.rootScale = 1
	if e.screenW <= 0 {
		e.screenW = 1920
	}
	if e.screenH <= 0 {
		e.screenH = 1080
	}

	e.seq = sequencer.New(e.sched, opts.Voices, e.rng)
	if opts.BPM != 0 {
		e.state.BPM = modulation.ClampBPM(opts.BPM)
	}
	e.seq.SetBPM(e.state.BPM)
	if opts.Volume != nil {
		e.state.Volume = modulation.Clamp01(*opts.Volume)
	}
	e.state.RefreshWallClock(now)

	start := opts.StartScene
	if start == 0 {
		start = 1
	}
	e.active = scene.ClampIndex(start)
	if err := e.guardedBuildLocked(e.active); err != nil {
		return nil, err
	}
	e.resetCameraLocked()
	e.backend.SetBackground(e.state.Background)
	e.volumeChangedLocked()
	debug.Log("engine", "started scene=%d bpm=%d", e.active, e.state.BPM)
	return e, nil
}

// Run drives frames and timers until ctx is cancelled. It wakes at the
// earlier of the next frame and the next scheduled task.
func (e *Engine) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	nextFrame := time.Now()
	for {
		select {
		case <-ctx.Done():
			e.Shutdown()
			return nil
		case now := <-timer.C:
			if !now.Before(nextFrame) {
				e.Frame(now)
				nextFrame = now.Add(e.FrameInterval())
			} else {
				e.Tick(now)
			}

			wake := nextFrame
			if next, ok := e.NextTimer(); ok && next.Before(wake) {
				wake = next
			}
			d := time.Until(wake)
			if d < 0 {
				d = 0
			}
			timer.Reset(d)
		}
	}
}

// FrameInterval is 1/60s for high-rate scenes and 1/30s otherwise
func (e *Engine) FrameInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.layout.HighRate {
		return time.Second / highFPS
	}
	return time.Second / baseFPS
}

// NextTimer returns when the earliest pending task is due
func (e *Engine) NextTimer() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched.Next()
}

// Tick runs timers due by now without rendering a frame
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	n := e.sched.Advance(now)
	e.mu.Unlock()
	if n > 0 {
		e.notify()
	}
}

// Frame runs one full update: timers, analysis, clock, beat detection,
// effects, the active scene and camera shake.
func (e *Engine) Frame(now time.Time) {
	e.mu.Lock()
	defer e.notify()
	defer e.mu.Unlock()

	e.sched.Advance(now)
	e.state.Levels = e.poller.Poll()

	if e.layout.Camera == scene.CameraOrbit {
		e.state.Camera.Orbit()
	}
	e.state.Advance(modulation.FrameStep)
	e.state.RefreshWallClock(now)

	e.detectBeatLocked()
	e.updateEffectsLocked()
	e.updateSceneLocked()
	e.applyCameraLocked()
	e.frames++
}

// Shutdown stops the sequencer and every timer and disposes the scene
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq.Stop()
	e.sched.Clear()
	if e.handle != 0 {
		e.backend.DisposeScene(e.handle)
		e.handle = 0
	}
	debug.Log("engine", "shutdown after %d frames", e.frames)
}

func (e *Engine) updateSceneLocked() {
	if e.strategy == nil || e.handle == 0 {
		return
	}

	var out scene.Output
	func() {
		defer func() {
			if r := recover(); r != nil {
				debug.LogEvery(60, "scene", "update %d panicked: %v", e.active, r)
				out = scene.Output{}
			}
		}()
		out = e.strategy.Update(scene.NewFrame(e.state, e.rng), e.entities)
	}()

	params := out.Params[:0:0]
	for _, p := range out.Params {
		i := int(p.ID) - 1
		if i < 0 || i >= len(e.entities) {
			continue
		}
		p.Opacity = modulation.Clamp01(p.Opacity)
		e.entities[i].Apply(p)
		if i == 0 {
			p.Scale = p.Scale.Scale(e.effects.rootScale)
		}
		params = append(params, p)
	}
	e.backend.ApplyParameters(e.handle, params)

	if f := out.Flash; f != nil {
		e.flashBackgroundLocked(&e.effects.sceneTok, f.Color, f.Revert, f.After)
	}
}

// applyCameraLocked offsets the camera by the current shake. Fixed cameras
// are never shaken.
func (e *Engine) applyCameraLocked() {
	cam := e.state.Camera
	if !cam.Fixed {
		cam.Position = cam.Position.Add(e.state.Shake)
	}
	e.backend.SetCamera(cam)
}

// buildLocked disposes the current scene and builds index in its place
func (e *Engine) buildLocked(index int) error {
	strategy, err := scene.Get(index)
	if err != nil {
		return err
	}
	if e.handle != 0 {
		e.backend.DisposeScene(e.handle)
		e.handle = 0
	}
	e.strategy = nil
	e.entities = nil

	layout := strategy.Build(e.rng)
	for i := range layout.Entities {
		layout.Entities[i].ID = scene.EntityID(i + 1)
	}

	h, err := e.backend.BuildScene(index, layout)
	if err != nil {
		if h != 0 {
			e.backend.DisposeScene(h)
		}
		return fmt.Errorf("build scene %d: %w", index, err)
	}

	e.strategy = strategy
	e.layout = layout
	e.entities = layout.Entities
	e.handle = h
	e.sched.Cancel(e.effects.zoomTok)
	e.sched.Cancel(e.effects.sceneTok)
	e.effects.rootScale = 1
	e.setBackgroundLocked(layout.Background)
	debug.Log("scene", "built %d %s entities=%d", index, layout.Name, len(layout.Entities))
	return nil
}

// guardedBuildLocked is buildLocked with a panicking backend reported as an
// error. The scene is left empty in that case.
func (e *Engine) guardedBuildLocked(index int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build scene %d panicked: %v", index, r)
		}
	}()
	return e.buildLocked(index)
}

func (e *Engine) resetCameraLocked() {
	if e.layout.Camera == scene.CameraFixed {
		e.state.Camera.Fixed = true
		e.state.Camera.Position = e.layout.CameraPos
		e.state.Camera.LookAt = e.layout.CameraLook
	} else {
		e.state.Camera = modulation.DefaultCamera()
	}
	e.backend.SetCamera(e.state.Camera)
}

func (e *Engine) setBackgroundLocked(c modulation.RGB) {
	e.state.Background = c
	e.backend.SetBackground(c)
}

// flashBackgroundLocked sets c now and schedules revert, replacing whatever
// revert tok was pending.
func (e *Engine) flashBackgroundLocked(tok *schedule.Token, c, revert modulation.RGB, after time.Duration) {
	e.setBackgroundLocked(c)
	e.sched.Cancel(*tok)
	*tok = e.sched.After(after, func() {
		*tok = 0
		e.setBackgroundLocked(revert)
	})
}

func (e *Engine) volumeChangedLocked() {
	if e.onVolume != nil {
		e.onVolume(e.state.Volume)
	}
}

func (e *Engine) notify() {
	select {
	case e.UpdateChan <- struct{}{}:
	default:
	}
}

// spread returns a value uniformly in [-w/2, w/2)
func (e *Engine) spread(w float64) float64 {
	return (e.rng.Float64() - 0.5) * w
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
